package cli

import (
	"context"
	"log/slog"
	"strings"

	"neon_quizlet/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sensitiveFlags はログ出力時に値をマスキングするフラグ名です
var sensitiveFlags = map[string]bool{
	"password": true,
}

// runFunc はコマンド本体です。ctx にはコマンド単位のロガーが入っています
type runFunc func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error

// withLogging はコマンドの開始と終了をログに出し、コマンド単位のロガーを ctx に格納します
func withLogging(state *rootState, fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		state.ran = true
		app := state.app
		startTime := app.Clock.Now()

		cmdLogger := app.Logger.With(
			slog.String("cmd_id", uuid.NewString()),
			slog.String("command", cmd.CommandPath()),
		)
		ctx := logging.WithLogger(cmd.Context(), cmdLogger)

		cmdLogger.Debug("Command started",
			slog.Int("args", len(args)),
			slog.Any("flags", formatFlags(cmd)),
		)

		err := fn(ctx, app, cmd, args)

		level := slog.LevelInfo
		switch code := MapErrorToExitCode(err); {
		case err == nil:
		case code == ExitInternal:
			level = slog.LevelError
		default:
			level = slog.LevelWarn
		}
		attrs := []any{slog.Float64("latency_ms", float64(app.Clock.Now().Sub(startTime).Nanoseconds())/1e6)}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		cmdLogger.Log(ctx, level, "Command completed", attrs...)
		return err
	}
}

// formatFlags は指定されたフラグをログ用に整形・マスキングします
func formatFlags(cmd *cobra.Command) map[string]string {
	result := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if sensitiveFlags[strings.ToLower(f.Name)] {
			result[f.Name] = "[SENSITIVE]"
			return
		}
		result[f.Name] = f.Value.String()
	})
	return result
}
