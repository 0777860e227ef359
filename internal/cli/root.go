// Package cli は neonquiz のコマンドラインです
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"neon_quizlet/internal/config"
	"neon_quizlet/internal/model"

	"github.com/spf13/cobra"
)

// Options はすべてのコマンドに共通のフラグです
type Options struct {
	ConfigDir string
	Ephemeral bool
}

// Bootstrap は設定と保存先を用意して App を返します
type Bootstrap func(ctx context.Context, opts Options) (*App, error)

type rootState struct {
	opts      Options
	bootstrap Bootstrap
	app       *App
	ran       bool
}

func newRootCommand(state *rootState) *cobra.Command {
	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Study flashcard modules from the terminal",
		Version:       config.AppVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if state.app != nil {
				return nil
			}
			app, err := state.bootstrap(cmd.Context(), state.opts)
			if err != nil {
				var appErr *model.AppError
				if errors.As(err, &appErr) {
					return err
				}
				return model.NewAppError("STARTUP_FAILED", "Failed to load the configuration or open the database.", "", err)
			}
			state.app = app
			return nil
		},
	}
	root.PersistentFlags().StringVar(&state.opts.ConfigDir, "config", "", "directory containing config.yaml")
	root.PersistentFlags().BoolVar(&state.opts.Ephemeral, "ephemeral", false, "keep data in memory only")
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%s", err)
	})

	root.AddCommand(
		newModuleCommand(state),
		newTermCommand(state),
		newStudyCommand(state),
		newStatsCommand(state),
		newAccountCommand(state),
		newSettingsCommand(state),
		newPlansCommand(state),
	)
	return root
}

// Execute はコマンドを実行して終了コードを返します
func Execute(ctx context.Context, bootstrap Bootstrap, args []string, in io.Reader, out, errOut io.Writer) int {
	state := &rootState{bootstrap: bootstrap}
	root := newRootCommand(state)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)

	logger := slog.Default()
	if state.app != nil {
		logger = state.app.Logger
		defer func() {
			if err := state.app.Close(); err != nil {
				logger.Error("Error closing application", slog.Any("error", err))
			}
		}()
	}

	// コマンド本体に入る前の失敗 (未知のコマンドなど) は使い方の誤り
	var appErr *model.AppError
	if err != nil && !state.ran && !errors.As(err, &appErr) {
		err = usageError("%s", err)
	}
	if err != nil {
		code := HandleError(errOut, logger, err)
		if code == ExitInvalidInput && !state.ran {
			fmt.Fprintf(errOut, "Run '%s --help' for usage.\n", root.CommandPath())
		}
		return code
	}
	return ExitOK
}

// exactArgs は引数の数を確かめます。cobra.ExactArgs と違い使い方の誤りとして返します
func exactArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s expects %d argument(s): %v", cmd.CommandPath(), n, names)
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usageError("%s expects between %d and %d arguments", cmd.CommandPath(), lo, hi)
		}
		return nil
	}
}
