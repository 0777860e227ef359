// Package logging は slog の初期化とコンテキストへのロガー格納を扱います。
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// logCtxKey はコンテキストにロガーを格納するためのキーです。
type logCtxKey struct{}

// ParseLevel は設定ファイルのログレベル文字列を slog.Level に変換します。
// 不明な値は Info として扱い、ok=false を返します。
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// NewLogger は環境に応じたハンドラでロガーを作ります。
// appEnv が "dev" なら tint、それ以外は JSON です。
func NewLogger(w io.Writer, appEnv string, level slog.Leveler) *slog.Logger {
	var handler slog.Handler
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	return slog.New(handler)
}

// Discard は何も出力しないロガーです (テスト用)
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithLogger は logger を格納したコンテキストを返します
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

// FromContext はコンテキストのロガーを返します。なければデフォルトロガーです
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
