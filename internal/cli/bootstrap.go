package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/config"
	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/store"
)

// DefaultBootstrap は設定を読み、ロガーと保存先 (gorm、--ephemeral ならメモリ) を用意します
func DefaultBootstrap(_ context.Context, opts Options) (*App, error) {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := config.LoadConfig(opts.ConfigDir, tempLogger); err != nil {
		return nil, err
	}
	cfg := config.Cfg

	level, ok := logging.ParseLevel(cfg.Log.Level)
	logger := logging.NewLogger(os.Stderr, os.Getenv("APP_ENV"), level)
	if !ok {
		logger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}
	slog.SetDefault(logger)

	clk := clock.Real{}
	if opts.Ephemeral {
		logger.Debug("Using in-memory store")
		return NewApp(store.NewMemoryKV(), cfg, clk, clk, logger), nil
	}

	if strings.EqualFold(cfg.Database.Driver, store.DriverSQLite) && cfg.Database.URL == "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, fmt.Errorf("cli.DefaultBootstrap: create data directory: %w", err)
		}
	}
	db, err := store.NewDB(cfg.Database.Driver, cfg.DSN(), logger)
	if err != nil {
		return nil, fmt.Errorf("cli.DefaultBootstrap: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cli.DefaultBootstrap: %w", err)
	}
	kv, err := store.NewGormKV(db)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("cli.DefaultBootstrap: %w", err)
	}

	app := NewApp(kv, cfg, clk, clk, logger)
	app.OnClose(closerFunc(sqlDB))
	logger.Debug("Database ready", slog.String("driver", cfg.Database.Driver))
	return app, nil
}
