// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver string `mapstructure:"driver"`
		URL    string `mapstructure:"url"`
		Path   string `mapstructure:"path"`
	} `mapstructure:"database"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	App struct {
		FreeModuleLimit int `mapstructure:"free_module_limit"`
		PremiumDays     int `mapstructure:"premium_days"`
	} `mapstructure:"app"`
	Study struct {
		AnswerSettle    time.Duration `mapstructure:"answer_settle"`
		CompletionDelay time.Duration `mapstructure:"completion_delay"`
		TransitionDelay time.Duration `mapstructure:"transition_delay"`
		MinActionGap    time.Duration `mapstructure:"min_action_gap"`
	} `mapstructure:"study"`
}

var Cfg Config

// LoadConfig は .env、config.yaml、NEONQUIZ_ で始まる環境変数の順に読み込みます。
// path が空ならカレントディレクトリと ./configs を探します
func LoadConfig(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	// .env はなくてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Error loading .env file", slog.Any("error", err))
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv は Unmarshal の対象キーを知らないので、キーを登録しておく
	for _, key := range []string{
		"database.driver", "database.url", "database.path",
		"log.level",
		"app.free_module_limit", "app.premium_days",
		"study.answer_settle", "study.completion_delay", "study.transition_delay", "study.min_action_gap",
	} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("config.LoadConfig: bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("Config file not found. Using defaults and environment variables.")
		} else {
			logger.Error("Error reading config file", slog.Any("error", err))
			return fmt.Errorf("config.LoadConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Error("Error unmarshalling config", slog.Any("error", err))
		return fmt.Errorf("config.LoadConfig: %w", err)
	}
	applyDefaults(&cfg)
	Cfg = cfg

	logger.Debug("Config loaded",
		slog.String("database_driver", Cfg.Database.Driver),
		slog.String("log_level", Cfg.Log.Level),
		slog.Int("free_module_limit", Cfg.App.FreeModuleLimit))
	return nil
}

// applyDefaults は未設定や不正な値をデフォルトで埋めます
func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.App.FreeModuleLimit <= 0 {
		cfg.App.FreeModuleLimit = DefaultFreeModuleLimit
	}
	if cfg.App.PremiumDays <= 0 {
		cfg.App.PremiumDays = DefaultPremiumDays
	}
	if cfg.Study.AnswerSettle <= 0 {
		cfg.Study.AnswerSettle = DefaultAnswerSettle
	}
	if cfg.Study.CompletionDelay <= 0 {
		cfg.Study.CompletionDelay = DefaultCompletionDelay
	}
	if cfg.Study.TransitionDelay <= 0 {
		cfg.Study.TransitionDelay = DefaultTransitionDelay
	}
	if cfg.Study.MinActionGap <= 0 {
		cfg.Study.MinActionGap = DefaultMinActionGap
	}
}

// DSN は設定されたドライバ向けの接続文字列です
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return c.Database.Path
}

func defaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultDatabaseFile
	}
	return filepath.Join(dir, AppName, DefaultDatabaseFile)
}
