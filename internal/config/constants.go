// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "neonquiz"
	AppVersion = "1.0.0"
	EnvPrefix  = "NEONQUIZ"
)

// デフォルト設定値
const (
	DefaultDatabaseDriver  = "sqlite"
	DefaultDatabaseFile    = "neonquiz.db"
	DefaultLogLevel        = "warn"
	DefaultFreeModuleLimit = 5
	DefaultPremiumDays     = 30
	DefaultAnswerSettle    = 100 * time.Millisecond
	DefaultCompletionDelay = 300 * time.Millisecond
	DefaultTransitionDelay = 150 * time.Millisecond
	DefaultMinActionGap    = 150 * time.Millisecond
)
