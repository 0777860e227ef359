package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// kvEntry は kv_entries テーブルの1行です
type kvEntry struct {
	Key       string    `gorm:"column:entry_key;type:varchar(255);primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

// NewDB はドライバ名と DSN から GORM の接続を作ります
func NewDB(driver, dsn string, appLogger *slog.Logger) (*gorm.DB, error) {
	// APP_ENV=dev のときは SQL もすべて出す
	gormLogLevel := gormlogger.Warn
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(200*time.Millisecond),
	)

	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("store.NewDB: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGormLogger.LogMode(gormLogLevel),
	})
	if err != nil {
		appLogger.Error("Failed to open database with GORM", slog.String("driver", driver), slog.Any("error", err))
		return nil, fmt.Errorf("store.NewDB: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, fmt.Errorf("store.NewDB: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, fmt.Errorf("store.NewDB: ping: %w", err)
	}

	if dialector.Name() == DriverSQLite {
		// SQLite は書き込みが1本だけ
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	appLogger.Info("Database connection established with GORM", slog.String("driver", dialector.Name()))
	return db, nil
}

// GormKV は kv_entries テーブルに保存する KV です
type GormKV struct {
	db *gorm.DB
}

// NewGormKV はテーブルを用意して KV を返します
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("store.NewGormKV: migrate: %w", err)
	}
	return &GormKV{db: db}, nil
}

func (s *GormKV) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	result := s.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("GormKV.Get: %w", result.Error)
	}
	return entry.Value, true, nil
}

func (s *GormKV) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("GormKV.Set: %w", result.Error)
	}
	return nil
}

func (s *GormKV) Delete(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&kvEntry{})
	if result.Error != nil {
		return fmt.Errorf("GormKV.Delete: %w", result.Error)
	}
	return nil
}

// Update は fn を1トランザクションで実行します
func (s *GormKV) Update(ctx context.Context, fn func(tx KV) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormKV{db: tx})
	})
}
