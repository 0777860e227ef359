package repository

import (
	"context"
	"fmt"

	"neon_quizlet/internal/model"
	"neon_quizlet/internal/store"
)

type SettingsRepository interface {
	Get(ctx context.Context, kv store.KV) (model.UserSettings, error)
	Save(ctx context.Context, kv store.KV, settings model.UserSettings) error
}

type kvSettingsRepository struct{}

func NewSettingsRepository() SettingsRepository {
	return &kvSettingsRepository{}
}

// Get は保存がなければデフォルト設定を返します
func (r *kvSettingsRepository) Get(ctx context.Context, kv store.KV) (model.UserSettings, error) {
	settings := model.DefaultSettings()
	if _, err := store.ReadJSON(ctx, kv, store.SettingsKey, &settings); err != nil {
		return model.DefaultSettings(), fmt.Errorf("kvSettingsRepository.Get: %w", err)
	}
	return settings, nil
}

func (r *kvSettingsRepository) Save(ctx context.Context, kv store.KV, settings model.UserSettings) error {
	if err := store.WriteJSON(ctx, kv, store.SettingsKey, settings); err != nil {
		return fmt.Errorf("kvSettingsRepository.Save: %w", err)
	}
	return nil
}
