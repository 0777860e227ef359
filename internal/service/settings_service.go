package service

import (
	"context"
	"strings"

	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/repository"
	"neon_quizlet/internal/store"
	"neon_quizlet/internal/validation"
)

// NeonColors は名前で指定できるテーマカラーです
var NeonColors = map[string]string{
	"purple": "#8A2BE2",
	"blue":   "#00BFFF",
	"pink":   "#FF1493",
	"green":  "#00FF7F",
	"orange": "#FF4500",
}

type SettingsService interface {
	Get(ctx context.Context) (model.UserSettings, error)
	SetDarkMode(ctx context.Context, enabled bool) (model.UserSettings, error)
	SetPrimaryColor(ctx context.Context, color string) (model.UserSettings, error)
}

type settingsService struct {
	kv   store.KV
	repo repository.SettingsRepository
}

func NewSettingsService(kv store.KV, repo repository.SettingsRepository) SettingsService {
	return &settingsService{kv: kv, repo: repo}
}

func (s *settingsService) Get(ctx context.Context) (model.UserSettings, error) {
	settings, err := s.repo.Get(ctx, s.kv)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to read settings", "error", err)
		return settings, appErrorOr(err)
	}
	return settings, nil
}

func (s *settingsService) SetDarkMode(ctx context.Context, enabled bool) (model.UserSettings, error) {
	return s.update(ctx, func(settings *model.UserSettings) {
		settings.DarkMode = enabled
	})
}

// SetPrimaryColor は "#RRGGBB" 形式か NeonColors の名前を受け付けます
func (s *settingsService) SetPrimaryColor(ctx context.Context, color string) (model.UserSettings, error) {
	color = strings.TrimSpace(color)
	if named, ok := NeonColors[strings.ToLower(color)]; ok {
		color = named
	}
	if err := validation.Var("primaryColor", color, "required,hexcolor"); err != nil {
		return model.UserSettings{}, err
	}
	return s.update(ctx, func(settings *model.UserSettings) {
		settings.PrimaryColor = strings.ToUpper(color)
	})
}

func (s *settingsService) update(ctx context.Context, fn func(*model.UserSettings)) (model.UserSettings, error) {
	var result model.UserSettings
	err := s.kv.Update(ctx, func(tx store.KV) error {
		settings, err := s.repo.Get(ctx, tx)
		if err != nil {
			return err
		}
		fn(&settings)
		result = settings
		return s.repo.Save(ctx, tx, settings)
	})
	if err != nil {
		logging.FromContext(ctx).Error("Failed to save settings", "error", err)
		return model.UserSettings{}, appErrorOr(err)
	}
	return result, nil
}
