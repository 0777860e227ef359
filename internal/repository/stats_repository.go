//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/store"
)

// StatsRepository は統計コレクションの読み書きです (moduleId がキー)
type StatsRepository interface {
	FindAll(ctx context.Context, kv store.KV) ([]*model.StudyStats, error)
	FindByModuleID(ctx context.Context, kv store.KV, moduleID string) (*model.StudyStats, error)
	Save(ctx context.Context, kv store.KV, stats *model.StudyStats) error
	Delete(ctx context.Context, kv store.KV, moduleID string) error
}

type kvStatsRepository struct{}

func NewStatsRepository() StatsRepository {
	return &kvStatsRepository{}
}

func (r *kvStatsRepository) load(ctx context.Context, kv store.KV) ([]*model.StudyStats, error) {
	var all []*model.StudyStats
	if _, err := store.ReadJSON(ctx, kv, store.StatsKey, &all); err != nil {
		logging.FromContext(ctx).Error("Error reading stats from store", "error", err)
		return nil, fmt.Errorf("kvStatsRepository.load: %w", err)
	}
	return all, nil
}

func (r *kvStatsRepository) FindAll(ctx context.Context, kv store.KV) ([]*model.StudyStats, error) {
	all, err := r.load(ctx, kv)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []*model.StudyStats{}
	}
	return all, nil
}

func (r *kvStatsRepository) FindByModuleID(ctx context.Context, kv store.KV, moduleID string) (*model.StudyStats, error) {
	all, err := r.load(ctx, kv)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.ModuleID == moduleID {
			if s.StudyHistory == nil {
				s.StudyHistory = []model.StudySession{}
			}
			return s, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *kvStatsRepository) Save(ctx context.Context, kv store.KV, stats *model.StudyStats) error {
	all, err := r.load(ctx, kv)
	if err != nil {
		return err
	}
	replaced := false
	for i, s := range all {
		if s.ModuleID == stats.ModuleID {
			all[i] = stats
			replaced = true
			break
		}
	}
	if !replaced {
		all = append(all, stats)
	}
	if err := store.WriteJSON(ctx, kv, store.StatsKey, all); err != nil {
		logging.FromContext(ctx).Error("Error writing stats to store", "error", err, "module_id", stats.ModuleID)
		return fmt.Errorf("kvStatsRepository.Save: %w", err)
	}
	return nil
}

// Delete は統計が存在しなくてもエラーにしません (カスケード削除用)
func (r *kvStatsRepository) Delete(ctx context.Context, kv store.KV, moduleID string) error {
	all, err := r.load(ctx, kv)
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, s := range all {
		if s.ModuleID != moduleID {
			kept = append(kept, s)
		}
	}
	if err := store.WriteJSON(ctx, kv, store.StatsKey, kept); err != nil {
		logging.FromContext(ctx).Error("Error writing stats to store", "error", err, "module_id", moduleID)
		return fmt.Errorf("kvStatsRepository.Delete: %w", err)
	}
	return nil
}
