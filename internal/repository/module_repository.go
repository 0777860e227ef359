//go:generate mockery --name ModuleRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/store"
)

// ModuleRepository はモジュールコレクションの読み書きです
type ModuleRepository interface {
	FindAll(ctx context.Context, kv store.KV) ([]*model.Module, error)
	FindByID(ctx context.Context, kv store.KV, moduleID string) (*model.Module, error)
	Save(ctx context.Context, kv store.KV, module *model.Module) error
	Delete(ctx context.Context, kv store.KV, moduleID string) error
}

type kvModuleRepository struct{}

func NewModuleRepository() ModuleRepository {
	return &kvModuleRepository{}
}

func (r *kvModuleRepository) load(ctx context.Context, kv store.KV) ([]*model.Module, error) {
	var modules []*model.Module
	if _, err := store.ReadJSON(ctx, kv, store.ModulesKey, &modules); err != nil {
		logging.FromContext(ctx).Error("Error reading modules from store", "error", err)
		return nil, fmt.Errorf("kvModuleRepository.load: %w", err)
	}
	return modules, nil
}

func (r *kvModuleRepository) FindAll(ctx context.Context, kv store.KV) ([]*model.Module, error) {
	modules, err := r.load(ctx, kv)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []*model.Module{}
	}
	return modules, nil
}

func (r *kvModuleRepository) FindByID(ctx context.Context, kv store.KV, moduleID string) (*model.Module, error) {
	modules, err := r.load(ctx, kv)
	if err != nil {
		return nil, err
	}
	for _, m := range modules {
		if m.ID == moduleID {
			return m, nil
		}
	}
	return nil, model.ErrNotFound
}

// Save は id が一致すれば置き換え、なければ末尾に追加します
func (r *kvModuleRepository) Save(ctx context.Context, kv store.KV, module *model.Module) error {
	modules, err := r.load(ctx, kv)
	if err != nil {
		return err
	}
	replaced := false
	for i, m := range modules {
		if m.ID == module.ID {
			modules[i] = module
			replaced = true
			break
		}
	}
	if !replaced {
		modules = append(modules, module)
	}
	if err := store.WriteJSON(ctx, kv, store.ModulesKey, modules); err != nil {
		logging.FromContext(ctx).Error("Error writing modules to store", "error", err, "module_id", module.ID)
		return fmt.Errorf("kvModuleRepository.Save: %w", err)
	}
	return nil
}

func (r *kvModuleRepository) Delete(ctx context.Context, kv store.KV, moduleID string) error {
	modules, err := r.load(ctx, kv)
	if err != nil {
		return err
	}
	kept := modules[:0]
	for _, m := range modules {
		if m.ID != moduleID {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(modules) {
		return model.ErrNotFound
	}
	if err := store.WriteJSON(ctx, kv, store.ModulesKey, kept); err != nil {
		logging.FromContext(ctx).Error("Error writing modules to store", "error", err, "module_id", moduleID)
		return fmt.Errorf("kvModuleRepository.Delete: %w", err)
	}
	return nil
}
