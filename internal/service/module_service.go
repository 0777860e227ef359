package service

import (
	"context"
	"errors"
	"strings"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/repository"
	"neon_quizlet/internal/stats"
	"neon_quizlet/internal/store"
	"neon_quizlet/internal/validation"

	"github.com/google/uuid"
)

// ModuleService はモジュールと用語の操作です。
// 用語の集合が変わる操作は、モジュールと統計を1回の KV.Update でまとめて書き込みます
type ModuleService interface {
	ListModules(ctx context.Context) ([]*model.Module, error)
	GetModule(ctx context.Context, moduleID string) (*model.Module, error)
	SearchModules(ctx context.Context, query string) ([]*model.Module, error)
	CreateModule(ctx context.Context, req *model.CreateModuleRequest) (*model.Module, error)
	UpdateModule(ctx context.Context, module *model.Module) (*model.Module, error)
	DeleteModule(ctx context.Context, moduleID string) error

	AddTerm(ctx context.Context, moduleID string, req *model.TermRequest) (*model.Term, error)
	UpdateTerm(ctx context.Context, moduleID, termID string, req *model.TermRequest) (*model.Term, error)
	RemoveTerm(ctx context.Context, moduleID, termID string) error
	MarkTermLearned(ctx context.Context, moduleID, termID string, learned bool) error

	ListStats(ctx context.Context) ([]*model.StudyStats, error)
	GetStats(ctx context.Context, moduleID string) (*model.StudyStats, error)
	UpdateStats(ctx context.Context, moduleID string, patch model.StatsPatch) (*model.StudyStats, error)
	RecordSession(ctx context.Context, moduleID string, session model.StudySession) (*model.StudyStats, error)
}

type moduleService struct {
	kv         store.KV
	moduleRepo repository.ModuleRepository
	statsRepo  repository.StatsRepository
	clock      clock.Clock
}

func NewModuleService(kv store.KV, moduleRepo repository.ModuleRepository, statsRepo repository.StatsRepository, clk clock.Clock) ModuleService {
	return &moduleService{
		kv:         kv,
		moduleRepo: moduleRepo,
		statsRepo:  statsRepo,
		clock:      clk,
	}
}

func (s *moduleService) ListModules(ctx context.Context) ([]*model.Module, error) {
	modules, err := s.moduleRepo.FindAll(ctx, s.kv)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to list modules", "error", err)
		return nil, appErrorOr(err)
	}
	return modules, nil
}

func (s *moduleService) GetModule(ctx context.Context, moduleID string) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, s.kv, moduleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, moduleNotFound()
		}
		logging.FromContext(ctx).Error("Failed to get module", "error", err, "module_id", moduleID)
		return nil, appErrorOr(err)
	}
	return module, nil
}

// SearchModules はタイトルか説明に query を含むモジュールを返します (大文字小文字は区別しない)
func (s *moduleService) SearchModules(ctx context.Context, query string) ([]*model.Module, error) {
	modules, err := s.ListModules(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return modules, nil
	}
	matched := make([]*model.Module, 0, len(modules))
	for _, m := range modules {
		if strings.Contains(strings.ToLower(m.Title), q) || strings.Contains(strings.ToLower(m.Description), q) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}

// CreateModule はモジュールと空の統計を一緒に作ります
func (s *moduleService) CreateModule(ctx context.Context, req *model.CreateModuleRequest) (*model.Module, error) {
	logger := logging.FromContext(ctx)
	req = trimModuleRequest(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	module := &model.Module{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Terms:       make([]model.Term, 0, len(req.Terms)),
		CreatedAt:   s.clock.Now(),
	}
	for _, t := range req.Terms {
		module.Terms = append(module.Terms, newTerm(t))
	}
	moduleStats := &model.StudyStats{ModuleID: module.ID, StudyHistory: []model.StudySession{}}
	moduleStats = stats.Sync(moduleStats, module)

	err := s.kv.Update(ctx, func(tx store.KV) error {
		if err := s.moduleRepo.Save(ctx, tx, module); err != nil {
			return err
		}
		return s.statsRepo.Save(ctx, tx, moduleStats)
	})
	if err != nil {
		logger.Error("Failed to create module", "error", err)
		return nil, appErrorOr(err)
	}

	logger.Info("Module created", "module_id", module.ID, "terms", len(module.Terms))
	return module, nil
}

// UpdateModule はモジュールを丸ごと置き換えます。作成日時は保存済みの値を使い、統計の件数は数え直します
func (s *moduleService) UpdateModule(ctx context.Context, module *model.Module) (*model.Module, error) {
	req := &model.CreateModuleRequest{Title: module.Title, Description: module.Description}
	for _, t := range module.Terms {
		req.Terms = append(req.Terms, model.TermRequest{Term: t.Term, Definition: t.Definition})
	}
	if err := validation.Struct(trimModuleRequest(req)); err != nil {
		return nil, err
	}

	var updated *model.Module
	_, err := s.mutate(ctx, module.ID, func(current *model.Module) (bool, error) {
		createdAt := current.CreatedAt
		*current = *module.Clone()
		current.CreatedAt = createdAt
		current.Title = strings.TrimSpace(current.Title)
		current.Description = strings.TrimSpace(current.Description)
		for i := range current.Terms {
			if current.Terms[i].ID == "" {
				current.Terms[i].ID = uuid.NewString()
			}
		}
		updated = current
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteModule はモジュールと統計を一緒に消します
func (s *moduleService) DeleteModule(ctx context.Context, moduleID string) error {
	logger := logging.FromContext(ctx)
	err := s.kv.Update(ctx, func(tx store.KV) error {
		if err := s.moduleRepo.Delete(ctx, tx, moduleID); err != nil {
			return err
		}
		return s.statsRepo.Delete(ctx, tx, moduleID)
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return moduleNotFound()
		}
		logger.Error("Failed to delete module", "error", err, "module_id", moduleID)
		return appErrorOr(err)
	}
	logger.Info("Module deleted", "module_id", moduleID)
	return nil
}

func (s *moduleService) AddTerm(ctx context.Context, moduleID string, req *model.TermRequest) (*model.Term, error) {
	req = trimTermRequest(*req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	term := newTerm(*req)
	_, err := s.mutate(ctx, moduleID, func(m *model.Module) (bool, error) {
		m.Terms = append(m.Terms, term)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// UpdateTerm は用語と定義だけを書き換えます。learned はそのまま
func (s *moduleService) UpdateTerm(ctx context.Context, moduleID, termID string, req *model.TermRequest) (*model.Term, error) {
	req = trimTermRequest(*req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var updated model.Term
	_, err := s.mutate(ctx, moduleID, func(m *model.Module) (bool, error) {
		idx := m.FindTerm(termID)
		if idx < 0 {
			return false, termNotFound()
		}
		m.Terms[idx].Term = req.Term
		m.Terms[idx].Definition = req.Definition
		updated = m.Terms[idx]
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *moduleService) RemoveTerm(ctx context.Context, moduleID, termID string) error {
	_, err := s.mutate(ctx, moduleID, func(m *model.Module) (bool, error) {
		idx := m.FindTerm(termID)
		if idx < 0 {
			return false, termNotFound()
		}
		m.Terms = append(m.Terms[:idx], m.Terms[idx+1:]...)
		return true, nil
	})
	return err
}

// MarkTermLearned はフラグが変わるときだけ書き込み、lastStudied を更新します
func (s *moduleService) MarkTermLearned(ctx context.Context, moduleID, termID string, learned bool) error {
	_, err := s.mutate(ctx, moduleID, func(m *model.Module) (bool, error) {
		idx := m.FindTerm(termID)
		if idx < 0 {
			return false, termNotFound()
		}
		if m.Terms[idx].Learned == learned {
			return false, nil
		}
		m.Terms[idx].Learned = learned
		now := s.clock.Now()
		m.LastStudied = &now
		return true, nil
	})
	return err
}

func (s *moduleService) ListStats(ctx context.Context) ([]*model.StudyStats, error) {
	all, err := s.statsRepo.FindAll(ctx, s.kv)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to list stats", "error", err)
		return nil, appErrorOr(err)
	}
	return all, nil
}

func (s *moduleService) GetStats(ctx context.Context, moduleID string) (*model.StudyStats, error) {
	st, err := s.statsRepo.FindByModuleID(ctx, s.kv, moduleID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, statsNotFound()
		}
		logging.FromContext(ctx).Error("Failed to get stats", "error", err, "module_id", moduleID)
		return nil, appErrorOr(err)
	}
	return st, nil
}

// UpdateStats は部分更新をマージし、モジュールの lastStudied を更新します
func (s *moduleService) UpdateStats(ctx context.Context, moduleID string, patch model.StatsPatch) (*model.StudyStats, error) {
	var result *model.StudyStats
	err := s.kv.Update(ctx, func(tx store.KV) error {
		module, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		if err != nil {
			return err
		}
		current, err := s.statsRepo.FindByModuleID(ctx, tx, moduleID)
		if errors.Is(err, model.ErrNotFound) {
			return statsNotFound()
		} else if err != nil {
			return err
		}
		// 用語数はモジュールから数え直してから learned を抑える
		base := current.Clone()
		base.TotalTerms, _ = stats.Recount(module)
		result = stats.ApplyPatch(base, patch)
		now := s.clock.Now()
		module.LastStudied = &now
		if err := s.moduleRepo.Save(ctx, tx, module); err != nil {
			return err
		}
		return s.statsRepo.Save(ctx, tx, result)
	})
	if err != nil {
		return nil, s.wrapLookup(ctx, err, moduleID)
	}
	return result, nil
}

// RecordSession は完了したセッションを1回の書き込みで記録します。
// learned はモジュールから数え直し、履歴に追記、lastScore と lastStudied を更新します
func (s *moduleService) RecordSession(ctx context.Context, moduleID string, session model.StudySession) (*model.StudyStats, error) {
	logger := logging.FromContext(ctx)
	var result *model.StudyStats
	err := s.kv.Update(ctx, func(tx store.KV) error {
		module, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		if err != nil {
			return err
		}
		current, err := s.statsRepo.FindByModuleID(ctx, tx, moduleID)
		if errors.Is(err, model.ErrNotFound) {
			return statsNotFound()
		} else if err != nil {
			return err
		}
		total, learned := stats.Recount(module)
		result = stats.ApplySession(current, session, learned)
		result.TotalTerms = total
		now := s.clock.Now()
		module.LastStudied = &now
		if err := s.moduleRepo.Save(ctx, tx, module); err != nil {
			return err
		}
		return s.statsRepo.Save(ctx, tx, result)
	})
	if err != nil {
		return nil, s.wrapLookup(ctx, err, moduleID)
	}
	logger.Info("Study session recorded", "module_id", moduleID, "mode", session.Mode, "score", session.Score)
	return result, nil
}

// mutate はモジュールを読み、fn が変更したときだけモジュールと数え直した統計を一緒に保存します。
// 統計が欠けていれば作り直します
func (s *moduleService) mutate(ctx context.Context, moduleID string, fn func(m *model.Module) (bool, error)) (*model.StudyStats, error) {
	var result *model.StudyStats
	err := s.kv.Update(ctx, func(tx store.KV) error {
		module, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		if err != nil {
			return err
		}
		changed, err := fn(module)
		if err != nil || !changed {
			return err
		}

		current, err := s.statsRepo.FindByModuleID(ctx, tx, moduleID)
		if errors.Is(err, model.ErrNotFound) {
			logging.FromContext(ctx).Warn("Stats missing for module, recreating", "module_id", moduleID)
			current = &model.StudyStats{ModuleID: moduleID, StudyHistory: []model.StudySession{}}
		} else if err != nil {
			return err
		}
		result = stats.Sync(current, module)

		if err := s.moduleRepo.Save(ctx, tx, module); err != nil {
			return err
		}
		return s.statsRepo.Save(ctx, tx, result)
	})
	if err != nil {
		return nil, s.wrapLookup(ctx, err, moduleID)
	}
	return result, nil
}

func (s *moduleService) wrapLookup(ctx context.Context, err error, moduleID string) error {
	var appErr *model.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, model.ErrNotFound):
		return moduleNotFound()
	}
	logging.FromContext(ctx).Error("Failed to update module", "error", err, "module_id", moduleID)
	return appErrorOr(err)
}

func newTerm(req model.TermRequest) model.Term {
	return model.Term{
		ID:         uuid.NewString(),
		Term:       strings.TrimSpace(req.Term),
		Definition: strings.TrimSpace(req.Definition),
	}
}

// 前後の空白だけの入力は未入力として扱う
func trimTermRequest(req model.TermRequest) *model.TermRequest {
	return &model.TermRequest{
		Term:       strings.TrimSpace(req.Term),
		Definition: strings.TrimSpace(req.Definition),
	}
}

func trimModuleRequest(req *model.CreateModuleRequest) *model.CreateModuleRequest {
	out := &model.CreateModuleRequest{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Terms:       make([]model.TermRequest, len(req.Terms)),
	}
	for i, t := range req.Terms {
		out.Terms[i] = *trimTermRequest(t)
	}
	return out
}
