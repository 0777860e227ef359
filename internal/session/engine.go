// Package session は1回の学習セッションを進めるエンジンです。
// 状態遷移は Machine、待ち時間は clock.Scheduler に任せ、結果は完了時に1回だけ ModuleSource へ書き込みます
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/quiz"
	"neon_quizlet/internal/stats"
)

//go:generate mockery --name ModuleSource --output ./mocks --outpkg mocks --case=underscore

// ModuleSource はエンジンが使うモジュールの読み書きです
type ModuleSource interface {
	GetModule(ctx context.Context, moduleID string) (*model.Module, error)
	GetStats(ctx context.Context, moduleID string) (*model.StudyStats, error)
	MarkTermLearned(ctx context.Context, moduleID, termID string, learned bool) error
	RecordSession(ctx context.Context, moduleID string, session model.StudySession) (*model.StudyStats, error)
}

// Timing は操作の待ち時間です
type Timing struct {
	AnswerSettle    time.Duration // 回答後に次の操作を受け付けるまで
	CompletionDelay time.Duration // 最後の回答から完了まで
	TransitionDelay time.Duration // 次のアイテムへの移行
	MinActionGap    time.Duration // 連続操作の最小間隔
}

func DefaultTiming() Timing {
	return Timing{
		AnswerSettle:    100 * time.Millisecond,
		CompletionDelay: 300 * time.Millisecond,
		TransitionDelay: 150 * time.Millisecond,
		MinActionGap:    150 * time.Millisecond,
	}
}

// Item は学習アイテム1件です。テストモードでは Question が入ります
type Item struct {
	Term     model.Term
	Question *model.QuizQuestion
}

// Snapshot は表示側が読むエンジンの状態です
type Snapshot struct {
	ModuleID       string
	ModuleTitle    string
	Mode           model.StudyMode
	Phase          Phase
	Index          int
	Total          int
	Item           *Item
	Answered       bool
	LastCorrect    bool
	ShowNext       bool
	Transitioning  bool
	Completed      bool
	CorrectAnswers int
	Score          int
	TimeSpent      int
	Result         *model.StudySession
}

// Engine は1つの学習セッションを管理します。メソッドは複数 goroutine から呼んでも安全です
type Engine struct {
	mu     sync.Mutex
	source ModuleSource
	clock  clock.Clock
	sched  clock.Scheduler
	rng    *rand.Rand
	timing Timing
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	module    *model.Module
	mode      model.StudyMode
	items     []Item
	machine   Machine
	startedAt time.Time
	result    *model.StudySession

	gen        uint64
	closed     bool
	busy       bool
	lastAction time.Time
	idle       chan struct{}
	timers     map[uint64]clock.Timer
	timerSeq   uint64
}

func NewEngine(source ModuleSource, clk clock.Clock, sched clock.Scheduler, rng *rand.Rand, timing Timing, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	idle := make(chan struct{})
	close(idle)
	return &Engine{
		source: source,
		clock:  clk,
		sched:  sched,
		rng:    rng,
		timing: timing,
		logger: logger,
		idle:   idle,
	}
}

// Start はモジュールとモードを読み込んでセッションを始めます。
// モードが不正なら ErrInvalidMode、モジュールか統計がなければ ErrNotFound、用語が0件なら ErrEmptyModule
func (e *Engine) Start(ctx context.Context, moduleID, mode string) error {
	studyMode, err := model.ParseStudyMode(mode)
	if err != nil {
		return err
	}

	module, err := e.source.GetModule(ctx, moduleID)
	if err != nil {
		return fmt.Errorf("session.Start: %w", err)
	}
	if _, err := e.source.GetStats(ctx, moduleID); err != nil {
		return fmt.Errorf("session.Start: %w", err)
	}
	if len(module.Terms) == 0 {
		return model.ErrEmptyModule
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopTimersLocked()
	if e.cancel != nil {
		e.cancel()
	}
	e.ctx, e.cancel = context.WithCancel(ctx)
	e.closed = false
	e.module = module.Clone()
	e.mode = studyMode
	e.resetLocked()

	e.logger.Info("Study session started",
		slog.String("module_id", moduleID),
		slog.String("mode", string(studyMode)),
		slog.Int("items", len(e.items)))
	return nil
}

// resetLocked はアイテムを並べ直してカウンターと時間を初期化します
func (e *Engine) resetLocked() {
	e.gen++
	shuffled := quiz.Shuffle(e.rng, e.module.Terms)
	e.items = make([]Item, len(shuffled))
	if e.mode == model.ModeQuiz {
		questions := quiz.Generate(e.rng, shuffled, e.module.Definitions())
		for i := range questions {
			e.items[i] = Item{Term: shuffled[i], Question: &questions[i]}
		}
	} else {
		for i, t := range shuffled {
			e.items[i] = Item{Term: t}
		}
	}
	e.machine, _ = e.machine.Reset(len(e.items))
	e.startedAt = e.clock.Now()
	e.result = nil
	e.releaseLocked()
}

// AnswerFlashcard は「知っている/知らない」の自己申告です。learned フラグはそのまま保存します
func (e *Engine) AnswerFlashcard(known bool) (bool, error) {
	return e.answer(model.ModeFlashcards, func(Item) (bool, error) { return known, nil })
}

// AnswerQuiz は選択肢の番号で回答します
func (e *Engine) AnswerQuiz(optionIndex int) (bool, error) {
	return e.answer(model.ModeQuiz, func(item Item) (bool, error) {
		if item.Question == nil || optionIndex < 0 || optionIndex >= len(item.Question.Options) {
			return false, model.ErrInvalidInput
		}
		return optionIndex == item.Question.CorrectIndex, nil
	})
}

// AnswerWriting は自由入力で回答します。空白だけの入力は受け付けません
func (e *Engine) AnswerWriting(input string) (bool, error) {
	if strings.TrimSpace(input) == "" {
		return false, nil
	}
	return e.answer(model.ModeWriting, func(item Item) (bool, error) {
		return CheckWriting(input, item.Term.Definition), nil
	})
}

// CheckWriting は前後の空白を除き小文字にして完全一致を比べます
func CheckWriting(input, definition string) bool {
	return normalize(input) == normalize(definition)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (e *Engine) answer(mode model.StudyMode, judge func(Item) (bool, error)) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil || e.closed {
		return false, nil
	}
	if e.mode != mode {
		return false, model.ErrModeMismatch
	}
	if e.machine.Phase != PhaseAwaitingAnswer {
		return false, nil
	}
	item := e.items[e.machine.Index]
	correct, err := judge(item)
	if err != nil {
		return false, err
	}
	if !e.acquireLocked() {
		return false, nil
	}

	next, ok := e.machine.Answer(correct)
	if !ok {
		e.releaseLocked()
		return false, nil
	}
	e.machine = next

	// テストモードは不正解でも learned を戻さない
	switch {
	case correct:
		e.markLocked(item.Term.ID, true)
	case mode != model.ModeQuiz:
		e.markLocked(item.Term.ID, false)
	}

	gen := e.gen
	if e.machine.IsLast() {
		e.scheduleLocked(e.timing.CompletionDelay, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if !e.aliveLocked(gen) {
				return
			}
			defer e.releaseLocked()
			e.completeLocked()
		})
	} else {
		e.scheduleLocked(e.timing.AnswerSettle, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if !e.aliveLocked(gen) {
				return
			}
			e.releaseLocked()
		})
	}
	return true, nil
}

func (e *Engine) markLocked(termID string, learned bool) {
	if err := e.source.MarkTermLearned(e.ctx, e.module.ID, termID, learned); err != nil {
		e.logger.Error("Failed to update learned flag",
			slog.String("module_id", e.module.ID),
			slog.String("term_id", termID),
			slog.Any("error", err))
	}
}

// Next は次のアイテムへ進みます。最後のアイテムは回答後に自動で完了するので受け付けません
func (e *Engine) Next() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil || e.closed || e.machine.Phase != PhaseAnswered {
		return false
	}
	if !e.acquireLocked() {
		return false
	}

	next, ok := e.machine.BeginAdvance()
	if !ok {
		e.releaseLocked()
		return false
	}
	e.machine = next

	gen := e.gen
	e.scheduleLocked(e.timing.TransitionDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if !e.aliveLocked(gen) {
			return
		}
		defer e.releaseLocked()
		if next, ok := e.machine.EndAdvance(); ok {
			e.machine = next
		}
	})
	return true
}

// completeLocked はスコアと時間を確定して結果を1回だけ書き込みます
func (e *Engine) completeLocked() bool {
	next, ok := e.machine.Complete()
	if !ok {
		return false
	}
	e.machine = next

	now := e.clock.Now()
	session := model.StudySession{
		Date:      now,
		Mode:      e.mode,
		Score:     stats.Score(e.machine.Correct, e.machine.Total),
		TimeSpent: int(now.Sub(e.startedAt) / time.Second),
	}
	e.result = &session

	if _, err := e.source.RecordSession(e.ctx, e.module.ID, session); err != nil {
		e.logger.Error("Failed to record study session",
			slog.String("module_id", e.module.ID),
			slog.Any("error", err))
		return true
	}
	e.logger.Info("Study session completed",
		slog.String("module_id", e.module.ID),
		slog.String("mode", string(e.mode)),
		slog.Int("score", session.Score),
		slog.Int("time_spent", session.TimeSpent))
	return true
}

// Restart は同じモジュールとモードで並べ直して最初からやり直します。
// 途中で変わった learned フラグは戻しません。
// モジュールが削除されたか用語が0件になっていればセッションを閉じ、
// ErrNotFound か ErrEmptyModule を返します。それ以外の読み込み失敗では手元のコピーで続けます
func (e *Engine) Restart() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil || e.closed {
		return false, nil
	}
	if !e.acquireLocked() {
		return false, nil
	}
	defer e.releaseLocked()

	module, err := e.source.GetModule(e.ctx, e.module.ID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		e.logger.Info("Module no longer exists, restart refused", slog.String("module_id", e.module.ID))
		e.closeLocked()
		return false, fmt.Errorf("session.Restart: %w", err)
	case err != nil:
		e.logger.Error("Failed to reload module for restart",
			slog.String("module_id", e.module.ID),
			slog.Any("error", err))
	case len(module.Terms) == 0:
		e.logger.Info("Module has no terms, restart refused", slog.String("module_id", e.module.ID))
		e.closeLocked()
		return false, model.ErrEmptyModule
	default:
		e.module = module.Clone()
	}

	e.stopTimersLocked()
	e.resetLocked()
	e.logger.Info("Study session restarted", slog.String("module_id", e.module.ID))
	return true, nil
}

// Finish はセッションを離れます。完了前なら結果は記録されません
func (e *Engine) Finish() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.module == nil || e.closed {
		return false
	}
	if !e.acquireLocked() {
		return false
	}
	e.closeLocked()
	return true
}

// Close は予約済みのタイマーを無効にします。何度呼んでもよい
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *Engine) closeLocked() {
	if e.closed {
		return
	}
	e.closed = true
	e.gen++
	e.stopTimersLocked()
	if e.cancel != nil {
		e.cancel()
	}
	e.releaseLocked()
}

// Snapshot は現在の状態のコピーを返します
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Mode:           e.mode,
		Phase:          e.machine.Phase,
		Index:          e.machine.Index,
		Total:          e.machine.Total,
		Answered:       e.machine.Answered(),
		LastCorrect:    e.machine.LastCorrect,
		Transitioning:  e.machine.Phase == PhaseTransitioning,
		Completed:      e.machine.Phase == PhaseCompleted,
		CorrectAnswers: e.machine.Correct,
		Score:          stats.Score(e.machine.Correct, e.machine.Total),
	}
	if e.module != nil {
		snap.ModuleID = e.module.ID
		snap.ModuleTitle = e.module.Title
	}
	snap.ShowNext = e.machine.Phase == PhaseAnswered && !e.machine.IsLast()
	if e.machine.Index < len(e.items) && !snap.Completed {
		item := e.items[e.machine.Index]
		snap.Item = &item
	}
	if e.result != nil {
		result := *e.result
		snap.Result = &result
		snap.TimeSpent = result.TimeSpent
	} else if e.module != nil {
		snap.TimeSpent = int(e.clock.Now().Sub(e.startedAt) / time.Second)
	}
	return snap
}

// WaitIdle は操作の受付待ちが終わり、最小間隔が過ぎるまで待ちます
func (e *Engine) WaitIdle(ctx context.Context) error {
	for {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return nil
		}
		idle := e.idle
		busy := e.busy
		var remaining time.Duration
		if !busy && !e.lastAction.IsZero() {
			remaining = e.timing.MinActionGap - e.clock.Now().Sub(e.lastAction)
		}
		e.mu.Unlock()

		if !busy && remaining <= 0 {
			return nil
		}
		if !busy {
			wake := make(chan struct{})
			timer := e.sched.AfterFunc(remaining, func() { close(wake) })
			select {
			case <-wake:
				continue
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// acquireLocked は連打を弾く関門です。受け付けたら releaseLocked まで他の操作は通りません。
// lastAction はエンジン全体で1つなので、回答直後の Restart や Finish も MinActionGap の間は弾かれます。
// 前の操作が落ち着くのを待つ側は WaitIdle を使います
func (e *Engine) acquireLocked() bool {
	if e.busy || e.machine.Phase == PhaseTransitioning {
		return false
	}
	now := e.clock.Now()
	if !e.lastAction.IsZero() && now.Sub(e.lastAction) < e.timing.MinActionGap {
		return false
	}
	e.lastAction = now
	e.busy = true
	e.idle = make(chan struct{})
	return true
}

func (e *Engine) releaseLocked() {
	if !e.busy {
		return
	}
	e.busy = false
	close(e.idle)
}

func (e *Engine) aliveLocked(gen uint64) bool {
	return !e.closed && e.gen == gen
}

// scheduleLocked は f を予約します。発火したタイマーは timers から外れます
func (e *Engine) scheduleLocked(d time.Duration, f func()) {
	if e.timers == nil {
		e.timers = make(map[uint64]clock.Timer)
	}
	e.timerSeq++
	id := e.timerSeq
	e.timers[id] = e.sched.AfterFunc(d, func() {
		e.mu.Lock()
		delete(e.timers, id)
		e.mu.Unlock()
		f()
	})
}

func (e *Engine) stopTimersLocked() {
	for _, t := range e.timers {
		t.Stop()
	}
	e.timers = nil
}
