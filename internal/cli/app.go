package cli

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/config"
	"neon_quizlet/internal/repository"
	"neon_quizlet/internal/service"
	"neon_quizlet/internal/session"
	"neon_quizlet/internal/store"
)

// App はコマンドが使うサービス一式です
type App struct {
	Modules  service.ModuleService
	Auth     service.AuthService
	Settings service.SettingsService
	Plans    service.PlanService
	Transfer service.TransferService

	Clock     clock.Clock
	Scheduler clock.Scheduler
	Timing    session.Timing
	Rand      *rand.Rand
	Logger    *slog.Logger

	closers []func() error
}

// NewApp は kv の上にリポジトリとサービスを組み立てます
func NewApp(kv store.KV, cfg config.Config, clk clock.Clock, sched clock.Scheduler, logger *slog.Logger) *App {
	moduleRepo := repository.NewModuleRepository()
	statsRepo := repository.NewStatsRepository()
	settingsRepo := repository.NewSettingsRepository()
	accountRepo := repository.NewAccountRepository()

	modules := service.NewModuleService(kv, moduleRepo, statsRepo, clk)
	return &App{
		Modules:  modules,
		Auth:     service.NewAuthService(kv, accountRepo, clk, cfg.App.PremiumDays),
		Settings: service.NewSettingsService(kv, settingsRepo),
		Plans:    service.NewPlanService(cfg.App.FreeModuleLimit),
		Transfer: service.NewTransferService(modules),

		Clock:     clk,
		Scheduler: sched,
		Timing: session.Timing{
			AnswerSettle:    cfg.Study.AnswerSettle,
			CompletionDelay: cfg.Study.CompletionDelay,
			TransitionDelay: cfg.Study.TransitionDelay,
			MinActionGap:    cfg.Study.MinActionGap,
		},
		Rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		Logger: logger,
	}
}

// OnClose は Close で呼ぶ後始末を登録します
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close は登録の逆順に後始末を呼び、最初のエラーを返します
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

// NewEngine は1回分の学習セッション用のエンジンを作ります
func (a *App) NewEngine() *session.Engine {
	return session.NewEngine(a.Modules, a.Clock, a.Scheduler, a.Rand, a.Timing, a.Logger)
}

// closerFunc は io.Closer を OnClose に渡す形にします
func closerFunc(c io.Closer) func() error {
	return c.Close
}
