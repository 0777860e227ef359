package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/repository"
	"neon_quizlet/internal/service"
	"neon_quizlet/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 実際の ModuleService とメモリ上の KV を使って、開始から記録までを通しで確かめる
func newScenario(t *testing.T, req *model.CreateModuleRequest) (*Engine, service.ModuleService, *clock.Fake, *model.Module) {
	t.Helper()
	clk := clock.NewFake(testStart)
	modules := service.NewModuleService(store.NewMemoryKV(), repository.NewModuleRepository(), repository.NewStatsRepository(), clk)
	m, err := modules.CreateModule(context.Background(), req)
	require.NoError(t, err)

	engine := NewEngine(modules, clk, clk, rand.New(rand.NewPCG(3, 5)), DefaultTiming(), logging.Discard())
	t.Cleanup(engine.Close)
	return engine, modules, clk, m
}

func TestScenario_WritingNormalizedAnswer(t *testing.T) {
	ctx := context.Background()
	engine, modules, clk, m := newScenario(t, &model.CreateModuleRequest{
		Title: "Pets",
		Terms: []model.TermRequest{{Term: "cat", Definition: "a feline"}},
	})
	require.NoError(t, engine.Start(ctx, m.ID, "writing"))

	accepted, err := engine.AnswerWriting("A Feline ")
	require.NoError(t, err)
	require.True(t, accepted)

	clk.Advance(DefaultTiming().CompletionDelay)
	snap := engine.Snapshot()
	require.True(t, snap.Completed)
	assert.Equal(t, 100, snap.Score)

	st, err := modules.GetStats(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, st.StudyHistory, 1)
	assert.Equal(t, model.ModeWriting, st.StudyHistory[0].Mode)
	assert.Equal(t, 100, st.StudyHistory[0].Score)
	assert.Equal(t, 1, st.Learned)
	require.NotNil(t, st.LastScore)
	assert.Equal(t, 100, *st.LastScore)
}

func TestScenario_QuizHalfCorrect(t *testing.T) {
	ctx := context.Background()
	engine, modules, clk, m := newScenario(t, &model.CreateModuleRequest{
		Title: "Capitals",
		Terms: []model.TermRequest{
			{Term: "France", Definition: "Paris"},
			{Term: "Japan", Definition: "Tokyo"},
			{Term: "Italy", Definition: "Rome"},
			{Term: "Spain", Definition: "Madrid"},
		},
	})
	require.NoError(t, engine.Start(ctx, m.ID, "quiz"))

	for i, correct := range []bool{true, true, false, false} {
		q := engine.Snapshot().Item.Question
		require.NotNil(t, q)
		choice := q.CorrectIndex
		if !correct {
			choice = (q.CorrectIndex + 1) % len(q.Options)
		}
		accepted, err := engine.AnswerQuiz(choice)
		require.NoError(t, err)
		require.True(t, accepted)

		if i < 3 {
			clk.Advance(DefaultTiming().MinActionGap)
			require.True(t, engine.Next())
			clk.Advance(DefaultTiming().TransitionDelay)
		}
	}
	clk.Advance(DefaultTiming().CompletionDelay)

	snap := engine.Snapshot()
	require.True(t, snap.Completed)
	assert.Equal(t, 2, snap.CorrectAnswers)
	assert.Equal(t, 50, snap.Score)

	st, err := modules.GetStats(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, st.StudyHistory, 1)
	assert.Equal(t, 50, st.StudyHistory[0].Score)
	assert.Equal(t, 2, st.Learned)

	got, err := modules.GetModule(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastStudied)
	assert.True(t, got.LastStudied.Equal(clk.Now()))
}

// 途中でモジュールが消えても回答は受け付け、記録の失敗はログに残すだけ
func TestScenario_ModuleDeletedMidSession(t *testing.T) {
	ctx := context.Background()
	engine, modules, clk, m := newScenario(t, &model.CreateModuleRequest{
		Title: "Pets",
		Terms: []model.TermRequest{{Term: "dog", Definition: "a canine"}},
	})
	require.NoError(t, engine.Start(ctx, m.ID, "flashcards"))
	require.NoError(t, modules.DeleteModule(ctx, m.ID))

	clk.Advance(5 * time.Second)
	accepted, err := engine.AnswerFlashcard(true)
	require.NoError(t, err)
	require.True(t, accepted)
	clk.Advance(DefaultTiming().CompletionDelay)

	snap := engine.Snapshot()
	assert.True(t, snap.Completed)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 5, snap.Result.TimeSpent)

	all, err := modules.ListStats(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
