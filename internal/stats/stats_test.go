package stats

import (
	"testing"
	"time"

	"neon_quizlet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestProgress(t *testing.T) {
	tests := []struct {
		name  string
		stats *model.StudyStats
		want  int
	}{
		{name: "nil", stats: nil, want: 0},
		{name: "用語なし", stats: &model.StudyStats{TotalTerms: 0, Learned: 0}, want: 0},
		{name: "半分", stats: &model.StudyStats{TotalTerms: 4, Learned: 2}, want: 50},
		{name: "切り上げ", stats: &model.StudyStats{TotalTerms: 3, Learned: 2}, want: 67},
		{name: "切り捨て", stats: &model.StudyStats{TotalTerms: 3, Learned: 1}, want: 33},
		{name: "0.5 は切り上げ", stats: &model.StudyStats{TotalTerms: 8, Learned: 1}, want: 13},
		{name: "全部", stats: &model.StudyStats{TotalTerms: 5, Learned: 5}, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(tt.stats))
		})
	}
}

func TestRecountAndSync(t *testing.T) {
	m := &model.Module{Terms: []model.Term{
		{ID: "1", Learned: true},
		{ID: "2"},
		{ID: "3", Learned: true},
	}}
	total, learned := Recount(m)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, learned)

	orig := &model.StudyStats{ModuleID: "m", TotalTerms: 10, Learned: 9}
	synced := Sync(orig, m)
	assert.Equal(t, 3, synced.TotalTerms)
	assert.Equal(t, 2, synced.Learned)
	assert.Equal(t, 10, orig.TotalTerms, "元の値は変更しない")
}

func TestApplySession(t *testing.T) {
	orig := &model.StudyStats{ModuleID: "m", TotalTerms: 4, Learned: 1, StudyHistory: []model.StudySession{}}
	session := model.StudySession{Date: time.Now(), Mode: model.ModeQuiz, Score: 50, TimeSpent: 30}

	got := ApplySession(orig, session, 3)
	assert.Equal(t, 3, got.Learned)
	require.NotNil(t, got.LastScore)
	assert.Equal(t, 50, *got.LastScore)
	require.Len(t, got.StudyHistory, 1)
	assert.Equal(t, session, got.StudyHistory[0])

	assert.Empty(t, orig.StudyHistory, "元の履歴は変更しない")
	assert.Nil(t, orig.LastScore)
}

func TestApplyPatch_ClampsLearned(t *testing.T) {
	orig := &model.StudyStats{ModuleID: "m", TotalTerms: 2}
	got := ApplyPatch(orig, model.StatsPatch{Learned: intPtr(5)})
	assert.Equal(t, 2, got.Learned)

	got = ApplyPatch(&model.StudyStats{ModuleID: "m", TotalTerms: 6}, model.StatsPatch{Learned: intPtr(5)})
	assert.Equal(t, 6, got.TotalTerms)
	assert.Equal(t, 5, got.Learned)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 50, Score(2, 4))
	assert.Equal(t, 100, Score(1, 1))
	assert.Equal(t, 0, Score(0, 0))
}

func TestSummarize(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	session := func(mins int, mode model.StudyMode, score, spent int) model.StudySession {
		return model.StudySession{Date: base.Add(time.Duration(mins) * time.Minute), Mode: mode, Score: score, TimeSpent: spent}
	}

	all := []*model.StudyStats{
		{
			ModuleID: "small", TotalTerms: 1, Learned: 1,
			StudyHistory: []model.StudySession{
				session(1, model.ModeQuiz, 100, 60),
				session(7, model.ModeQuiz, 51, 60),
			},
		},
		{
			ModuleID: "big", TotalTerms: 99, Learned: 0,
			StudyHistory: []model.StudySession{
				session(2, model.ModeWriting, 10, 100),
				session(3, model.ModeFlashcards, 40, 100),
				session(4, model.ModeFlashcards, 80, 100),
				session(5, model.ModeFlashcards, 90, 100),
			},
		},
		{ModuleID: "empty", StudyHistory: []model.StudySession{}},
	}

	ov := Summarize(all)
	assert.Equal(t, 100, ov.TotalTerms)
	assert.Equal(t, 1, ov.Learned)
	// 率の平均 (50%) ではなく合計から計算する
	assert.Equal(t, 1, ov.Progress)
	assert.Equal(t, 6, ov.TotalSessions)
	assert.Equal(t, 520, ov.TotalTimeSpent)

	require.Len(t, ov.Modes, 3)
	assert.Equal(t, ModeSummary{Mode: model.ModeFlashcards, Sessions: 3, AverageScore: 70}, ov.Modes[0])
	assert.Equal(t, ModeSummary{Mode: model.ModeQuiz, Sessions: 2, AverageScore: 76}, ov.Modes[1])
	assert.Equal(t, ModeSummary{Mode: model.ModeWriting, Sessions: 1, AverageScore: 10}, ov.Modes[2])

	require.Len(t, ov.Recent, RecentLimit)
	assert.Equal(t, "small", ov.Recent[0].ModuleID)
	assert.Equal(t, 51, ov.Recent[0].Score)
	assert.Equal(t, base.Add(5*time.Minute), ov.Recent[1].Date)
	assert.Equal(t, base.Add(2*time.Minute), ov.Recent[4].Date)
}

func TestSummarize_Empty(t *testing.T) {
	ov := Summarize(nil)
	assert.Equal(t, 0, ov.Progress)
	assert.NotNil(t, ov.Recent)
	assert.Len(t, ov.Modes, 3)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "0m", FormatDuration(59))
	assert.Equal(t, "12m", FormatDuration(12*60+30))
	assert.Equal(t, "1h 5m", FormatDuration(3600+5*60))
	assert.Equal(t, "0m", FormatDuration(-3))
}
