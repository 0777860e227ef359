// Package stats は進捗と学習履歴の集計です。どの関数も副作用を持ちません
package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"neon_quizlet/internal/model"
)

// RecentLimit はダッシュボードに出す最近のセッション数です
const RecentLimit = 5

// Percent は part/whole を 0-100 に丸めます。whole が 0 なら 0
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) / float64(whole) * 100))
	return min(max(p, 0), 100)
}

// Progress はモジュールの習得率です
func Progress(s *model.StudyStats) int {
	if s == nil {
		return 0
	}
	return Percent(s.Learned, s.TotalTerms)
}

// Recount は用語の総数と習得済みの数を数え直します。
// 用語の追加・削除・習得フラグ変更のあとは必ずこれで集計し直します
func Recount(m *model.Module) (total, learned int) {
	for _, t := range m.Terms {
		if t.Learned {
			learned++
		}
	}
	return len(m.Terms), learned
}

// Sync は module の集計を s に反映したコピーを返します
func Sync(s *model.StudyStats, m *model.Module) *model.StudyStats {
	out := s.Clone()
	out.TotalTerms, out.Learned = Recount(m)
	return out
}

// ApplyPatch は部分更新を適用したコピーを返します。履歴は追記のみです
func ApplyPatch(s *model.StudyStats, patch model.StatsPatch) *model.StudyStats {
	out := s.Clone()
	if patch.Learned != nil {
		out.Learned = *patch.Learned
	}
	if patch.LastScore != nil {
		v := *patch.LastScore
		out.LastScore = &v
	}
	if patch.AppendSession != nil {
		out.StudyHistory = append(out.StudyHistory, *patch.AppendSession)
	}
	if out.Learned > out.TotalTerms {
		out.Learned = out.TotalTerms
	}
	return out
}

// ApplySession は完了したセッションを記録したコピーを返します
func ApplySession(s *model.StudyStats, session model.StudySession, learned int) *model.StudyStats {
	score := session.Score
	return ApplyPatch(s, model.StatsPatch{
		Learned:       &learned,
		LastScore:     &score,
		AppendSession: &session,
	})
}

// Score は正解数から 0-100 のスコアを出します
func Score(correct, total int) int {
	return Percent(correct, total)
}

// ModeSummary は学習モードごとの回数と平均スコアです
type ModeSummary struct {
	Mode         model.StudyMode `json:"mode"`
	Sessions     int             `json:"sessions"`
	AverageScore int             `json:"averageScore"`
}

// RecentSession はどのモジュールのセッションかを付けた履歴です
type RecentSession struct {
	ModuleID string `json:"moduleId"`
	model.StudySession
}

// Overview はモジュール横断の集計です
type Overview struct {
	TotalTerms     int             `json:"totalTerms"`
	Learned        int             `json:"learned"`
	Progress       int             `json:"progress"`
	TotalSessions  int             `json:"totalSessions"`
	TotalTimeSpent int             `json:"totalTimeSpent"`
	Modes          []ModeSummary   `json:"modes"`
	Recent         []RecentSession `json:"recent"`
}

// Summarize は全モジュールの集計を作ります。
// 進捗は learned と totalTerms をそれぞれ合計してから割ります (モジュールごとの率の平均ではない)
func Summarize(all []*model.StudyStats) Overview {
	var ov Overview
	scoreSums := make(map[model.StudyMode]int, len(model.StudyModes))
	counts := make(map[model.StudyMode]int, len(model.StudyModes))
	var recent []RecentSession

	for _, s := range all {
		ov.TotalTerms += s.TotalTerms
		ov.Learned += s.Learned
		for _, session := range s.StudyHistory {
			ov.TotalSessions++
			ov.TotalTimeSpent += session.TimeSpent
			scoreSums[session.Mode] += session.Score
			counts[session.Mode]++
			recent = append(recent, RecentSession{ModuleID: s.ModuleID, StudySession: session})
		}
	}
	ov.Progress = Percent(ov.Learned, ov.TotalTerms)

	ov.Modes = make([]ModeSummary, 0, len(model.StudyModes))
	for _, mode := range model.StudyModes {
		summary := ModeSummary{Mode: mode, Sessions: counts[mode]}
		if summary.Sessions > 0 {
			summary.AverageScore = int(math.Round(float64(scoreSums[mode]) / float64(summary.Sessions)))
		}
		ov.Modes = append(ov.Modes, summary)
	}

	slices.SortStableFunc(recent, func(a, b RecentSession) int {
		return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano())
	})
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	ov.Recent = recent
	if ov.Recent == nil {
		ov.Recent = []RecentSession{}
	}
	return ov
}

// FormatDuration は秒数を "1h 5m" や "12m" の形にします
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
