// internal/model/stats.go
package model

import (
	"strings"
	"time"
)

type StudyMode string

const (
	ModeFlashcards StudyMode = "flashcards"
	ModeQuiz       StudyMode = "quiz"
	ModeWriting    StudyMode = "writing"
)

// StudyModes は有効な学習モードの一覧です
var StudyModes = []StudyMode{ModeFlashcards, ModeQuiz, ModeWriting}

// ParseStudyMode は文字列を学習モードに変換します
func ParseStudyMode(s string) (StudyMode, error) {
	mode := StudyMode(strings.ToLower(strings.TrimSpace(s)))
	switch mode {
	case ModeFlashcards, ModeQuiz, ModeWriting:
		return mode, nil
	}
	return "", ErrInvalidMode
}

// StudySession は完了した1回の学習の記録です。作成後は変更しません
type StudySession struct {
	Date      time.Time `json:"date"`
	Mode      StudyMode `json:"mode"`
	Score     int       `json:"score"`     // 0-100
	TimeSpent int       `json:"timeSpent"` // 秒
}

// StudyStats はモジュールごとの集計です (moduleId で1:1)
type StudyStats struct {
	ModuleID     string         `json:"moduleId"`
	TotalTerms   int            `json:"totalTerms"`
	Learned      int            `json:"learned"`
	LastScore    *int           `json:"lastScore,omitempty"`
	StudyHistory []StudySession `json:"studyHistory"`
}

// Clone は履歴を含めたコピーを返します
func (s *StudyStats) Clone() *StudyStats {
	c := *s
	c.StudyHistory = append([]StudySession(nil), s.StudyHistory...)
	if s.LastScore != nil {
		v := *s.LastScore
		c.LastScore = &v
	}
	return &c
}

// StatsPatch は StudyStats の部分更新です。nil のフィールドは変更しません。
// totalTerms はモジュールの用語数から決まるので、部分更新では変えられません
type StatsPatch struct {
	Learned       *int
	LastScore     *int
	AppendSession *StudySession
}
