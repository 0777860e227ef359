// internal/model/quiz.go
package model

// QuizQuestion はテストモードの1問です。永続化はしません
type QuizQuestion struct {
	TermID       string   `json:"termId"`
	Term         string   `json:"term"`
	Definition   string   `json:"definition"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}
