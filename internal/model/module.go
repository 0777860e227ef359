// internal/model/module.go
package model

import "time"

// Term は用語と定義のペア (1枚のカード) です
type Term struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Learned    bool   `json:"learned"`
}

// Module は用語の集まりです。Terms の順序がそのまま表示順になります
type Module struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Terms       []Term     `json:"terms"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastStudied *time.Time `json:"lastStudied,omitempty"`
}

// FindTerm は termID の用語の位置を返します。見つからなければ -1
func (m *Module) FindTerm(termID string) int {
	for i := range m.Terms {
		if m.Terms[i].ID == termID {
			return i
		}
	}
	return -1
}

// Definitions はモジュール内の全定義を表示順で返します
func (m *Module) Definitions() []string {
	defs := make([]string, len(m.Terms))
	for i, t := range m.Terms {
		defs[i] = t.Definition
	}
	return defs
}

// Clone は Terms を含めたディープコピーを返します
func (m *Module) Clone() *Module {
	c := *m
	c.Terms = append([]Term(nil), m.Terms...)
	if m.LastStudied != nil {
		ls := *m.LastStudied
		c.LastStudied = &ls
	}
	return &c
}

// モジュール作成リクエストDTO
type CreateModuleRequest struct {
	Title       string        `json:"title" validate:"required,max=200"`
	Description string        `json:"description" validate:"max=2000"`
	Terms       []TermRequest `json:"terms" validate:"dive"`
}

// 用語の追加・更新リクエストDTO
type TermRequest struct {
	Term       string `json:"term" validate:"required"`
	Definition string `json:"definition" validate:"required"`
}
