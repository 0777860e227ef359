// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrConflict           = errors.New("resource conflict") // 重複エラー用
	ErrInvalidMode        = errors.New("invalid study mode")
	ErrEmptyModule        = errors.New("module has no terms")
	ErrModeMismatch       = errors.New("answer does not match session mode")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrPremiumRequired    = errors.New("premium plan required")
	ErrModuleLimit        = errors.New("module limit reached")
)

// ErrorDetail はユーザーに見せるエラー情報です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// AppError はセンチネルエラーをユーザー向けの情報と一緒に包みます
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{Code: code, Message: message, Field: field},
		Err:    err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Code + ": " + e.Detail.Message + ": " + e.Err.Error()
	}
	return e.Detail.Code + ": " + e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
