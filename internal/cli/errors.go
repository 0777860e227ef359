package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"neon_quizlet/internal/model"
)

// 終了コード
const (
	ExitOK           = 0
	ExitInternal     = 1
	ExitInvalidInput = 2
	ExitNotFound     = 3
	ExitConflict     = 4
	ExitForbidden    = 5
)

// HandleError はエラーを解釈してメッセージを出力し、終了コードを返します。
// エラー表示はすべてここを通します
func HandleError(w io.Writer, logger *slog.Logger, err error) int {
	if err == nil {
		return ExitOK
	}
	code := MapErrorToExitCode(err)

	var appErr *model.AppError
	if errors.As(err, &appErr) {
		// AppError の場合、その詳細情報をそのまま表示する
		if code == ExitInternal {
			logger.Error("Internal error", slog.String("code", appErr.Detail.Code), slog.Any("error", appErr.Unwrap()))
		}
		if appErr.Detail.Field != "" {
			fmt.Fprintf(w, "Error: %s (%s)\n", appErr.Detail.Message, appErr.Detail.Field)
		} else {
			fmt.Fprintf(w, "Error: %s\n", appErr.Detail.Message)
		}
		return code
	}
	if code != ExitInternal {
		fmt.Fprintf(w, "Error: %s\n", err)
		return code
	}

	// 予期せぬエラーは詳細をログにだけ出す
	logger.Error("Unhandled error", slog.Any("error", err))
	fmt.Fprintln(w, "Error: Something went wrong. Please try again.")
	return code
}

// MapErrorToExitCode はアプリケーションエラーを終了コードにします
func MapErrorToExitCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case err == nil:
		return ExitInternal
	case errors.Is(err, model.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, model.ErrEmptyModule),
		errors.Is(err, model.ErrModeMismatch):
		return ExitInvalidInput
	case errors.Is(err, model.ErrConflict):
		return ExitConflict
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrNotLoggedIn),
		errors.Is(err, model.ErrPremiumRequired),
		errors.Is(err, model.ErrModuleLimit):
		return ExitForbidden
	default:
		return ExitInternal
	}
}

// usageError は引数やフラグの誤りです
func usageError(format string, args ...any) error {
	return model.NewAppError("INVALID_ARGUMENT", fmt.Sprintf(format, args...), "", model.ErrInvalidInput)
}
