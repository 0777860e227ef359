package service

import (
	"errors"

	"neon_quizlet/internal/model"
)

// appErrorOr は err が既に AppError ならそのまま、そうでなければ内部エラーとして包みます
func appErrorOr(err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.NewAppError("INTERNAL_SERVER_ERROR", "Something went wrong while saving your data.", "", err)
}

func moduleNotFound() error {
	return model.NewAppError("MODULE_NOT_FOUND", "Module not found.", "", model.ErrNotFound)
}

func termNotFound() error {
	return model.NewAppError("TERM_NOT_FOUND", "Term not found.", "", model.ErrNotFound)
}

func statsNotFound() error {
	return model.NewAppError("STATS_NOT_FOUND", "Statistics for this module were not found.", "", model.ErrNotFound)
}
