package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"neon_quizlet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func Test_transferService_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, ext := range []string{".xlsx", ".csv"} {
		t.Run(ext, func(t *testing.T) {
			modules, _, _ := setupModuleService(t)
			svc := NewTransferService(modules)
			src := createSpanish(t, modules)
			require.NoError(t, modules.MarkTermLearned(ctx, src.ID, src.Terms[0].ID, true))

			path := filepath.Join(t.TempDir(), "spanish"+ext)
			require.NoError(t, svc.Export(ctx, src.ID, path))

			result, err := svc.Import(ctx, path, "")
			require.NoError(t, err)
			assert.Equal(t, "spanish", result.Module.Title)
			assert.Equal(t, 2, result.Processed)
			assert.Equal(t, 2, result.Created)
			assert.Equal(t, 0, result.Skipped)
			assert.NotEqual(t, src.ID, result.Module.ID)

			require.Len(t, result.Module.Terms, 2)
			assert.Equal(t, "hola", result.Module.Terms[0].Term)
			assert.Equal(t, "goodbye", result.Module.Terms[1].Definition)
			assert.False(t, result.Module.Terms[0].Learned, "取り込んだ用語は未習得から始まる")

			all, err := modules.ListModules(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func Test_transferService_ExportXLSXLayout(t *testing.T) {
	ctx := context.Background()
	modules, _, _ := setupModuleService(t)
	src := createSpanish(t, modules)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, NewTransferService(modules).Export(ctx, src.ID, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(TermsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Term", "Definition", "Learned"},
		{"hola", "hello", "false"},
		{"adiós", "goodbye", "false"},
	}, rows)
}

func Test_transferService_ImportCSV(t *testing.T) {
	ctx := context.Background()
	modules, _, _ := setupModuleService(t)
	svc := NewTransferService(modules)

	path := filepath.Join(t.TempDir(), "words.csv")
	content := "perro,dog\ngato,\n,bird\n\"casa, grande\",big house\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	result, err := svc.Import(ctx, path, "Animals")
	require.NoError(t, err)
	assert.Equal(t, "Animals", result.Module.Title)
	assert.Equal(t, 4, result.Processed, "見出しのない1行目も用語として扱う")
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, "casa, grande", result.Module.Terms[1].Term)
}

func Test_transferService_Errors(t *testing.T) {
	ctx := context.Background()
	modules, _, _ := setupModuleService(t)
	svc := NewTransferService(modules)
	src := createSpanish(t, modules)
	dir := t.TempDir()

	tests := []struct {
		name     string
		run      func() error
		wantCode string
		wantErr  error
	}{
		{
			name:     "対応していない拡張子で書き出し",
			run:      func() error { return svc.Export(ctx, src.ID, filepath.Join(dir, "out.txt")) },
			wantCode: "UNSUPPORTED_FORMAT",
			wantErr:  model.ErrInvalidInput,
		},
		{
			name:     "存在しないモジュールの書き出し",
			run:      func() error { return svc.Export(ctx, "missing", filepath.Join(dir, "out.csv")) },
			wantCode: "MODULE_NOT_FOUND",
			wantErr:  model.ErrNotFound,
		},
		{
			name: "存在しないファイルの取り込み",
			run: func() error {
				_, err := svc.Import(ctx, filepath.Join(dir, "missing.csv"), "")
				return err
			},
			wantCode: "FILE_NOT_FOUND",
			wantErr:  model.ErrNotFound,
		},
		{
			name: "対応していない拡張子の取り込み",
			run: func() error {
				_, err := svc.Import(ctx, filepath.Join(dir, "words.json"), "")
				return err
			},
			wantCode: "UNSUPPORTED_FORMAT",
			wantErr:  model.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAppErrorCode(t, tt.run(), tt.wantCode, tt.wantErr)
		})
	}
}
