package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"

	"github.com/xuri/excelize/v2"
)

// TermsSheet はエクスポートする xlsx のシート名です
const TermsSheet = "Terms"

var exportHeader = []string{"Term", "Definition", "Learned"}

// ImportResult は取り込みの結果です
type ImportResult struct {
	Module    *model.Module
	Processed int
	Created   int
	Skipped   int
	Errors    []string
}

// TransferService はモジュールの xlsx / csv 入出力です (プレミアム機能)
type TransferService interface {
	Export(ctx context.Context, moduleID, path string) error
	Import(ctx context.Context, path, title string) (*ImportResult, error)
}

type transferService struct {
	modules ModuleService
}

func NewTransferService(modules ModuleService) TransferService {
	return &transferService{modules: modules}
}

func unsupportedFormat(path string) error {
	return model.NewAppError("UNSUPPORTED_FORMAT", fmt.Sprintf("Unsupported file type %q. Use .xlsx or .csv.", filepath.Ext(path)), "path", model.ErrInvalidInput)
}

// Export は拡張子に応じて xlsx か csv で書き出します
func (s *transferService) Export(ctx context.Context, moduleID, path string) error {
	logger := logging.FromContext(ctx)
	module, err := s.modules.GetModule(ctx, moduleID)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(module.Terms)+1)
	rows = append(rows, exportHeader)
	for _, t := range module.Terms {
		rows = append(rows, []string{t.Term, t.Definition, strconv.FormatBool(t.Learned)})
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = writeExcel(path, rows)
	case ".csv":
		err = writeCSV(path, rows)
	default:
		return unsupportedFormat(path)
	}
	if err != nil {
		logger.Error("Failed to export module", "error", err, "module_id", moduleID, "path", path)
		return model.NewAppError("EXPORT_FAILED", "Failed to write the export file.", "path", err)
	}
	logger.Info("Module exported", "module_id", moduleID, "path", path, "terms", len(module.Terms))
	return nil
}

func writeExcel(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TermsSheet); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(TermsSheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeCSV(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Import は A列を用語、B列を定義として新しいモジュールを作ります。
// 1行目が "Term" で始まる場合は見出しとして飛ばします
func (s *transferService) Import(ctx context.Context, path, title string) (*ImportResult, error) {
	logger := logging.FromContext(ctx)

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readExcel(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, unsupportedFormat(path)
	}
	if err != nil {
		logger.Error("Failed to read import file", "error", err, "path", path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.NewAppError("FILE_NOT_FOUND", "Import file not found.", "path", model.ErrNotFound)
		}
		return nil, model.NewAppError("IMPORT_FAILED", "Failed to read the import file.", "path", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	req := &model.CreateModuleRequest{Title: title}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), exportHeader[0]) {
			continue
		}
		result.Processed++
		term, definition := cell(row, 0), cell(row, 1)
		if term == "" || definition == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: term and definition are both required", i+1))
			continue
		}
		req.Terms = append(req.Terms, model.TermRequest{Term: term, Definition: definition})
	}

	module, err := s.modules.CreateModule(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Module = module
	result.Created = len(module.Terms)
	logger.Info("Module imported", "module_id", module.ID, "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := TermsSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	return f.GetRows(sheet)
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
