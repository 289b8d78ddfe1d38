package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/repositories"
)

// ImportExportService moves questions and results in and out of the bank.
// JSON mirrors the admin panel's export format; CSV and XLSX follow the
// spreadsheet layout below.
type ImportExportService interface {
	ImportQuestions(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error)
	ExportQuestionsJSON(ctx context.Context) ([]byte, error)
	ExportQuestionsExcel(ctx context.Context) ([]byte, error)
	ExportResultsExcel(ctx context.Context, userID string) ([]byte, error)
}

type ImportResult struct {
	TotalRows    int      `json:"total_rows"`
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors,omitempty"`
}

type importExportService struct {
	questions QuestionService
	results   repositories.ResultRepository
	logger    *slog.Logger
}

func NewImportExportService(questions QuestionService, results repositories.ResultRepository, logger *slog.Logger) ImportExportService {
	return &importExportService{
		questions: questions,
		results:   results,
		logger:    logger,
	}
}

func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string) (*ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return s.importJSON(ctx, reader)
	case ".csv":
		return s.importCSV(ctx, reader)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func (s *importExportService) importJSON(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	var rows []CreateQuestionRequest
	if err := json.NewDecoder(reader).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrValidationFailed, err)
	}
	return s.importRows(ctx, rows), nil
}

// CSV columns: category, text, option_a..option_d, correct_index. Options c
// and d may be empty.
func (s *importExportService) importCSV(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrValidationFailed, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: CSV needs a header row and at least one data row", ErrValidationFailed)
	}

	rows := make([]CreateQuestionRequest, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 5 {
			rows = append(rows, CreateQuestionRequest{}) // fails validation with a row error
			continue
		}

		var options []string
		for _, opt := range record[2 : len(record)-1] {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				options = append(options, trimmed)
			}
		}
		correct, _ := strconv.Atoi(strings.TrimSpace(record[len(record)-1]))

		rows = append(rows, CreateQuestionRequest{
			Category:     models.Category(strings.TrimSpace(record[0])),
			Text:         strings.TrimSpace(record[1]),
			Options:      options,
			CorrectIndex: correct,
		})
	}
	return s.importRows(ctx, rows), nil
}

func (s *importExportService) importRows(ctx context.Context, rows []CreateQuestionRequest) *ImportResult {
	result := &ImportResult{TotalRows: len(rows)}
	for i, row := range rows {
		row := row
		if _, err := s.questions.Create(ctx, &row); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.SuccessCount++
	}

	s.logger.Info("question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)
	return result
}

func (s *importExportService) ExportQuestionsJSON(ctx context.Context) ([]byte, error) {
	questions, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(questions, "", "  ")
}

func (s *importExportService) ExportQuestionsExcel(ctx context.Context) ([]byte, error) {
	questions, err := s.listAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Questions"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"ID", "Category", "Text", "Option A", "Option B", "Option C", "Option D", "Correct Index"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, q := range questions {
		row := []interface{}{q.ID, string(q.Category), q.Text}
		for j := 0; j < 4; j++ {
			if j < len(q.Options) {
				row = append(row, q.Options[j])
			} else {
				row = append(row, "")
			}
		}
		row = append(row, q.CorrectIndex)

		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return s.excelBytes(f)
}

func (s *importExportService) ExportResultsExcel(ctx context.Context, userID string) ([]byte, error) {
	results, err := s.results.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	headers := []interface{}{"Taken At", "Category", "Correct", "Total", "Percentage", "Passed", "Duration (ms)", "End Reason"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range results {
		row := []interface{}{
			r.TakenAt.Format("2006-01-02 15:04:05"),
			string(r.Category),
			r.Correct,
			r.Total,
			r.Percentage,
			r.Passed,
			r.DurationMs,
			string(r.EndReason),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	return s.excelBytes(f)
}

func (s *importExportService) listAll(ctx context.Context) ([]*models.Question, error) {
	resp, err := s.questions.List(ctx, repositories.QuestionFilters{})
	if err != nil {
		return nil, err
	}
	if len(resp.Questions) == 0 {
		return nil, ErrNothingToExport
	}
	return resp.Questions, nil
}

func (s *importExportService) excelBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
