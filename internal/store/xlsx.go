package store

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet layout for question import/export. One row per question,
// options in fixed columns A-F, correct answers as comma-separated letters.
var xlsxHeaders = []string{
	"ID", "Prompt", "Kind",
	"Option A", "Option B", "Option C", "Option D", "Option E", "Option F",
	"Correct", "Justification", "Category", "Difficulty", "Points",
}

const xlsxMaxOptions = 6

// ImportRowError describes one rejected spreadsheet row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ImportSummary reports the outcome of a spreadsheet import.
type ImportSummary struct {
	TotalRows     int              `json:"total_rows"`
	ProcessedRows int              `json:"processed_rows"`
	SuccessCount  int              `json:"success_count"`
	ErrorCount    int              `json:"error_count"`
	CreatedIDs    []string         `json:"created_ids,omitempty"`
	Errors        []ImportRowError `json:"errors,omitempty"`
}

// ExportXLSX renders one quiz set as a spreadsheet.
func (s *QuestionStore) ExportXLSX(ctx context.Context, quizSetID string) ([]byte, error) {
	set, err := s.GetQuizSet(ctx, quizSetID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, q := range set.Questions {
		row := questionToRow(q)
		for colIndex, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}

func questionToRow(q models.Question) []interface{} {
	row := []interface{}{q.ID, q.Prompt, string(q.Kind)}
	for i := 0; i < xlsxMaxOptions; i++ {
		if i < len(q.Options) {
			row = append(row, q.Options[i])
		} else {
			row = append(row, "")
		}
	}

	letters := make([]string, 0, len(q.CorrectAnswer.Indices()))
	for _, idx := range q.CorrectAnswer.Indices() {
		letters = append(letters, string(rune('A'+idx)))
	}
	row = append(row, strings.Join(letters, ","))
	row = append(row, q.Justification, q.Category, string(q.Difficulty), q.Points)
	return row
}

// ImportXLSX parses a spreadsheet and upserts its valid rows into the target
// quiz set. Invalid rows are collected per row; they never abort the import.
func (s *QuestionStore) ImportXLSX(ctx context.Context, quizSetID string, reader io.Reader) (*ImportSummary, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet must have a header row and at least one data row", ErrInvalidSnapshot)
	}

	summary := &ImportSummary{TotalRows: len(rows) - 1}

	for i, row := range rows[1:] {
		rowNum := i + 2
		summary.ProcessedRows++

		q, rowErrs := parseXLSXRow(quizSetID, row, rowNum)
		if len(rowErrs) > 0 {
			summary.Errors = append(summary.Errors, rowErrs...)
			summary.ErrorCount++
			continue
		}

		if _, err := s.UpsertQuestion(ctx, quizSetID, q); err != nil {
			summary.Errors = append(summary.Errors, ImportRowError{
				Row:     rowNum,
				Message: err.Error(),
			})
			summary.ErrorCount++
			continue
		}
		summary.CreatedIDs = append(summary.CreatedIDs, q.ID)
		summary.SuccessCount++
	}

	return summary, nil
}

func cellAt(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

func parseXLSXRow(quizSetID string, row []string, rowNum int) (*models.Question, []ImportRowError) {
	var errs []ImportRowError

	q := &models.Question{
		ID:     cellAt(row, 0),
		Prompt: cellAt(row, 1),
	}

	kind := models.AnswerKind(strings.ToLower(cellAt(row, 2)))
	switch kind {
	case models.AnswerSingle, models.AnswerMultiple:
		q.Kind = kind
	case "":
		q.Kind = models.AnswerSingle
	default:
		errs = append(errs, ImportRowError{Row: rowNum, Column: "Kind", Message: "must be single or multiple", Value: string(kind)})
	}

	for i := 0; i < xlsxMaxOptions; i++ {
		if opt := cellAt(row, 3+i); opt != "" {
			q.Options = append(q.Options, opt)
		}
	}
	if len(q.Options) < 2 {
		errs = append(errs, ImportRowError{Row: rowNum, Column: "Option A", Message: "at least 2 options are required"})
	}

	correct := cellAt(row, 9)
	if correct == "" {
		errs = append(errs, ImportRowError{Row: rowNum, Column: "Correct", Message: "is required"})
	} else {
		var indices []int
		for _, letter := range strings.Split(correct, ",") {
			letter = strings.TrimSpace(strings.ToUpper(letter))
			if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'F' {
				errs = append(errs, ImportRowError{Row: rowNum, Column: "Correct", Message: "must be letters A-F", Value: letter})
				continue
			}
			indices = append(indices, int(letter[0]-'A'))
		}
		if q.Kind == models.AnswerSingle && len(indices) == 1 {
			q.CorrectAnswer = models.SingleAnswer(indices[0])
		} else {
			q.CorrectAnswer = models.MultipleAnswer(indices...)
		}
	}

	q.Justification = cellAt(row, 10)
	q.Category = cellAt(row, 11)

	if difficulty := strings.ToLower(cellAt(row, 12)); difficulty != "" {
		switch models.DifficultyLevel(difficulty) {
		case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
			q.Difficulty = models.DifficultyLevel(difficulty)
		default:
			errs = append(errs, ImportRowError{Row: rowNum, Column: "Difficulty", Message: "must be easy, medium or hard", Value: difficulty})
		}
	}

	if points := cellAt(row, 13); points != "" {
		parsed, err := strconv.Atoi(points)
		if err != nil {
			errs = append(errs, ImportRowError{Row: rowNum, Column: "Points", Message: "must be a number", Value: points})
		} else {
			q.Points = parsed
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return q, nil
}
