package validator

import (
	"fmt"
	"sort"

	apperrors "github.com/certsim/quiz-service/internal/errors"
	"github.com/certsim/quiz-service/internal/models"
)

// QuestionValidator handles question-specific validation. Structural problems
// are errors and reject the write; quality problems are warnings and do not.
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks a question's structural validity: prompt, option
// count, answer kind and correct-answer indices.
func (v *QuestionValidator) ValidateQuestion(q *models.Question) error {
	var errs apperrors.ValidationErrors

	if q.Prompt == "" {
		errs = append(errs, *apperrors.NewValidationError("prompt", "is required", q.Prompt))
	}

	if len(q.Options) < 2 {
		errs = append(errs, *apperrors.NewValidationError("options", "must be at least 2", len(q.Options)))
	}
	if len(q.Options) > 10 {
		errs = append(errs, *apperrors.NewValidationError("options", "must be at most 10", len(q.Options)))
	}
	for i, opt := range q.Options {
		if opt == "" {
			errs = append(errs, *apperrors.NewValidationError("options", fmt.Sprintf("option %d must not be empty", i), i))
		}
	}

	switch q.Kind {
	case models.AnswerSingle:
		if len(q.CorrectAnswer.Indices()) != 1 {
			errs = append(errs, *apperrors.NewValidationError("correct_answer", "single-answer questions must have exactly one correct index", q.CorrectAnswer.Indices()))
		}
	case models.AnswerMultiple:
		if len(q.CorrectAnswer.Indices()) == 0 {
			errs = append(errs, *apperrors.NewValidationError("correct_answer", "multiple-answer questions must have at least one correct index", nil))
		}
	default:
		errs = append(errs, *apperrors.NewValidationErrorWithRule("kind", "must be a valid answer kind (single, multiple)", "answer_kind", string(q.Kind)))
	}

	for _, idx := range q.CorrectAnswer.Indices() {
		if idx < 0 || idx >= len(q.Options) {
			errs = append(errs, *apperrors.NewValidationError("correct_answer", fmt.Sprintf("index %d is out of range for %d options", idx, len(q.Options)), idx))
		}
	}

	if q.Points < 0 {
		errs = append(errs, *apperrors.NewValidationError("points", "must not be negative", q.Points))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Warnings reports quality issues that do not block a write. An empty
// justification is a warning, not an error.
func (v *QuestionValidator) Warnings(q *models.Question) []string {
	var warnings []string

	if q.Justification == "" {
		warnings = append(warnings, "justification is empty")
	} else if len(q.Justification) < 50 {
		warnings = append(warnings, "justification should be more detailed (minimum 50 characters)")
	}

	if len(q.ReferenceLinks) == 0 {
		warnings = append(warnings, "consider adding reference links")
	}

	if q.Difficulty == "" {
		warnings = append(warnings, "difficulty level should be specified")
	}

	return warnings
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

// ===== QUALITY REPORT =====

type CategoryStats struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DifficultyBalance struct {
	Easy        int `json:"easy"`
	Medium      int `json:"medium"`
	Hard        int `json:"hard"`
	Unspecified int `json:"unspecified"`
}

// SetReport summarizes the health of one quiz set's questions.
type SetReport struct {
	TotalQuestions int               `json:"total_questions"`
	ValidQuestions int               `json:"valid_questions"`
	DuplicateIDs   []string          `json:"duplicate_ids,omitempty"`
	Warnings       map[string][]string `json:"warnings,omitempty"` // question id -> warnings
	Categories     []CategoryStats   `json:"categories"`
	Difficulty     DifficultyBalance `json:"difficulty"`
}

// ValidateSet produces a quality report for a whole quiz set.
func (v *QuestionValidator) ValidateSet(set *models.QuizSet) *SetReport {
	report := &SetReport{
		TotalQuestions: len(set.Questions),
		Warnings:       make(map[string][]string),
	}

	seen := make(map[string]int)
	categories := make(map[string]int)

	for i := range set.Questions {
		q := &set.Questions[i]
		seen[q.ID]++

		if err := v.ValidateQuestion(q); err == nil {
			report.ValidQuestions++
		}
		if warnings := v.Warnings(q); len(warnings) > 0 {
			report.Warnings[q.ID] = warnings
		}

		category := q.Category
		if category == "" {
			category = "General"
		}
		categories[category]++

		switch q.Difficulty {
		case models.DifficultyEasy:
			report.Difficulty.Easy++
		case models.DifficultyMedium:
			report.Difficulty.Medium++
		case models.DifficultyHard:
			report.Difficulty.Hard++
		default:
			report.Difficulty.Unspecified++
		}
	}

	for id, count := range seen {
		if count > 1 {
			report.DuplicateIDs = append(report.DuplicateIDs, id)
		}
	}
	sort.Strings(report.DuplicateIDs)

	for category, count := range categories {
		percentage := 0.0
		if report.TotalQuestions > 0 {
			percentage = float64(count) / float64(report.TotalQuestions) * 100
		}
		report.Categories = append(report.Categories, CategoryStats{
			Category:   category,
			Count:      count,
			Percentage: percentage,
		})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})

	return report
}
