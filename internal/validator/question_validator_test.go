package validator

import (
	"testing"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestion() models.Question {
	return models.Question{
		ID:            "q-1",
		Prompt:        "Which layer of API-led connectivity talks to backend systems?",
		Options:       []string{"System APIs", "Process APIs", "Experience APIs"},
		Kind:          models.AnswerSingle,
		CorrectAnswer: models.SingleAnswer(0),
		Justification: "System APIs unlock data from backend systems of record and shield consumers from their complexity.",
		Difficulty:    models.DifficultyEasy,
	}
}

func TestValidateQuestion_Valid(t *testing.T) {
	v := NewQuestionValidator()
	q := validQuestion()

	assert.NoError(t, v.ValidateQuestion(&q))
	assert.Empty(t, v.Warnings(&q))
}

func TestValidateQuestion_EmptyPrompt(t *testing.T) {
	v := NewQuestionValidator()
	q := validQuestion()
	q.Prompt = ""

	err := v.ValidateQuestion(&q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt")
}

func TestValidateQuestion_TooFewOptions(t *testing.T) {
	v := NewQuestionValidator()
	q := validQuestion()
	q.Options = []string{"only one"}
	q.CorrectAnswer = models.SingleAnswer(0)

	err := v.ValidateQuestion(&q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options")
}

func TestValidateQuestion_KindCardinalityMismatch(t *testing.T) {
	v := NewQuestionValidator()

	q := validQuestion()
	q.CorrectAnswer = models.MultipleAnswer(0, 1)
	assert.Error(t, v.ValidateQuestion(&q), "single kind with two indices must fail")

	q = validQuestion()
	q.Kind = models.AnswerMultiple
	q.CorrectAnswer = models.MultipleAnswer()
	assert.Error(t, v.ValidateQuestion(&q), "multiple kind with no indices must fail")
}

func TestValidateQuestion_OutOfRangeIndex(t *testing.T) {
	v := NewQuestionValidator()
	q := validQuestion()
	q.CorrectAnswer = models.SingleAnswer(7)

	err := v.ValidateQuestion(&q)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "correct_answer")
}

func TestWarnings_EmptyJustificationIsWarningNotError(t *testing.T) {
	v := NewQuestionValidator()
	q := validQuestion()
	q.Justification = ""

	assert.NoError(t, v.ValidateQuestion(&q))
	assert.Contains(t, v.Warnings(&q), "justification is empty")
}

func TestValidateSet_Report(t *testing.T) {
	v := NewQuestionValidator()

	dup := validQuestion()
	broken := validQuestion()
	broken.ID = "q-2"
	broken.Prompt = ""

	set := &models.QuizSet{
		ID:        "mcpa-level-1",
		Title:     "MCPA Level 1",
		Questions: []models.Question{validQuestion(), dup, broken},
	}

	report := v.ValidateSet(set)
	assert.Equal(t, 3, report.TotalQuestions)
	assert.Equal(t, 2, report.ValidQuestions)
	assert.Equal(t, []string{"q-1"}, report.DuplicateIDs)
	assert.Equal(t, 3, report.Difficulty.Easy)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, "General", report.Categories[0].Category)
}

func TestStructValidator_CustomTags(t *testing.T) {
	v := New()

	q := validQuestion()
	assert.NoError(t, v.ValidateStruct(&q))

	q.Kind = "radio"
	assert.Error(t, v.ValidateStruct(&q))

	q = validQuestion()
	q.Difficulty = "impossible"
	assert.Error(t, v.ValidateStruct(&q))
}
