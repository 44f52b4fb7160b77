package scoring

import (
	"testing"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradedSet() *models.QuizSet {
	return &models.QuizSet{
		ID:    "grading-set",
		Title: "Grading Set",
		Questions: []models.Question{
			{
				ID:            "q1",
				Prompt:        "Single answer question",
				Options:       []string{"a", "b", "c"},
				Kind:          models.AnswerSingle,
				CorrectAnswer: models.SingleAnswer(1),
			},
			{
				ID:            "q2",
				Prompt:        "Multiple answer question",
				Options:       []string{"a", "b", "c", "d"},
				Kind:          models.AnswerMultiple,
				CorrectAnswer: models.MultipleAnswer(0, 2),
			},
			{
				ID:            "q3",
				Prompt:        "Left unanswered",
				Options:       []string{"a", "b"},
				Kind:          models.AnswerSingle,
				CorrectAnswer: models.SingleAnswer(0),
			},
		},
	}
}

func TestComputeResults(t *testing.T) {
	set := gradedSet()
	record := models.NewProgressRecord("user-1", set.ID)
	record.ElapsedSeconds = 240
	record.Answers["q1"] = models.AnswerRecord{Selected: models.SingleAnswer(1)}
	record.Answers["q2"] = models.AnswerRecord{Selected: models.MultipleAnswer(0, 3)}

	results := ComputeResults(set, record)

	assert.Equal(t, "grading-set", results.QuizSetID)
	assert.Equal(t, 3, results.TotalCount)
	assert.Equal(t, 1, results.CorrectCount)
	assert.Equal(t, 33, results.Score)
	assert.Equal(t, 240, results.ElapsedSeconds)

	require.Len(t, results.PerQuestion, 3)
	assert.Equal(t, "q1", results.PerQuestion[0].QuestionID)
	assert.True(t, results.PerQuestion[0].Correct)
	assert.True(t, results.PerQuestion[1].Answered)
	assert.False(t, results.PerQuestion[1].Correct)
	assert.False(t, results.PerQuestion[2].Answered)
	assert.False(t, results.PerQuestion[2].Correct)
	assert.Nil(t, results.PerQuestion[2].UserAnswer)
}

func TestComputeResults_MultipleAnswerNeedsExactSet(t *testing.T) {
	set := gradedSet()

	cases := []struct {
		name     string
		selected models.AnswerKey
		correct  bool
	}{
		{"exact match", models.MultipleAnswer(0, 2), true},
		{"exact match out of order", models.MultipleAnswer(2, 0), true},
		{"subset", models.MultipleAnswer(0), false},
		{"superset", models.MultipleAnswer(0, 2, 3), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			record := models.NewProgressRecord("user-1", set.ID)
			record.Answers["q2"] = models.AnswerRecord{Selected: tc.selected}

			results := ComputeResults(set, record)
			assert.Equal(t, tc.correct, results.PerQuestion[1].Correct)
		})
	}
}

func TestComputeResults_PerfectScore(t *testing.T) {
	set := gradedSet()
	record := models.NewProgressRecord("user-1", set.ID)
	record.Answers["q1"] = models.AnswerRecord{Selected: models.SingleAnswer(1)}
	record.Answers["q2"] = models.AnswerRecord{Selected: models.MultipleAnswer(0, 2)}
	record.Answers["q3"] = models.AnswerRecord{Selected: models.SingleAnswer(0)}

	results := ComputeResults(set, record)
	assert.Equal(t, 100, results.Score)
	assert.Equal(t, 3, results.CorrectCount)
}

func TestComputeResults_EmptySetScoresZero(t *testing.T) {
	set := &models.QuizSet{ID: "empty", Title: "Empty"}

	results := ComputeResults(set, models.NewProgressRecord("user-1", "empty"))
	assert.Equal(t, 0, results.Score)
	assert.Equal(t, 0, results.TotalCount)
	assert.Empty(t, results.PerQuestion)
}

func TestComputeResults_NilRecord(t *testing.T) {
	results := ComputeResults(gradedSet(), nil)
	assert.Equal(t, 0, results.Score)
	assert.Equal(t, 3, results.TotalCount)
	for _, line := range results.PerQuestion {
		assert.False(t, line.Answered)
	}
}

func TestComputeResults_ScoreRounding(t *testing.T) {
	set := gradedSet()
	record := models.NewProgressRecord("user-1", set.ID)
	record.Answers["q1"] = models.AnswerRecord{Selected: models.SingleAnswer(1)}
	record.Answers["q2"] = models.AnswerRecord{Selected: models.MultipleAnswer(0, 2)}

	// 2 of 3 correct is 66.67 percent, rounded to 67
	results := ComputeResults(set, record)
	assert.Equal(t, 67, results.Score)
}
