// Package scoring derives quiz results from a progress record. Results are a
// pure function of the quiz set and the record, so they can be recomputed at
// any time without extra state.
package scoring

import (
	"math"

	"github.com/certsim/quiz-service/internal/models"
)

// ComputeResults grades a progress record against a quiz set. Every question
// gets a line in authored order; questions with no checked answer count as
// unanswered and incorrect. An empty quiz set scores zero.
func ComputeResults(set *models.QuizSet, record *models.ProgressRecord) *models.QuizResults {
	results := &models.QuizResults{
		QuizSetID:   set.ID,
		TotalCount:  len(set.Questions),
		PerQuestion: make([]models.QuestionResult, 0, len(set.Questions)),
	}
	if record != nil {
		results.ElapsedSeconds = record.ElapsedSeconds
	}

	for _, q := range set.Questions {
		line := models.QuestionResult{
			QuestionID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
		}
		if record != nil {
			if answer, ok := record.Answers[q.ID]; ok {
				selected := answer.Selected
				line.Answered = true
				line.UserAnswer = &selected
				line.Correct = selected.Equals(q.CorrectAnswer)
			}
		}
		if line.Correct {
			results.CorrectCount++
		}
		results.PerQuestion = append(results.PerQuestion, line)
	}

	if results.TotalCount > 0 {
		results.Score = int(math.Round(100 * float64(results.CorrectCount) / float64(results.TotalCount)))
	}
	return results
}
