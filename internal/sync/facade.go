// Package sync presents one interface over quiz data regardless of where it
// lives. The local facade serves from the in-process store; the HTTP facade
// talks to a remote instance; the failover facade prefers remote and falls
// back to local when the remote is unreachable.
package sync

import (
	"context"
	"errors"

	"github.com/certsim/quiz-service/internal/models"
)

// ErrSyncUnavailable means the remote backend could not be reached or could
// not serve the request. Callers treat it as a signal to fall back, not as a
// data error.
var ErrSyncUnavailable = errors.New("sync backend unavailable")

// QuestionsOptions filters and shapes a question fetch.
type QuestionsOptions struct {
	// Shuffle randomizes question order and answer options.
	Shuffle bool
	// Limit caps the number of questions returned. Zero means no cap.
	Limit int
	// Difficulty keeps only questions of this level when set.
	Difficulty models.DifficultyLevel
	// Seed pins the shuffle for reproducible output. Zero means random.
	Seed int64
}

// Facade is the data-access surface the rest of the application codes
// against.
type Facade interface {
	GetQuizSets(ctx context.Context) ([]models.QuizSummary, error)
	GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error)
	GetQuestions(ctx context.Context, quizSetID string, opts QuestionsOptions) ([]models.Question, error)
	GetProgress(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error)
	SaveProgress(ctx context.Context, record *models.ProgressRecord) error
	// SubmitQuiz grades a quiz. Explicit answers take precedence; when nil,
	// the caller's saved progress is graded instead.
	SubmitQuiz(ctx context.Context, userID, quizSetID string, answers map[string]models.AnswerKey) (*models.QuizResults, error)
}
