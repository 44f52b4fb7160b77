package sync

import (
	"context"
	"errors"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/utils"
)

// FailoverFacade prefers the remote backend and falls back to the local one
// only when the remote is unavailable. Data errors from the remote, like a
// missing quiz set, pass through untouched.
type FailoverFacade struct {
	remote Facade
	local  Facade
	logger utils.Logger
}

func NewFailoverFacade(remote, local Facade, logger utils.Logger) *FailoverFacade {
	return &FailoverFacade{remote: remote, local: local, logger: logger}
}

func (f *FailoverFacade) fallback(op string, err error) bool {
	if !errors.Is(err, ErrSyncUnavailable) {
		return false
	}
	f.logger.Warn("Remote sync unavailable, serving locally", "operation", op, "error", err)
	return true
}

func (f *FailoverFacade) GetQuizSets(ctx context.Context) ([]models.QuizSummary, error) {
	summaries, err := f.remote.GetQuizSets(ctx)
	if err != nil && f.fallback("get_quiz_sets", err) {
		return f.local.GetQuizSets(ctx)
	}
	return summaries, err
}

func (f *FailoverFacade) GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error) {
	set, err := f.remote.GetQuizSet(ctx, id)
	if err != nil && f.fallback("get_quiz_set", err) {
		return f.local.GetQuizSet(ctx, id)
	}
	return set, err
}

func (f *FailoverFacade) GetQuestions(ctx context.Context, quizSetID string, opts QuestionsOptions) ([]models.Question, error) {
	questions, err := f.remote.GetQuestions(ctx, quizSetID, opts)
	if err != nil && f.fallback("get_questions", err) {
		return f.local.GetQuestions(ctx, quizSetID, opts)
	}
	return questions, err
}

func (f *FailoverFacade) GetProgress(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	record, ok, err := f.remote.GetProgress(ctx, userID, quizSetID)
	if err != nil && f.fallback("get_progress", err) {
		return f.local.GetProgress(ctx, userID, quizSetID)
	}
	return record, ok, err
}

func (f *FailoverFacade) SaveProgress(ctx context.Context, record *models.ProgressRecord) error {
	err := f.remote.SaveProgress(ctx, record)
	if err != nil && f.fallback("save_progress", err) {
		return f.local.SaveProgress(ctx, record)
	}
	return err
}

func (f *FailoverFacade) SubmitQuiz(ctx context.Context, userID, quizSetID string, answers map[string]models.AnswerKey) (*models.QuizResults, error) {
	results, err := f.remote.SubmitQuiz(ctx, userID, quizSetID, answers)
	if err != nil && f.fallback("submit_quiz", err) {
		return f.local.SubmitQuiz(ctx, userID, quizSetID, answers)
	}
	return results, err
}
