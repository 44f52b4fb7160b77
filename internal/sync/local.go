package sync

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/certsim/quiz-service/internal/events"
	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/scoring"
	"github.com/certsim/quiz-service/internal/shuffle"
	"github.com/certsim/quiz-service/internal/store"
	"github.com/certsim/quiz-service/internal/utils"
)

// LocalFacade serves everything from the in-process question store and
// progress store.
type LocalFacade struct {
	questions *store.QuestionStore
	progress  progress.Store
	publisher events.Publisher
	logger    utils.Logger
}

func NewLocalFacade(questions *store.QuestionStore, progressStore progress.Store, publisher events.Publisher, logger utils.Logger) *LocalFacade {
	return &LocalFacade{
		questions: questions,
		progress:  progressStore,
		publisher: publisher,
		logger:    logger,
	}
}

func (f *LocalFacade) GetQuizSets(ctx context.Context) ([]models.QuizSummary, error) {
	return f.questions.ListQuizSets(ctx)
}

func (f *LocalFacade) GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error) {
	return f.questions.GetQuizSet(ctx, id)
}

func (f *LocalFacade) GetQuestions(ctx context.Context, quizSetID string, opts QuestionsOptions) ([]models.Question, error) {
	set, err := f.questions.GetQuizSet(ctx, quizSetID)
	if err != nil {
		return nil, err
	}

	questions := set.Questions
	if opts.Difficulty != "" {
		filtered := make([]models.Question, 0, len(questions))
		for _, q := range questions {
			if q.Difficulty == opts.Difficulty {
				filtered = append(filtered, q)
			}
		}
		questions = filtered
	}

	if opts.Shuffle {
		var src rand.Source
		if opts.Seed != 0 {
			src = rand.NewSource(opts.Seed)
		}
		shuffler := shuffle.New(src)
		questions = shuffler.Questions(questions)
		for i, q := range questions {
			sq, err := shuffler.Question(q)
			if err != nil {
				return nil, err
			}
			questions[i] = sq
		}
	} else {
		copied := make([]models.Question, len(questions))
		for i, q := range questions {
			copied[i] = q.Clone()
		}
		questions = copied
	}

	if opts.Limit > 0 && len(questions) > opts.Limit {
		questions = questions[:opts.Limit]
	}
	return questions, nil
}

func (f *LocalFacade) GetProgress(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	return f.progress.Load(ctx, userID, quizSetID)
}

func (f *LocalFacade) SaveProgress(ctx context.Context, record *models.ProgressRecord) error {
	if err := f.progress.Save(ctx, record); err != nil {
		return err
	}
	f.publish(ctx, events.NewQuizEvent(events.EventProgressSaved, events.ProgressSavedEvent{
		UserID:        record.UserID,
		QuizSetID:     record.QuizSetID,
		Cursor:        record.Cursor,
		AnsweredCount: len(record.Answers),
	}))
	return nil
}

// SubmitQuiz grades explicit answers when given, otherwise the caller's
// saved progress. Missing progress grades as an empty record, scoring zero.
func (f *LocalFacade) SubmitQuiz(ctx context.Context, userID, quizSetID string, answers map[string]models.AnswerKey) (*models.QuizResults, error) {
	set, err := f.questions.GetQuizSet(ctx, quizSetID)
	if err != nil {
		return nil, err
	}

	var record *models.ProgressRecord
	if len(answers) > 0 {
		record = models.NewProgressRecord(userID, quizSetID)
		now := time.Now().UTC()
		for questionID, selected := range answers {
			record.Answers[questionID] = models.AnswerRecord{Selected: selected, Timestamp: now}
		}
	} else {
		var ok bool
		record, ok, err = f.progress.Load(ctx, userID, quizSetID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress for submission: %w", err)
		}
		if !ok {
			record = models.NewProgressRecord(userID, quizSetID)
		}
	}

	results := scoring.ComputeResults(set, record)
	f.publish(ctx, events.NewQuizEvent(events.EventQuizCompleted, events.QuizCompletedEvent{
		UserID:         userID,
		QuizSetID:      quizSetID,
		Score:          results.Score,
		CorrectCount:   results.CorrectCount,
		TotalCount:     results.TotalCount,
		ElapsedSeconds: results.ElapsedSeconds,
	}))
	return results, nil
}

func (f *LocalFacade) publish(ctx context.Context, event *events.QuizEvent) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.Publish(ctx, event); err != nil {
		f.logger.Warn("Failed to publish sync event", "event_type", event.Type, "error", err)
	}
}
