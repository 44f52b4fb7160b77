package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/store"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/certsim/quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoQuestionSeed() models.Snapshot {
	return models.Snapshot{
		"two-q": {
			ID:    "two-q",
			Title: "Two Question Set",
			Questions: []models.Question{
				{
					ID:            "q1",
					Prompt:        "Pick the second option",
					Options:       []string{"a", "b", "c"},
					Kind:          models.AnswerSingle,
					CorrectAnswer: models.SingleAnswer(1),
				},
				{
					ID:            "q2",
					Prompt:        "Pick the first and third options",
					Options:       []string{"a", "b", "c", "d"},
					Kind:          models.AnswerMultiple,
					CorrectAnswer: models.MultipleAnswer(0, 2),
				},
			},
		},
	}
}

func newTestManager(t *testing.T, seed models.Snapshot, progressStore progress.Store) *Manager {
	t.Helper()
	logger := utils.NewDevelopmentLogger()
	questions := store.NewQuestionStore(store.NewMemoryStorage(), seed, validator.New(), nil, logger)
	// no autosave debounce in tests; Check/Next write through synchronously
	return NewManager(questions, progressStore, logger, 0)
}

func openSession(t *testing.T, m *Manager, quizSetID string, opts Options) *Session {
	t.Helper()
	s, err := m.Open(context.Background(), "user-1", quizSetID, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSession_FullRunAllCorrect(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 1))
	correct, err := s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, correct)
	assert.Equal(t, StateRevealed, s.State())

	require.NoError(t, s.Next(ctx))
	assert.Equal(t, StateAnswering, s.State())
	assert.Equal(t, 1, s.Cursor())

	require.NoError(t, s.Select(ctx, 0))
	require.NoError(t, s.Select(ctx, 2))
	correct, err = s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, correct)

	require.NoError(t, s.Next(ctx))
	assert.Equal(t, StateCompleted, s.State())

	results, err := s.Results()
	require.NoError(t, err)
	assert.Equal(t, 100, results.Score)
	assert.Equal(t, 2, results.CorrectCount)
	assert.Equal(t, 2, results.TotalCount)
}

func TestSession_WrongAndUnansweredScoreZero(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 0))
	correct, err := s.Check(ctx)
	require.NoError(t, err)
	assert.False(t, correct)

	require.NoError(t, s.Next(ctx))
	// q2 left unanswered
	require.NoError(t, s.Next(ctx))
	assert.Equal(t, StateCompleted, s.State())

	results, err := s.Results()
	require.NoError(t, err)
	assert.Equal(t, 0, results.Score)
	assert.Equal(t, 0, results.CorrectCount)
	assert.True(t, results.PerQuestion[0].Answered)
	assert.False(t, results.PerQuestion[1].Answered)
}

func TestSession_ProgressSurvivesReload(t *testing.T) {
	ctx := context.Background()
	progressStore := progress.NewMemoryStore()
	m := newTestManager(t, twoQuestionSeed(), progressStore)

	s := openSession(t, m, "two-q", Options{})
	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Close(ctx))

	reloaded := openSession(t, m, "two-q", Options{})
	assert.Equal(t, 1, reloaded.Cursor())

	record := reloaded.Progress()
	require.Contains(t, record.Answers, "q1")
	assert.True(t, record.Answers["q1"].Correct)
}

func TestManager_OpenRejectsEmptyQuizSet(t *testing.T) {
	seed := models.Snapshot{
		"empty": {ID: "empty", Title: "Empty Set"},
	}
	m := newTestManager(t, seed, progress.NewMemoryStore())

	_, err := m.Open(context.Background(), "user-1", "empty", Options{})
	assert.ErrorIs(t, err, ErrEmptyQuizSet)
}

func TestSession_ElapsedKeepsSubSecondIntervals(t *testing.T) {
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	now := time.Unix(1700000000, 0)
	s.mu.Lock()
	s.clock = func() time.Time { return now }
	s.lastResumed = now
	s.mu.Unlock()

	// Nine accruals of 900ms each must add up to 8 whole seconds, not get
	// truncated to zero one interval at a time.
	for i := 0; i < 9; i++ {
		now = now.Add(900 * time.Millisecond)
		s.Progress()
	}

	assert.Equal(t, 8, s.Progress().ElapsedSeconds)
}

func TestSession_CheckWritesThroughImmediately(t *testing.T) {
	ctx := context.Background()
	progressStore := progress.NewMemoryStore()
	m := newTestManager(t, twoQuestionSeed(), progressStore)

	s := openSession(t, m, "two-q", Options{})
	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)

	// No Flush or Close: the graded answer must already be durable.
	record, ok, err := progressStore.Load(ctx, "user-1", "two-q")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, record.Answers, "q1")
	assert.True(t, record.Answers["q1"].Correct)
}

func TestSession_CheckWithoutSelection(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	_, err := s.Check(ctx)
	assert.ErrorIs(t, err, ErrSelectionRequired)
	assert.Equal(t, StateAnswering, s.State())
}

func TestSession_DoubleCheckOverwritesEntry(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 1))
	correct, err := s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, correct)

	// a second check re-grades the same selection and overwrites the entry
	correct, err = s.Check(ctx)
	require.NoError(t, err)
	assert.True(t, correct)

	record := s.Progress()
	require.Len(t, record.Answers, 1)
	assert.True(t, record.Answers["q1"].Correct)
}

func TestSession_SelectIgnoredAfterReveal(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Select(ctx, 0))
	assert.Equal(t, []int{1}, s.Selected())
}

func TestSession_SingleReplacesMultipleToggles(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 0))
	require.NoError(t, s.Select(ctx, 2))
	assert.Equal(t, []int{2}, s.Selected())

	require.NoError(t, s.Next(ctx))

	require.NoError(t, s.Select(ctx, 0))
	require.NoError(t, s.Select(ctx, 2))
	assert.Equal(t, []int{0, 2}, s.Selected())
	require.NoError(t, s.Select(ctx, 0))
	assert.Equal(t, []int{2}, s.Selected())
}

func TestSession_SelectOutOfRange(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	err := s.Select(ctx, 7)
	assert.ErrorIs(t, err, ErrOptionOutOfRange)
	assert.Empty(t, s.Selected())
}

func TestSession_PreviousClearsRevealAndSelection(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Next(ctx))

	require.NoError(t, s.Previous(ctx))
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, StateAnswering, s.State())
	assert.Empty(t, s.Selected())

	// at the first question another Previous is a no-op
	require.NoError(t, s.Previous(ctx))
	assert.Equal(t, 0, s.Cursor())
}

func TestSession_MutationsRejectedAfterCompletion(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{})

	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Next(ctx))
	require.Equal(t, StateCompleted, s.State())

	assert.ErrorIs(t, s.Select(ctx, 0), ErrQuizCompleted)
	_, err := s.Check(ctx)
	assert.ErrorIs(t, err, ErrQuizCompleted)
	assert.ErrorIs(t, s.Next(ctx), ErrQuizCompleted)
	assert.ErrorIs(t, s.Previous(ctx), ErrQuizCompleted)
}

func TestSession_ReopenCompletedQuizShowsResults(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())

	s := openSession(t, m, "two-q", Options{})
	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Next(ctx))
	require.NoError(t, s.Close(ctx))

	reopened := openSession(t, m, "two-q", Options{})
	assert.Equal(t, StateCompleted, reopened.State())
	results, err := reopened.Results()
	require.NoError(t, err)
	assert.Equal(t, 50, results.Score)
}

func TestSession_Reset(t *testing.T) {
	ctx := context.Background()
	progressStore := progress.NewMemoryStore()
	m := newTestManager(t, twoQuestionSeed(), progressStore)

	s := openSession(t, m, "two-q", Options{})
	require.NoError(t, s.Select(ctx, 1))
	_, err := s.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Flush(ctx))

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 0, s.Cursor())
	assert.Equal(t, StateAnswering, s.State())
	assert.Empty(t, s.Progress().Answers)

	_, ok, err := progressStore.Load(ctx, "user-1", "two-q")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_ShuffledRunStillGradesCorrectly(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, twoQuestionSeed(), progress.NewMemoryStore())
	s := openSession(t, m, "two-q", Options{Shuffle: true, ShuffleOptions: true, Seed: 42})

	for s.State() != StateCompleted {
		q, err := s.CurrentQuestion()
		require.NoError(t, err)
		for _, idx := range q.CorrectAnswer.Indices() {
			require.NoError(t, s.Select(ctx, idx))
		}
		correct, err := s.Check(ctx)
		require.NoError(t, err)
		assert.True(t, correct, "question %s", q.ID)
		require.NoError(t, s.Next(ctx))
	}

	results, err := s.Results()
	require.NoError(t, err)
	assert.Equal(t, 100, results.Score)
}

func TestManager_StaleOpenSuperseded(t *testing.T) {
	ctx := context.Background()
	seed := twoQuestionSeed()
	progressStore := progress.NewMemoryStore()
	logger := utils.NewDevelopmentLogger()

	questions := store.NewQuestionStore(store.NewMemoryStorage(), seed, validator.New(), nil, logger)
	slow := &slowLoader{loader: questions, release: make(chan struct{}), started: make(chan struct{})}
	m := NewManager(slow, progressStore, logger, 0)

	type result struct {
		s   *Session
		err error
	}
	first := make(chan result, 1)
	go func() {
		s, err := m.Open(ctx, "user-1", "two-q", Options{})
		first <- result{s, err}
	}()
	<-slow.started

	// the user gives up waiting and opens again
	slow.passthrough = true
	s2, err := m.Open(ctx, "user-1", "two-q", Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close(ctx) })

	close(slow.release)
	got := <-first
	assert.Nil(t, got.s)
	assert.ErrorIs(t, got.err, ErrSuperseded)
}

type slowLoader struct {
	loader      QuizLoader
	release     chan struct{}
	started     chan struct{}
	startOnce   sync.Once
	passthrough bool
}

func (l *slowLoader) GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error) {
	if l.passthrough {
		return l.loader.GetQuizSet(ctx, id)
	}
	l.startOnce.Do(func() { close(l.started) })
	<-l.release
	return l.loader.GetQuizSet(ctx, id)
}
