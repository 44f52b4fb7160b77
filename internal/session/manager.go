package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/shuffle"
	"github.com/certsim/quiz-service/internal/utils"
)

var (
	// ErrSuperseded means a newer Open for the same user started while this
	// one was still loading, so its result must be discarded.
	ErrSuperseded = errors.New("session open superseded by a newer one")
	// ErrEmptyQuizSet means the quiz set has no questions to present.
	ErrEmptyQuizSet = errors.New("quiz set has no questions")
)

// QuizLoader supplies quiz sets to the manager. *store.QuestionStore
// satisfies it.
type QuizLoader interface {
	GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error)
}

// Options control how a session presents its quiz set.
type Options struct {
	// Shuffle randomizes question order for this session.
	Shuffle bool
	// ShuffleOptions additionally randomizes each question's options.
	ShuffleOptions bool
	// Seed pins the shuffle for reproducible runs. Zero means random.
	Seed int64
}

// Manager opens sessions, resuming saved progress when some exists. It
// guards against slow loads finishing after the user has already opened a
// different quiz.
type Manager struct {
	loader   QuizLoader
	progress progress.Store
	logger   utils.Logger
	interval time.Duration
	clock    func() time.Time

	mu         sync.Mutex
	generation map[string]uint64
}

func NewManager(loader QuizLoader, store progress.Store, logger utils.Logger, autosaveInterval time.Duration) *Manager {
	return &Manager{
		loader:     loader,
		progress:   store,
		logger:     logger,
		interval:   autosaveInterval,
		clock:      time.Now,
		generation: make(map[string]uint64),
	}
}

// Open loads a quiz set and starts a session over it, picking up any saved
// progress for this user and set. If the same user opens another session
// while this load is in flight, the stale open returns ErrSuperseded.
func (m *Manager) Open(ctx context.Context, userID, quizSetID string, opts Options) (*Session, error) {
	m.mu.Lock()
	m.generation[userID]++
	gen := m.generation[userID]
	m.mu.Unlock()

	set, err := m.loader.GetQuizSet(ctx, quizSetID)
	if err != nil {
		return nil, err
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("quiz set %q: %w", quizSetID, ErrEmptyQuizSet)
	}

	record, ok, err := m.progress.Load(ctx, userID, quizSetID)
	if err != nil {
		// An unreadable record should not block the quiz; start fresh and
		// let the next save replace it.
		m.logger.Warn("Failed to load saved progress, starting fresh",
			"user_id", userID, "quiz_set_id", quizSetID, "error", err)
		ok = false
	}
	if !ok {
		record = models.NewProgressRecord(userID, quizSetID)
	} else if record.Cursor >= len(set.Questions) {
		// the set shrank since the progress was saved
		record.Cursor = 0
	}

	if opts.Shuffle || opts.ShuffleOptions {
		var src rand.Source
		if opts.Seed != 0 {
			src = rand.NewSource(opts.Seed)
		}
		set, err = shuffle.New(src).QuizSet(set, opts.ShuffleOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to shuffle quiz set %q: %w", quizSetID, err)
		}
	}

	m.mu.Lock()
	stale := m.generation[userID] != gen
	m.mu.Unlock()
	if stale {
		m.logger.Debug("Discarding superseded session open", "user_id", userID, "quiz_set_id", quizSetID)
		return nil, ErrSuperseded
	}

	m.logger.Info("Session opened",
		"user_id", userID,
		"quiz_set_id", quizSetID,
		"questions", len(set.Questions),
		"resumed", ok,
		"shuffled", opts.Shuffle || opts.ShuffleOptions)
	return newSession(set, record, m.progress, m.logger, m.interval, m.clock), nil
}
