// Package session drives the answer, check, advance lifecycle of one quiz
// attempt and keeps the durable progress record in step with it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/scoring"
	"github.com/certsim/quiz-service/internal/utils"
)

// State is the per-question phase of a session.
type State string

const (
	// StateAnswering means the current question accepts selection changes.
	StateAnswering State = "answering"
	// StateRevealed means the current question was checked and is frozen
	// until navigation.
	StateRevealed State = "revealed"
	// StateCompleted means the last question was passed and results are
	// available.
	StateCompleted State = "completed"
)

var (
	ErrSelectionRequired = errors.New("no option selected")
	ErrQuizCompleted     = errors.New("quiz already completed")
	ErrOptionOutOfRange  = errors.New("option index out of range")
)

// Session is one user's live run through a quiz set. The quiz set copy it
// holds is fixed for the session's lifetime, including any shuffled order.
type Session struct {
	mu sync.Mutex

	set    *models.QuizSet
	record *models.ProgressRecord
	store  progress.Store
	logger utils.Logger

	state    State
	selected map[int]bool
	results  *models.QuizResults

	saver       *autosaver
	clock       func() time.Time
	lastResumed time.Time
	elapsed     time.Duration
}

func newSession(set *models.QuizSet, record *models.ProgressRecord, store progress.Store, logger utils.Logger, interval time.Duration, clock func() time.Time) *Session {
	s := &Session{
		set:      set,
		record:   record,
		store:    store,
		logger:   logger,
		state:    StateAnswering,
		selected: make(map[int]bool),
		clock:    clock,
		elapsed:  time.Duration(record.ElapsedSeconds) * time.Second,
	}
	s.lastResumed = clock()
	s.saver = newAutosaver(interval, s.flush)
	if record.CompletedAt != nil {
		s.state = StateCompleted
		s.results = scoring.ComputeResults(set, record)
	}
	return s
}

// QuizSet returns the session's quiz set as presented, shuffled or not.
func (s *Session) QuizSet() *models.QuizSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Clone()
}

// State reports the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cursor reports the zero-based index of the current question.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Cursor
}

// CurrentQuestion returns the question the cursor points at.
func (s *Session) CurrentQuestion() (models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record.Cursor < 0 || s.record.Cursor >= len(s.set.Questions) {
		return models.Question{}, fmt.Errorf("cursor %d outside %d questions", s.record.Cursor, len(s.set.Questions))
	}
	return s.set.Questions[s.record.Cursor].Clone(), nil
}

// Selected returns the currently selected option indices in ascending order.
func (s *Session) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIndices()
}

func (s *Session) selectedIndices() []int {
	out := make([]int, 0, len(s.selected))
	for i := 0; i < len(s.set.Questions[s.record.Cursor].Options); i++ {
		if s.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// Select records a choice on the current question. Single-answer questions
// replace the previous choice; multiple-answer questions toggle the option.
// Once the question is revealed, selection changes are silently ignored.
func (s *Session) Select(ctx context.Context, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrQuizCompleted
	}
	if s.state == StateRevealed {
		return nil
	}
	q := s.set.Questions[s.record.Cursor]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("option %d with %d options: %w", option, len(q.Options), ErrOptionOutOfRange)
	}

	if q.Kind == models.AnswerSingle {
		s.selected = map[int]bool{option: true}
	} else if s.selected[option] {
		delete(s.selected, option)
	} else {
		s.selected[option] = true
	}
	return nil
}

// Check grades the current selection, freezes the question, and records the
// outcome in the progress record. Checking again before navigating replaces
// the stored outcome rather than stacking a second one.
func (s *Session) Check(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return false, ErrQuizCompleted
	}
	if len(s.selected) == 0 {
		return false, ErrSelectionRequired
	}

	q := s.set.Questions[s.record.Cursor]
	var key models.AnswerKey
	indices := s.selectedIndices()
	if q.Kind == models.AnswerSingle {
		key = models.SingleAnswer(indices[0])
	} else {
		key = models.MultipleAnswer(indices...)
	}

	correct := key.Equals(q.CorrectAnswer)
	s.record.Answers[q.ID] = models.AnswerRecord{
		Selected:  key,
		Correct:   correct,
		Timestamp: s.clock().UTC(),
	}
	s.state = StateRevealed

	// A graded answer must survive a reload, so write through immediately
	// instead of waiting out the autosave debounce.
	if err := s.save(ctx, s.snapshotLocked()); err != nil {
		return correct, err
	}
	return correct, nil
}

// Next advances the cursor. Leaving the last question completes the quiz and
// computes results.
func (s *Session) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrQuizCompleted
	}

	if s.record.Cursor >= len(s.set.Questions)-1 {
		now := s.clock().UTC()
		s.record.CompletedAt = &now
		s.state = StateCompleted
		s.accrueElapsed()
		s.results = scoring.ComputeResults(s.set, s.record)
		return s.save(ctx, s.snapshotLocked())
	}

	s.record.Cursor++
	s.state = StateAnswering
	s.selected = make(map[int]bool)
	return s.save(ctx, s.snapshotLocked())
}

// Previous moves the cursor back one question, returning it to the answering
// phase with a cleared selection. At the first question it is a no-op.
func (s *Session) Previous(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateCompleted {
		return ErrQuizCompleted
	}
	if s.record.Cursor == 0 {
		return nil
	}
	s.record.Cursor--
	s.state = StateAnswering
	s.selected = make(map[int]bool)
	s.touchLocked()
	return nil
}

// Results returns the computed results of a completed session.
func (s *Session) Results() (*models.QuizResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted {
		return nil, fmt.Errorf("quiz %q not completed", s.set.ID)
	}
	return s.results, nil
}

// Progress returns a copy of the durable record as it stands now.
func (s *Session) Progress() *models.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accrueElapsed()
	return s.record.Clone()
}

// Reset discards all progress for this quiz set and restarts the session at
// the first question.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.record.UserID, s.record.QuizSetID); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	s.record = models.NewProgressRecord(s.record.UserID, s.record.QuizSetID)
	s.state = StateAnswering
	s.selected = make(map[int]bool)
	s.results = nil
	s.elapsed = 0
	s.lastResumed = s.clock()
	return nil
}

// Flush writes the progress record through to the store immediately,
// bypassing the autosave debounce.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	record := s.snapshotLocked()
	s.mu.Unlock()
	return s.save(ctx, record)
}

// Close flushes outstanding progress and stops the autosaver.
func (s *Session) Close(ctx context.Context) error {
	s.saver.close()
	return s.Flush(ctx)
}

// touchLocked schedules a debounced save. Callers hold s.mu.
func (s *Session) touchLocked() {
	s.saver.touch()
}

// accrueElapsed folds wall time since the last accrual into the record.
// The running total is kept as a duration so frequent accruals don't lose
// the sub-second remainders to truncation. Callers hold s.mu.
func (s *Session) accrueElapsed() {
	now := s.clock()
	s.elapsed += now.Sub(s.lastResumed)
	s.lastResumed = now
	s.record.ElapsedSeconds = int(s.elapsed.Seconds())
}

func (s *Session) snapshotLocked() *models.ProgressRecord {
	s.accrueElapsed()
	s.record.UpdatedAt = s.clock().UTC()
	return s.record.Clone()
}

func (s *Session) flush() {
	s.mu.Lock()
	record := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.save(context.Background(), record); err != nil {
		s.logger.Warn("Autosave failed", "quiz_set_id", record.QuizSetID, "error", err)
	}
}

func (s *Session) save(ctx context.Context, record *models.ProgressRecord) error {
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}
