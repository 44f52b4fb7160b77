package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/certsim/quiz-service/internal/events"
	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/certsim/quiz-service/internal/validator"
)

var (
	ErrQuizSetNotFound  = errors.New("quiz set not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidSnapshot  = errors.New("invalid snapshot format")
)

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizSetNotFound) || errors.Is(err, ErrQuestionNotFound)
}

// QuestionStore is the canonical owner of quiz set data. On first access it
// loads the persisted snapshot, seeding from built-in defaults when none
// exists, and it writes the full snapshot back on every mutation.
type QuestionStore struct {
	mu        sync.RWMutex
	storage   Storage
	seed      models.Snapshot
	validator *validator.Validator
	publisher events.Publisher
	logger    utils.Logger

	db     models.Snapshot
	loaded bool

	now func() time.Time
}

func NewQuestionStore(storage Storage, seed models.Snapshot, v *validator.Validator, publisher events.Publisher, logger utils.Logger) *QuestionStore {
	return &QuestionStore{
		storage:   storage,
		seed:      seed,
		validator: v,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ensureLoaded populates the in-memory snapshot. Read failures fall back to
// the seed rather than failing the caller; the store still works, it just
// starts from defaults.
func (s *QuestionStore) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}

	snapshot, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load question snapshot, falling back to seed data", "error", err)
	}
	if err == nil && ok {
		s.db = snapshot
		s.loaded = true
		s.logger.Info("Question snapshot loaded", "quiz_sets", len(s.db))
		return
	}

	s.db = s.seed.Clone()
	s.loaded = true
	if saveErr := s.storage.Save(ctx, s.db); saveErr != nil {
		s.logger.Warn("Failed to persist seed snapshot", "error", saveErr)
	}
	s.logger.Info("Question store seeded from defaults", "quiz_sets", len(s.db))
}

// persist writes the full snapshot through to storage. Write failures
// surface to the caller so the UI can warn that data may not be saved.
func (s *QuestionStore) persist(ctx context.Context) error {
	if err := s.storage.Save(ctx, s.db); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return nil
}

func (s *QuestionStore) publish(ctx context.Context, event *events.QuizEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish store event", "event_type", event.Type, "error", err)
	}
}

// GetQuizSet returns a deep copy of one quiz set.
func (s *QuestionStore) GetQuizSet(ctx context.Context, id string) (*models.QuizSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	set, ok := s.db[id]
	if !ok {
		return nil, fmt.Errorf("quiz set %q: %w", id, ErrQuizSetNotFound)
	}
	clone := set.Clone()
	clone.ID = id
	return clone, nil
}

// ListQuizSets returns summaries of all quiz sets, sorted by id.
func (s *QuestionStore) ListQuizSets(ctx context.Context) ([]models.QuizSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	summaries := make([]models.QuizSummary, 0, len(s.db))
	for id, set := range s.db {
		set.ID = id
		summaries = append(summaries, set.Summary())
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// UpsertQuizSet creates or replaces a quiz set's metadata, keeping existing
// questions when the incoming set carries none.
func (s *QuestionStore) UpsertQuizSet(ctx context.Context, id string, set *models.QuizSet) (*models.QuizSet, error) {
	if err := s.validator.ValidateStruct(set); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	now := s.now().UTC()
	stored := set.Clone()
	stored.ID = id
	stored.UpdatedAt = now

	if existing, ok := s.db[id]; ok {
		stored.CreatedAt = existing.CreatedAt
		if len(stored.Questions) == 0 {
			stored.Questions = existing.Clone().Questions
		}
	} else {
		stored.CreatedAt = now
	}
	s.db[id] = stored

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// UpsertQuestion adds or replaces a question in a quiz set, assigning an id
// when absent. The target set is created on the fly if it does not exist.
func (s *QuestionStore) UpsertQuestion(ctx context.Context, quizSetID string, q *models.Question) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if q.ID == "" {
		q.ID = fmt.Sprintf("%s-%d", quizSetID, s.now().UnixMilli())
	}
	if err := s.validator.Question().ValidateQuestion(q); err != nil {
		return nil, err
	}
	for _, warning := range s.validator.Question().Warnings(q) {
		s.logger.Warn("Question quality warning", "quiz_set_id", quizSetID, "question_id", q.ID, "warning", warning)
	}

	set, ok := s.db[quizSetID]
	if !ok {
		set = &models.QuizSet{
			ID:        quizSetID,
			Title:     fmt.Sprintf("Quiz Set %s", quizSetID),
			CreatedAt: s.now().UTC(),
		}
		s.db[quizSetID] = set
	}

	stored := q.Clone()
	created := true
	for i := range set.Questions {
		if set.Questions[i].ID == q.ID {
			set.Questions[i] = stored
			created = false
			break
		}
	}
	if created {
		set.Questions = append(set.Questions, stored)
	}
	set.UpdatedAt = s.now().UTC()

	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewQuizEvent(events.EventQuestionUpserted, events.QuestionUpsertedEvent{
		QuizSetID:  quizSetID,
		QuestionID: q.ID,
		Created:    created,
	}))

	result := stored.Clone()
	return &result, nil
}

// DeleteQuestion removes one question from a quiz set.
func (s *QuestionStore) DeleteQuestion(ctx context.Context, quizSetID, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	set, ok := s.db[quizSetID]
	if !ok {
		return fmt.Errorf("quiz set %q: %w", quizSetID, ErrQuizSetNotFound)
	}

	for i := range set.Questions {
		if set.Questions[i].ID == questionID {
			set.Questions = append(set.Questions[:i], set.Questions[i+1:]...)
			set.UpdatedAt = s.now().UTC()
			if err := s.persist(ctx); err != nil {
				return err
			}
			s.publish(ctx, events.NewQuizEvent(events.EventQuestionDeleted, events.QuestionDeletedEvent{
				QuizSetID:  quizSetID,
				QuestionID: questionID,
			}))
			return nil
		}
	}
	return fmt.Errorf("question %q in quiz set %q: %w", questionID, quizSetID, ErrQuestionNotFound)
}

// DeleteQuizSet removes a whole quiz set.
func (s *QuestionStore) DeleteQuizSet(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	if _, ok := s.db[id]; !ok {
		return fmt.Errorf("quiz set %q: %w", id, ErrQuizSetNotFound)
	}
	delete(s.db, id)
	return s.persist(ctx)
}

// Export serializes the full snapshot. Importing this output restores the
// store exactly; exporting again yields byte-identical output.
func (s *QuestionStore) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	data, err := json.MarshalIndent(s.db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}
	return data, nil
}

// Import replaces the whole snapshot. Malformed input fails wholesale; the
// current snapshot stays untouched.
func (s *QuestionStore) Import(ctx context.Context, data []byte) error {
	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if snapshot == nil {
		return fmt.Errorf("%w: snapshot is null", ErrInvalidSnapshot)
	}
	questions := 0
	for id, set := range snapshot {
		if set == nil {
			return fmt.Errorf("%w: quiz set %q is null", ErrInvalidSnapshot, id)
		}
		set.ID = id
		questions += len(set.Questions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.db = snapshot
	if err := s.persist(ctx); err != nil {
		return err
	}

	s.publish(ctx, events.NewQuizEvent(events.EventSnapshotImported, events.SnapshotImportedEvent{
		QuizSets:  len(snapshot),
		Questions: questions,
	}))
	s.logger.Info("Snapshot imported", "quiz_sets", len(snapshot), "questions", questions)
	return nil
}

// Reset discards all data and restores the built-in seed.
func (s *QuestionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.db = s.seed.Clone()
	return s.persist(ctx)
}

// ===== STATS =====

type CacheStats struct {
	TotalQuizSets  int            `json:"total_quiz_sets"`
	TotalQuestions int            `json:"total_questions"`
	Categories     []string       `json:"categories"`
	Difficulties   map[string]int `json:"difficulties"`
}

// Stats summarizes the current snapshot's content.
func (s *QuestionStore) Stats(ctx context.Context) (*CacheStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	stats := &CacheStats{
		TotalQuizSets: len(s.db),
		Difficulties:  make(map[string]int),
	}
	seen := make(map[string]bool)
	for _, set := range s.db {
		stats.TotalQuestions += len(set.Questions)
		for _, q := range set.Questions {
			if q.Category != "" && !seen[q.Category] {
				seen[q.Category] = true
				stats.Categories = append(stats.Categories, q.Category)
			}
			if q.Difficulty != "" {
				stats.Difficulties[string(q.Difficulty)]++
			}
		}
	}
	sort.Strings(stats.Categories)
	return stats, nil
}
