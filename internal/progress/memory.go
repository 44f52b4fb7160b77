package progress

import (
	"context"
	"sync"

	"github.com/certsim/quiz-service/internal/models"
)

// MemoryStore keeps progress in process memory. Used in tests and when no
// durable backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.ProgressRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.ProgressRecord)}
}

func (s *MemoryStore) Load(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[Key(userID, quizSetID)]
	if !ok {
		return nil, false, nil
	}
	return record.Clone(), true, nil
}

func (s *MemoryStore) Save(ctx context.Context, record *models.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[Key(record.UserID, record.QuizSetID)] = record.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, quizSetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, Key(userID, quizSetID))
	return nil
}
