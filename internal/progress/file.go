package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/certsim/quiz-service/internal/models"
)

// FileStore persists all progress records in one JSON file, rewritten
// atomically on every save. Suited to single-instance deployments.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, false, err
	}
	record, ok := records[Key(userID, quizSetID)]
	if !ok {
		return nil, false, nil
	}
	return record, true, nil
}

func (s *FileStore) Save(ctx context.Context, record *models.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records[Key(record.UserID, record.QuizSetID)] = record.Clone()
	return s.write(records)
}

func (s *FileStore) Delete(ctx context.Context, userID, quizSetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	delete(records, Key(userID, quizSetID))
	return s.write(records)
}

func (s *FileStore) read() (map[string]*models.ProgressRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]*models.ProgressRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}
	var records map[string]*models.ProgressRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse progress file: %w", err)
	}
	if records == nil {
		records = make(map[string]*models.ProgressRecord)
	}
	return records, nil
}

func (s *FileStore) write(records map[string]*models.ProgressRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal progress records: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write progress file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace progress file: %w", err)
	}
	return nil
}
