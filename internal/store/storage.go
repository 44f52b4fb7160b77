package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/certsim/quiz-service/internal/models"
)

// Storage persists the full question snapshot. Every mutation writes the
// whole snapshot back - last writer wins, which is acceptable for the
// single-user model this service targets.
type Storage interface {
	// Load returns the stored snapshot, or ok=false when none exists yet.
	Load(ctx context.Context) (models.Snapshot, bool, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot models.Snapshot) error
}

// ===== MEMORY STORAGE =====

// MemoryStorage keeps the snapshot in process memory. Used in tests and as
// the throwaway backend.
type MemoryStorage struct {
	mu       sync.RWMutex
	snapshot models.Snapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) (models.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, false, nil
	}
	return s.snapshot.Clone(), true, nil
}

func (s *MemoryStorage) Save(ctx context.Context, snapshot models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot.Clone()
	return nil
}

// ===== FILE STORAGE =====

// FileStorage persists the snapshot as a single JSON document on disk,
// written atomically via a temp file rename.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load(ctx context.Context) (models.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, false, fmt.Errorf("snapshot file %s is corrupt: %w", s.path, err)
	}
	for id, set := range snapshot {
		set.ID = id
	}
	return snapshot, true, nil
}

func (s *FileStorage) Save(ctx context.Context, snapshot models.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".quiz-snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}
