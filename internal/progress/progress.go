// Package progress persists per-user quiz progress so an interrupted session
// can resume where it left off.
package progress

import (
	"context"
	"fmt"

	"github.com/certsim/quiz-service/internal/models"
)

// Store is the persistence contract for progress records. Load reports
// ok=false when no record exists, which is not an error.
type Store interface {
	Load(ctx context.Context, userID, quizSetID string) (*models.ProgressRecord, bool, error)
	Save(ctx context.Context, record *models.ProgressRecord) error
	Delete(ctx context.Context, userID, quizSetID string) error
}

// Key builds the storage key for one user's progress in one quiz set. Keys
// carry the stable quiz set id, never its display title, so renaming a set
// does not orphan saved progress.
func Key(userID, quizSetID string) string {
	return fmt.Sprintf("progress:%s:%s", userID, quizSetID)
}
