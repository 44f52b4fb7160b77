package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the quiz lifecycle events the service publishes
type EventType string

const (
	// Progress events
	EventProgressSaved EventType = "progress.saved"
	EventQuizCompleted EventType = "quiz.completed"

	// Question store events
	EventQuestionUpserted EventType = "question.upserted"
	EventQuestionDeleted  EventType = "question.deleted"
	EventSnapshotImported EventType = "snapshot.imported"
)

// QuizEvent is the base event structure published on every lifecycle change
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewQuizEvent builds an event envelope with a fresh id and timestamp
func NewQuizEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "quiz-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Event payloads

type ProgressSavedEvent struct {
	UserID        string `json:"user_id"`
	QuizSetID     string `json:"quiz_set_id"`
	Cursor        int    `json:"cursor"`
	AnsweredCount int    `json:"answered_count"`
}

type QuizCompletedEvent struct {
	UserID         string `json:"user_id"`
	QuizSetID      string `json:"quiz_set_id"`
	Score          int    `json:"score"`
	CorrectCount   int    `json:"correct_count"`
	TotalCount     int    `json:"total_count"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

type QuestionUpsertedEvent struct {
	QuizSetID  string `json:"quiz_set_id"`
	QuestionID string `json:"question_id"`
	Created    bool   `json:"created"`
}

type QuestionDeletedEvent struct {
	QuizSetID  string `json:"quiz_set_id"`
	QuestionID string `json:"question_id"`
}

type SnapshotImportedEvent struct {
	QuizSets  int `json:"quiz_sets"`
	Questions int `json:"questions"`
}
