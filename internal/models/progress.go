package models

import "time"

// AnswerRecord is the durable outcome of checking one question.
type AnswerRecord struct {
	Selected  AnswerKey `json:"selected"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressRecord is the durable per-quiz-set record of a user's last position
// and checked answers. It outlives any single session and survives reloads.
type ProgressRecord struct {
	QuizSetID      string                  `json:"quiz_set_id"`
	UserID         string                  `json:"user_id,omitempty"`
	Cursor         int                     `json:"cursor"`
	Answers        map[string]AnswerRecord `json:"answers"`
	ElapsedSeconds int                     `json:"elapsed_seconds"`
	CompletedAt    *time.Time              `json:"completed_at,omitempty"`
	UpdatedAt      time.Time               `json:"updated_at,omitempty"`
}

func NewProgressRecord(userID, quizSetID string) *ProgressRecord {
	return &ProgressRecord{
		QuizSetID: quizSetID,
		UserID:    userID,
		Answers:   make(map[string]AnswerRecord),
	}
}

func (r *ProgressRecord) Clone() *ProgressRecord {
	out := *r
	out.Answers = make(map[string]AnswerRecord, len(r.Answers))
	for id, a := range r.Answers {
		out.Answers[id] = a
	}
	if r.CompletedAt != nil {
		completed := *r.CompletedAt
		out.CompletedAt = &completed
	}
	return &out
}

// QuestionResult is one line of a results breakdown, in authored order.
type QuestionResult struct {
	QuestionID    string     `json:"question_id"`
	Answered      bool       `json:"answered"`
	Correct       bool       `json:"correct"`
	UserAnswer    *AnswerKey `json:"user_answer,omitempty"`
	CorrectAnswer AnswerKey  `json:"correct_answer"`
}

// QuizResults is the summary derived from a progress record at completion.
// It can be re-derived at any time from the same record.
type QuizResults struct {
	QuizSetID      string           `json:"quiz_set_id"`
	Score          int              `json:"score"`
	CorrectCount   int              `json:"correct_count"`
	TotalCount     int              `json:"total_count"`
	ElapsedSeconds int              `json:"elapsed_seconds"`
	PerQuestion    []QuestionResult `json:"per_question"`
}
