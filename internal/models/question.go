package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

type AnswerKind string

const (
	AnswerSingle   AnswerKind = "single"
	AnswerMultiple AnswerKind = "multiple"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

// ReferenceLink points at study material backing a question's justification.
type ReferenceLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type VideoResource struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Duration  string `json:"duration,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// AnswerKey is the set of option indices that answer a question. Single-answer
// keys marshal as a bare index, multiple-answer keys as an index array - the
// wire shape quiz clients already speak.
type AnswerKey struct {
	single  bool
	indices []int
}

// SingleAnswer builds a key for a question with exactly one correct option.
func SingleAnswer(index int) AnswerKey {
	return AnswerKey{single: true, indices: []int{index}}
}

// MultipleAnswer builds a key for a checkbox-style question. Indices are
// stored sorted and deduplicated.
func MultipleAnswer(indices ...int) AnswerKey {
	return AnswerKey{single: false, indices: normalizeIndices(indices)}
}

func normalizeIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (k AnswerKey) IsSingle() bool { return k.single }

// IsZero reports whether the key holds no selection at all.
func (k AnswerKey) IsZero() bool { return len(k.indices) == 0 }

// Indices returns a copy of the selected option indices in ascending order.
func (k AnswerKey) Indices() []int {
	out := make([]int, len(k.indices))
	copy(out, k.indices)
	return out
}

// Equals compares two keys by exact set equality of their indices.
func (k AnswerKey) Equals(other AnswerKey) bool {
	if len(k.indices) != len(other.indices) {
		return false
	}
	for i := range k.indices {
		if k.indices[i] != other.indices[i] {
			return false
		}
	}
	return true
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k.single && len(k.indices) == 1 {
		return json.Marshal(k.indices[0])
	}
	return json.Marshal(k.indices)
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	var scalar int
	if err := json.Unmarshal(data, &scalar); err == nil {
		*k = SingleAnswer(scalar)
		return nil
	}
	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		return fmt.Errorf("answer key must be an option index or an index array: %w", err)
	}
	*k = MultipleAnswer(indices...)
	return nil
}

// Question is one assessment item inside a quiz set. Options keep their
// authored order until a shuffled view is produced.
type Question struct {
	ID            string     `json:"id"`
	Prompt        string     `json:"prompt" validate:"required,min=1"`
	Options       []string   `json:"options" validate:"required,min=2,max=10"`
	Kind          AnswerKind `json:"kind" validate:"required,answer_kind"`
	CorrectAnswer AnswerKey  `json:"correct_answer"`
	Justification string     `json:"justification,omitempty"`

	ReferenceLinks []ReferenceLink `json:"reference_links,omitempty"`
	Screenshots    []string        `json:"screenshots,omitempty"`
	Videos         []VideoResource `json:"videos,omitempty"`

	// Enrichment metadata, display/filtering only.
	Difficulty DifficultyLevel `json:"difficulty,omitempty" validate:"omitempty,difficulty_level"`
	Category   string          `json:"category,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	Points     int             `json:"points,omitempty" validate:"omitempty,min=1,max=100"`
	TimeLimit  int             `json:"time_limit,omitempty"` // seconds
	Hints      []string        `json:"hints,omitempty"`
}

// Clone returns a deep copy so shuffled views never alias the source.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.ReferenceLinks = append([]ReferenceLink(nil), q.ReferenceLinks...)
	out.Screenshots = append([]string(nil), q.Screenshots...)
	out.Videos = append([]VideoResource(nil), q.Videos...)
	out.Tags = append([]string(nil), q.Tags...)
	out.Hints = append([]string(nil), q.Hints...)
	out.CorrectAnswer = AnswerKey{single: q.CorrectAnswer.single, indices: q.CorrectAnswer.Indices()}
	return out
}

// QuizSet is a named ordered sequence of questions. The ID is the map key in
// the persisted snapshot and never changes once assigned.
type QuizSet struct {
	ID            string          `json:"-"`
	Title         string          `json:"title" validate:"required,min=1,max=200"`
	Description   string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	Category      string          `json:"category,omitempty"`
	Difficulty    DifficultyLevel `json:"difficulty,omitempty" validate:"omitempty,difficulty_level"`
	EstimatedTime int             `json:"estimated_time,omitempty"` // seconds
	Questions     []Question      `json:"questions"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

func (s *QuizSet) Clone() *QuizSet {
	out := *s
	out.Questions = make([]Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return &out
}

// Question looks up a question by id in authored order.
func (s *QuizSet) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuizSummary is the list view of a quiz set, without question bodies.
type QuizSummary struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Difficulty     DifficultyLevel `json:"difficulty,omitempty"`
	TotalQuestions int             `json:"total_questions"`
	EstimatedTime  int             `json:"estimated_time,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at,omitempty"`
}

func (s *QuizSet) Summary() QuizSummary {
	return QuizSummary{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		Category:       s.Category,
		Difficulty:     s.Difficulty,
		TotalQuestions: len(s.Questions),
		EstimatedTime:  s.EstimatedTime,
		UpdatedAt:      s.UpdatedAt,
	}
}

// QuizDetail is the wire form of a full quiz set: the set plus its id, which
// the snapshot shape carries in the map key instead of the value.
type QuizDetail struct {
	ID string `json:"id"`
	*QuizSet
}

func (s *QuizSet) Detail() QuizDetail {
	return QuizDetail{ID: s.ID, QuizSet: s}
}

// Snapshot is the full persisted state of the question store: quiz set id to
// quiz set. Export and import operate on this shape wholesale.
type Snapshot map[string]*QuizSet

func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, set := range s {
		clone := set.Clone()
		clone.ID = id
		out[id] = clone
	}
	return out
}
