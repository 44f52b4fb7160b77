// Package shuffle randomizes question order and answer options while keeping
// correct-answer bookkeeping consistent with the new option positions.
package shuffle

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/certsim/quiz-service/internal/models"
)

var (
	ErrNoOptions        = errors.New("question has no options")
	ErrAnswerOutOfRange = errors.New("correct answer index out of range")
)

// Shuffler produces shuffled copies of quiz content. It is not safe for
// concurrent use; sessions each own their own instance.
type Shuffler struct {
	rng *rand.Rand
}

// New builds a Shuffler from the given source. A nil source gets a
// time-seeded one, which is the normal production path; tests inject a
// fixed seed for deterministic output.
func New(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Shuffler{rng: rand.New(src)}
}

// Questions returns a deep copy of the questions in a uniformly random
// order. The input slice is never modified.
func (s *Shuffler) Questions(questions []models.Question) []models.Question {
	perm := s.rng.Perm(len(questions))
	shuffled := make([]models.Question, len(questions))
	for i, j := range perm {
		shuffled[i] = questions[j].Clone()
	}
	return shuffled
}

// Question returns a copy of q with its options in random order and the
// correct answer remapped to the options' new positions.
func (s *Shuffler) Question(q models.Question) (models.Question, error) {
	if len(q.Options) == 0 {
		return models.Question{}, fmt.Errorf("question %q: %w", q.ID, ErrNoOptions)
	}
	indices := q.CorrectAnswer.Indices()
	if len(indices) == 0 {
		return models.Question{}, fmt.Errorf("question %q: no correct answer: %w",
			q.ID, ErrAnswerOutOfRange)
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(q.Options) {
			return models.Question{}, fmt.Errorf("question %q: index %d with %d options: %w",
				q.ID, idx, len(q.Options), ErrAnswerOutOfRange)
		}
	}

	shuffled := q.Clone()
	perm := s.rng.Perm(len(q.Options))

	// perm[newPos] = oldPos, so the inverse maps old answer indices to new.
	inverse := make([]int, len(perm))
	options := make([]string, len(perm))
	for newPos, oldPos := range perm {
		inverse[oldPos] = newPos
		options[newPos] = q.Options[oldPos]
	}
	shuffled.Options = options

	remapped := make([]int, 0, len(indices))
	for _, idx := range indices {
		remapped = append(remapped, inverse[idx])
	}
	if q.CorrectAnswer.IsSingle() {
		shuffled.CorrectAnswer = models.SingleAnswer(remapped[0])
	} else {
		shuffled.CorrectAnswer = models.MultipleAnswer(remapped...)
	}
	return shuffled, nil
}

// QuizSet returns a deep copy of the set with question order randomized and,
// when shuffleOptions is set, each question's options randomized too.
func (s *Shuffler) QuizSet(set *models.QuizSet, shuffleOptions bool) (*models.QuizSet, error) {
	shuffled := set.Clone()
	shuffled.Questions = s.Questions(set.Questions)
	if !shuffleOptions {
		return shuffled, nil
	}
	for i, q := range shuffled.Questions {
		sq, err := s.Question(q)
		if err != nil {
			return nil, err
		}
		shuffled.Questions[i] = sq
	}
	return shuffled, nil
}
