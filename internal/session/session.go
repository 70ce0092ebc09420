// Package session holds the per-user study state: the active lesson, which
// questions are locked in, and the running score and streak. State lives for
// the lifetime of the process only; replacing the lesson resets the
// answered-set but never the score.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"smartlens-backend/internal/models"
)

// PointsPerCorrect is the fixed reward for each newly-correct answer.
const PointsPerCorrect = 10

var (
	ErrNoLesson           = errors.New("no active lesson")
	ErrQuestionOutOfRange = errors.New("question index out of range")
)

// SubmitResult reports one grading transition. When AlreadyAnswered is true
// the submission was a no-op and Correct echoes the locked-in outcome.
type SubmitResult struct {
	AlreadyAnswered bool
	Correct         bool
	Score           int
	Streak          int
}

type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	lesson   *models.Lesson
	answered map[int]bool
	score    int
	streak   int
}

func New(id uuid.UUID) *Session {
	return &Session{
		ID:       id,
		answered: make(map[int]bool),
	}
}

// SetLesson replaces the active lesson and clears the answered-set. Score and
// streak are lesson-independent and survive.
func (s *Session) SetLesson(lesson *models.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lesson = lesson
	s.answered = make(map[int]bool)
}

// ClearLesson drops the active lesson ("new lesson" in the UI).
func (s *Session) ClearLesson() {
	s.SetLesson(nil)
}

// Lesson returns the active lesson, or nil.
func (s *Session) Lesson() *models.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lesson
}

// Answered returns a copy of the answered-set for the active lesson.
func (s *Session) Answered() map[int]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]bool, len(s.answered))
	for k, v := range s.answered {
		out[k] = v
	}
	return out
}

// Score returns the cumulative score and current streak.
func (s *Session) Score() (score, streak int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.streak
}

// SubmitAnswer grades one question. A question is graded at most once: a
// locked index is a no-op, not an error. Correctness is a label-prefix match
// against the option text ("B. bar" is correct when the answer label is "B");
// a correct answer adds PointsPerCorrect and extends the streak, a wrong one
// resets the streak to zero.
func (s *Session) SubmitAnswer(questionIndex int, option string) (SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lesson == nil {
		return SubmitResult{}, ErrNoLesson
	}
	if questionIndex < 0 || questionIndex >= len(s.lesson.Questions) {
		return SubmitResult{}, ErrQuestionOutOfRange
	}

	if wasCorrect, locked := s.answered[questionIndex]; locked {
		return SubmitResult{
			AlreadyAnswered: true,
			Correct:         wasCorrect,
			Score:           s.score,
			Streak:          s.streak,
		}, nil
	}

	question := s.lesson.Questions[questionIndex]
	correct := question.Correct != "" && strings.HasPrefix(option, question.Correct)

	s.answered[questionIndex] = correct
	if correct {
		s.score += PointsPerCorrect
		s.streak++
	} else {
		s.streak = 0
	}

	return SubmitResult{
		Correct: correct,
		Score:   s.score,
		Streak:  s.streak,
	}, nil
}
