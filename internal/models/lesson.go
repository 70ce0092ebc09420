package models

import (
	"time"

	"github.com/google/uuid"
)

// Lesson is the structured result of one analysis run: an HTML-flavored
// critique plus a short multiple-choice quiz. Field names on QuizQuestion
// follow the wire contract the AI is instructed to emit.
type Lesson struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Analysis  string         `json:"verification"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
}

type QuizQuestion struct {
	Prompt  string   `json:"q"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// LessonSummary is a history list entry (no payload).
type LessonSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// RedactedLesson is the client-facing view of a lesson: correct labels are
// withheld so grading stays server-side.
type RedactedLesson struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Analysis  string             `json:"verification"`
	Questions []RedactedQuestion `json:"questions"`
}

type RedactedQuestion struct {
	Prompt  string   `json:"q"`
	Options []string `json:"options"`
}

// Redact strips correct-answer labels from a lesson.
func (l *Lesson) Redact() RedactedLesson {
	qs := make([]RedactedQuestion, len(l.Questions))
	for i, q := range l.Questions {
		qs[i] = RedactedQuestion{Prompt: q.Prompt, Options: q.Options}
	}
	return RedactedLesson{
		ID:        l.ID,
		Title:     l.Title,
		Analysis:  l.Analysis,
		Questions: qs,
	}
}

// Request bodies

type AnalyzeVideoRequest struct {
	URL string `json:"url"`
}

type AnalyzeTextRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

type SubmitAnswerRequest struct {
	QuestionIndex int    `json:"question_index"`
	Option        string `json:"option"`
}

type SubmitAnswerResponse struct {
	AlreadyAnswered bool `json:"already_answered"`
	Correct         bool `json:"correct"`
	Score           int  `json:"score"`
	Streak          int  `json:"streak"`
}

type ScoreResponse struct {
	Score  int `json:"score"`
	Streak int `json:"streak"`
}
