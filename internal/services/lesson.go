package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartlens-backend/internal/models"
)

// Sentinel errors surfaced to the HTTP layer. Generation is all-or-nothing:
// any of these leaves the caller's session untouched.
var (
	ErrEmptyInput    = errors.New("source text is empty")
	ErrNoQuestions   = errors.New("AI response contained no quiz questions")
	ErrRateLimited   = errors.New("AI provider rate limit reached")
	ErrModelNotFound = errors.New("AI model unavailable")
)

// LessonService turns source text into a Lesson through a single upstream
// call. No internal retry: failures surface to the caller, a retry is always
// a fresh user action.
type LessonService struct {
	gen           textGenerator
	cache         *LessonCache
	maxInputChars int
	numQuestions  int
}

func NewLessonService(gen textGenerator, cache *LessonCache, maxInputChars, numQuestions int) *LessonService {
	if maxInputChars <= 0 {
		maxInputChars = 3000
	}
	if numQuestions < 1 || numQuestions > 10 {
		numQuestions = 3
	}
	return &LessonService{
		gen:           gen,
		cache:         cache,
		maxInputChars: maxInputChars,
		numQuestions:  numQuestions,
	}
}

// prepareSource trims, bounds, and sanitizes the source text before it is
// embedded in the prompt. Truncation keeps prompt cost and upstream latency
// bounded; the quote swap lowers the odds of the model echoing the text into
// invalid embedded-quote JSON.
func prepareSource(text string, maxChars int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}

	runes := []rune(text)
	if len(runes) > maxChars {
		text = string(runes[:maxChars])
	}

	return strings.ReplaceAll(text, `"`, "'"), nil
}

func buildLessonPrompt(source string, numQuestions int) string {
	var b strings.Builder

	b.WriteString("You are an expert content examiner. Analyze the content below in detail.\n\n")
	b.WriteString("Your analysis must cover three parts:\n")
	b.WriteString("1. Factual verification of the claims made.\n")
	b.WriteString("2. A critical counter-argument.\n")
	b.WriteString("3. A practical extension of the ideas.\n")
	b.WriteString("Format the analysis with <b>, <br> and <li> tags only.\n\n")

	b.WriteString(fmt.Sprintf("Then create exactly %d multiple-choice questions, each with exactly 4 options labeled A, B, C, D.\n\n", numQuestions))

	b.WriteString("CRITICAL: Return ONLY a single JSON object, nothing before or after it:\n")
	b.WriteString(`{"verification": "long analysis text", "questions": [{"q": "question text", "options": ["A. x", "B. y", "C. z", "D. t"], "correct": "A"}]}`)
	b.WriteString("\n\n---CONTENT---\n")
	b.WriteString(source)
	b.WriteString("\n---END---\n")

	return b.String()
}

// classifyUpstreamError maps provider error text onto the sentinel taxonomy.
// The Gemini SDK exposes rate-limit and missing-model failures only through
// the status code embedded in the message.
func classifyUpstreamError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "429") {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	if strings.Contains(msg, "404") {
		return fmt.Errorf("%w: %v", ErrModelNotFound, err)
	}
	return err
}

// GenerateLesson runs the full pipeline: guard, sanitize, prompt, one
// upstream call, defensive parse. Identical source within the cache TTL is
// served without touching the provider.
func (s *LessonService) GenerateLesson(ctx context.Context, source, title string) (*models.Lesson, error) {
	clean, err := prepareSource(source, s.maxInputChars)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(ctx, clean); ok {
		log.Printf("Lesson cache hit for %q", title)
		cached.ID = uuid.New()
		cached.Title = title
		cached.CreatedAt = time.Now().UTC()
		return cached, nil
	}

	raw, err := s.gen.GenerateText(ctx, buildLessonPrompt(clean, s.numQuestions))
	if err != nil {
		return nil, classifyUpstreamError(err)
	}

	lesson, err := ParseLesson(raw)
	if err != nil {
		return nil, err
	}
	if len(lesson.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	lesson.ID = uuid.New()
	lesson.Title = title
	lesson.CreatedAt = time.Now().UTC()

	s.cache.Set(ctx, clean, lesson)

	return lesson, nil
}
