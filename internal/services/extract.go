package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"smartlens-backend/internal/models"
)

// The AI is told to return a single JSON object and routinely does not:
// responses arrive wrapped in prose or ```json fences, with literal newlines
// inside string values, or with trailing commas. Each repair stage below is a
// separate function so it can be exercised against adversarial input on its
// own; ParseLesson chains them.

// ErrNoJSONFound means the response contained no {...} span at all.
var ErrNoJSONFound = errors.New("no JSON object found in AI response")

// MalformedJSONError carries the decoder error for a candidate that survived
// repair but still failed to parse.
type MalformedJSONError struct {
	Err error
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("AI response is not valid JSON: %v", e.Err)
}

func (e *MalformedJSONError) Unwrap() error { return e.Err }

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// stripCodeFences removes markdown code-fence markers wrapping the response.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractObject returns the substring from the first '{' to the last '}'.
func extractObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSONFound
	}
	return s[start : end+1], nil
}

// collapseNewlines replaces raw line breaks with spaces. The model sometimes
// emits literal newlines inside string values, which strict JSON rejects.
func collapseNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

// removeTrailingCommas deletes commas that sit directly before a closing
// brace or bracket.
func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// lessonPayload mirrors the schema the prompt demands. Decoding is lenient:
// missing fields stay zero-valued and are judged by the caller.
type lessonPayload struct {
	Verification string `json:"verification"`
	Questions    []struct {
		Q       string   `json:"q"`
		Options []string `json:"options"`
		Correct string   `json:"correct"`
	} `json:"questions"`
}

// ParseLesson runs the repair pipeline over a raw AI response and maps the
// result into a Lesson. A syntactically valid object with no usable questions
// still parses; callers treat zero questions as a generation failure.
func ParseLesson(raw string) (*models.Lesson, error) {
	candidate, err := extractObject(stripCodeFences(raw))
	if err != nil {
		return nil, err
	}

	candidate = removeTrailingCommas(collapseNewlines(candidate))

	var payload lessonPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, &MalformedJSONError{Err: err}
	}

	lesson := &models.Lesson{Analysis: payload.Verification}
	for _, q := range payload.Questions {
		lesson.Questions = append(lesson.Questions, models.QuizQuestion{
			Prompt:  q.Q,
			Options: q.Options,
			Correct: q.Correct,
		})
	}

	return lesson, nil
}
