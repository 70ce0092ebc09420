package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"smartlens-backend/internal/models"
)

func testLesson() *models.Lesson {
	return &models.Lesson{
		ID:       uuid.New(),
		Title:    "Test",
		Analysis: "<b>analysis</b>",
		Questions: []models.QuizQuestion{
			{Prompt: "q1", Options: []string{"A. foo", "B. bar", "C. baz", "D. qux"}, Correct: "B"},
			{Prompt: "q2", Options: []string{"A. one", "B. two", "C. three", "D. four"}, Correct: "A"},
			{Prompt: "q3", Options: []string{"A. i", "B. ii", "C. iii", "D. iv"}, Correct: "D"},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(uuid.New())
	s.SetLesson(testLesson())
	return s
}

func TestSubmitAnswer_LabelPrefixMatch(t *testing.T) {
	tests := []struct {
		name   string
		option string
		want   bool
	}{
		{"exact correct option", "B. bar", true},
		{"wrong option", "C. baz", false},
		{"contains label but wrong prefix", "A. B is tempting", false},
		{"label alone still matches", "B", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSession(t)
			result, err := s.SubmitAnswer(0, tc.option)
			if err != nil {
				t.Fatalf("SubmitAnswer() error = %v", err)
			}
			if result.Correct != tc.want {
				t.Errorf("Correct = %v, want %v", result.Correct, tc.want)
			}
		})
	}
}

func TestSubmitAnswer_IdempotentLocking(t *testing.T) {
	s := newTestSession(t)

	first, err := s.SubmitAnswer(0, "B. bar")
	if err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}
	if !first.Correct || first.Score != PointsPerCorrect || first.Streak != 1 {
		t.Fatalf("first submit = %+v", first)
	}

	// Repeated submissions for a locked index never change state, even with
	// a different (wrong) option.
	for _, option := range []string{"B. bar", "C. baz", "D. qux"} {
		again, err := s.SubmitAnswer(0, option)
		if err != nil {
			t.Fatalf("SubmitAnswer() error = %v", err)
		}
		if !again.AlreadyAnswered {
			t.Error("expected AlreadyAnswered on locked index")
		}
		if again.Correct != first.Correct || again.Score != first.Score || again.Streak != first.Streak {
			t.Errorf("locked resubmit changed state: %+v vs %+v", again, first)
		}
	}
}

func TestSubmitAnswer_ScoreAndStreak(t *testing.T) {
	s := newTestSession(t)

	r, _ := s.SubmitAnswer(0, "B. bar") // correct
	if r.Score != 10 || r.Streak != 1 {
		t.Fatalf("after 1 correct: %+v", r)
	}

	r, _ = s.SubmitAnswer(1, "A. one") // correct
	if r.Score != 20 || r.Streak != 2 {
		t.Fatalf("after 2 correct: %+v", r)
	}

	r, _ = s.SubmitAnswer(2, "A. i") // wrong: streak resets, score holds
	if r.Correct {
		t.Fatal("expected incorrect")
	}
	if r.Score != 20 {
		t.Errorf("Score = %d, want 20 (never decreases)", r.Score)
	}
	if r.Streak != 0 {
		t.Errorf("Streak = %d, want 0 after wrong answer", r.Streak)
	}
}

func TestSubmitAnswer_ScoreMonotonic(t *testing.T) {
	s := newTestSession(t)

	prev := 0
	submissions := []struct {
		idx    int
		option string
	}{
		{0, "C. baz"}, {0, "B. bar"}, {1, "A. one"}, {1, "B. two"}, {2, "A. i"},
	}
	for _, sub := range submissions {
		r, err := s.SubmitAnswer(sub.idx, sub.option)
		if err != nil {
			t.Fatalf("SubmitAnswer(%d) error = %v", sub.idx, err)
		}
		if r.Score < prev {
			t.Fatalf("score decreased: %d -> %d", prev, r.Score)
		}
		prev = r.Score
	}

	// Only q1 was answered correctly on a fresh index.
	if score, _ := s.Score(); score != 10 {
		t.Errorf("final score = %d, want 10", score)
	}
}

func TestSetLesson_ClearsAnsweredKeepsScore(t *testing.T) {
	s := newTestSession(t)

	s.SubmitAnswer(0, "B. bar")
	s.SubmitAnswer(1, "B. two")
	scoreBefore, streakBefore := s.Score()

	s.SetLesson(testLesson())

	if got := s.Answered(); len(got) != 0 {
		t.Errorf("answered-set not cleared: %v", got)
	}
	score, streak := s.Score()
	if score != scoreBefore || streak != streakBefore {
		t.Errorf("score/streak changed on new lesson: %d/%d -> %d/%d",
			scoreBefore, streakBefore, score, streak)
	}

	// The fresh lesson is gradable again.
	r, err := s.SubmitAnswer(0, "B. bar")
	if err != nil {
		t.Fatalf("SubmitAnswer() after SetLesson error = %v", err)
	}
	if r.AlreadyAnswered {
		t.Error("index should be unlocked after new lesson")
	}
}

func TestSubmitAnswer_Errors(t *testing.T) {
	s := New(uuid.New())

	if _, err := s.SubmitAnswer(0, "A. x"); !errors.Is(err, ErrNoLesson) {
		t.Errorf("error = %v, want ErrNoLesson", err)
	}

	s.SetLesson(testLesson())
	for _, idx := range []int{-1, 3, 100} {
		if _, err := s.SubmitAnswer(idx, "A. x"); !errors.Is(err, ErrQuestionOutOfRange) {
			t.Errorf("SubmitAnswer(%d) error = %v, want ErrQuestionOutOfRange", idx, err)
		}
	}
}

func TestClearLesson(t *testing.T) {
	s := newTestSession(t)
	s.ClearLesson()

	if s.Lesson() != nil {
		t.Error("lesson should be nil after ClearLesson")
	}
	if _, err := s.SubmitAnswer(0, "A. x"); !errors.Is(err, ErrNoLesson) {
		t.Errorf("error = %v, want ErrNoLesson", err)
	}
}

func TestStore_GetOrCreate(t *testing.T) {
	st := NewStore()
	id := uuid.New()

	a := st.GetOrCreate(id)
	b := st.GetOrCreate(id)
	if a != b {
		t.Error("same ID should return the same session")
	}

	other := st.GetOrCreate(uuid.New())
	if other == a {
		t.Error("different IDs should return different sessions")
	}
}
