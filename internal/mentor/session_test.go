package mentor

import (
	"errors"
	"math/rand"
	"testing"
	"unicode/utf8"

	"github.com/learnpath/backend/internal/models"
)

func threeQuestionQuiz() *models.GapQuiz {
	return &models.GapQuiz{
		ID:         "quiz-1",
		UserID:     1,
		CourseSlug: testSlug,
		Questions: []models.GapQuizQuestion{
			{ID: "q1", Type: models.TypeMCQ, QuestionText: "First?",
				Options:       []string{"A) a", "B) b", "C) c", "D) d"},
				CorrectAnswer: "A", Explanation: "A is right.", Source: models.SourceWrongAnswer},
			{ID: "q2", Type: models.TypeMCQ, QuestionText: "Second?",
				Options:       []string{"A) a", "B) b", "C) c", "D) d"},
				CorrectAnswer: "B", Explanation: "B is right.", Source: models.SourceExtra},
			{ID: "q3", Type: models.TypeTrueFalse, QuestionText: "Third?",
				CorrectAnswer: "true", Explanation: "It holds.", Source: models.SourceExtra},
		},
	}
}

func TestSessionWalksToCompletion(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	session, err := manager.Start(threeQuestionQuiz())
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if session.State() != StatePresenting {
			t.Fatalf("step %d: state %q, want presenting", i, session.State())
		}
		q, err := session.CurrentQuestion()
		if err != nil {
			t.Fatalf("step %d: CurrentQuestion failed: %v", i, err)
		}
		if q.CorrectAnswer != "" || q.Explanation != "" {
			t.Errorf("step %d: presented question leaks the answer", i)
		}

		answer := "A"
		if q.Type == models.TypeTrueFalse {
			answer = "true"
		}
		if _, err := session.Submit(answer); err != nil {
			t.Fatalf("step %d: Submit failed: %v", i, err)
		}
		if session.State() != StateFeedback {
			t.Fatalf("step %d: state %q after submit, want feedback", i, session.State())
		}

		full, err := session.CurrentQuestion()
		if err != nil {
			t.Fatalf("step %d: feedback CurrentQuestion failed: %v", i, err)
		}
		if full.CorrectAnswer == "" || full.Explanation == "" {
			t.Errorf("step %d: feedback should reveal answer and explanation", i)
		}

		if err := session.Advance(); err != nil {
			t.Fatalf("step %d: Advance failed: %v", i, err)
		}
	}

	if session.State() != StateCompleted {
		t.Fatalf("state %q after last advance, want completed", session.State())
	}
	if got := len(session.Answers()); got != 3 {
		t.Errorf("got %d answer records, want 3", got)
	}
}

func TestSessionRejectsOutOfOrderCalls(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	session, _ := manager.Start(threeQuestionQuiz())

	// Advance before any submit.
	if err := session.Advance(); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("advance while presenting: got %v, want ErrSessionProtocol", err)
	}

	if _, err := session.Submit("A"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Re-submission while in feedback.
	if _, err := session.Submit("B"); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("resubmit in feedback: got %v, want ErrSessionProtocol", err)
	}
	if got := len(session.Answers()); got != 1 {
		t.Errorf("rejected submit recorded an answer: %d records", got)
	}
}

func TestSessionRejectsEmptyAnswer(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	session, _ := manager.Start(threeQuestionQuiz())

	if _, err := session.Submit("   "); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("empty answer: got %v, want ErrSessionProtocol", err)
	}
	if session.State() != StatePresenting {
		t.Error("rejected submit changed the session state")
	}
}

func TestSessionCompletedRejectsFurtherCalls(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	session, _ := manager.Start(threeQuestionQuiz())

	for i := 0; i < 3; i++ {
		if _, err := session.Submit("A"); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if err := session.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	if _, err := session.Submit("A"); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("submit after completion: got %v, want ErrSessionProtocol", err)
	}
	if err := session.Advance(); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("advance after completion: got %v, want ErrSessionProtocol", err)
	}
	if _, err := session.CurrentQuestion(); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("current question after completion: got %v, want ErrSessionProtocol", err)
	}
}

func TestShuffleOrderDeterministicUnderFixedSeed(t *testing.T) {
	a := shuffleOrder(10, rand.New(rand.NewSource(7)))
	b := shuffleOrder(10, rand.New(rand.NewSource(7)))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", a, b)
		}
	}

	seen := make(map[int]bool)
	for _, idx := range a {
		if idx < 0 || idx >= 10 || seen[idx] {
			t.Fatalf("not a permutation: %v", a)
		}
		seen[idx] = true
	}
}

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		qType  models.QuestionType
		answer string
		want   string
	}{
		{models.TypeMCQ, "a", "A"},
		{models.TypeMCQ, "B) some option text", "B"},
		{models.TypeMCQ, " c ", "C"},
		{models.TypeMCQ, "á) accented option", "Á"},
		{models.TypeMCQ, "Ｂ) full-width letter", "Ｂ"},
		{models.TypeTrueFalse, "True", "true"},
		{models.TypeTrueFalse, "FALSE", "false"},
		{models.TypeMCQ, "", ""},
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.qType, tt.answer); got != tt.want {
			t.Errorf("NormalizeAnswer(%s, %q) = %q, want %q", tt.qType, tt.answer, got, tt.want)
		}
	}
	for _, tt := range tests {
		if got := NormalizeAnswer(tt.qType, tt.answer); !utf8.ValidString(got) {
			t.Errorf("NormalizeAnswer(%s, %q) produced invalid UTF-8 %q", tt.qType, tt.answer, got)
		}
	}
}

func TestSessionManagerScopesSessionsToOwner(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	session, _ := manager.Start(threeQuestionQuiz())

	if _, err := manager.Get(session.ID, 1); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := manager.Get(session.ID, 2); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("foreign lookup: got %v, want ErrSessionNotFound", err)
	}

	manager.Discard(session.ID, 2)
	if _, err := manager.Get(session.ID, 1); err != nil {
		t.Error("discard by a non-owner should be a no-op")
	}

	manager.Discard(session.ID, 1)
	if _, err := manager.Get(session.ID, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("session should be gone after the owner discards it")
	}
}

func TestSessionManagerRejectsEmptyQuiz(t *testing.T) {
	manager := NewSessionManagerWithSeed(42)
	if _, err := manager.Start(&models.GapQuiz{ID: "empty", UserID: 1}); !errors.Is(err, ErrSessionProtocol) {
		t.Errorf("empty quiz: got %v, want ErrSessionProtocol", err)
	}
}
