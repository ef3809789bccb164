package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/learnpath/backend/internal/models"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseChapters(t *testing.T) {
	chapters, err := ParseChapters(buildMockChaptersJSON())
	if err != nil {
		t.Fatalf("ParseChapters failed: %v", err)
	}
	if len(chapters) != 4 {
		t.Fatalf("got %d chapters, want 4", len(chapters))
	}
	for i, ch := range chapters {
		if ch.Number != i+1 {
			t.Errorf("chapter %d has number %d", i, ch.Number)
		}
		if len(ch.KeyConcepts) == 0 {
			t.Errorf("chapter %d has no key concepts", ch.Number)
		}
	}
}

func TestParseChaptersRejectsOutOfSequence(t *testing.T) {
	body := `{"chapters":[{"number":2,"title":"t","summary":"s","key_concepts":["a"],"difficulty":"beginner"}]}`
	_, err := ParseChapters(body)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseQuizQuestions(t *testing.T) {
	questions, err := ParseQuizQuestions(buildMockQuizJSON())
	if err != nil {
		t.Fatalf("ParseQuizQuestions failed: %v", err)
	}
	if len(questions) != 6 {
		t.Fatalf("got %d questions, want 6", len(questions))
	}

	mcq, tf := 0, 0
	for _, q := range questions {
		switch q.Type {
		case models.TypeMCQ:
			mcq++
			if len(q.Options) != 4 {
				t.Errorf("mcq question %s has %d options", q.ID, len(q.Options))
			}
		case models.TypeTrueFalse:
			tf++
		}
	}
	if mcq != 4 || tf != 2 {
		t.Errorf("got %d mcq + %d true_false, want 4 + 2", mcq, tf)
	}
}

func TestParseQuizQuestionsRejectsBadAnswer(t *testing.T) {
	body := `{"questions":[{"id":"q1","type":"mcq","question_text":"x","options":["A) a","B) b","C) c","D) d"],"correct_answer":"E","explanation":"e"}]}`
	if _, err := ParseQuizQuestions(body); err == nil {
		t.Fatal("expected error for correct_answer outside A-D")
	}

	body = `{"questions":[{"id":"q1","type":"true_false","question_text":"x","correct_answer":"yes","explanation":"e"}]}`
	if _, err := ParseQuizQuestions(body); err == nil {
		t.Fatal("expected error for non-boolean true_false answer")
	}
}

func TestParseQuizQuestionsRejectsEmpty(t *testing.T) {
	if _, err := ParseQuizQuestions(`{"questions":[]}`); err == nil {
		t.Fatal("expected error for empty quiz")
	}
}

func TestParseGapQuestionsAllowsEmpty(t *testing.T) {
	questions, err := ParseGapQuestions(`{"questions":[]}`)
	if err != nil {
		t.Fatalf("ParseGapQuestions failed: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("got %d questions, want 0", len(questions))
	}
}

func TestGenerateGapQuestionsTagsSource(t *testing.T) {
	g := NewGeneratorWithClient(NewMockClient(), "mock")

	questions, err := g.GenerateGapQuestions(context.Background(), GapQuizRequest{
		CourseTopic:  "project management",
		Difficulty:   models.DifficultyBeginner,
		WeakConcepts: []models.WeakConcept{{ChapterNumber: 1, Concept: "planning", WrongCount: 2, TotalQuestions: 4}},
		IncludeHints: true,
		MaxQuestions: 5,
	})
	if err != nil {
		t.Fatalf("GenerateGapQuestions failed: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("mock generator returned no questions")
	}
	for _, q := range questions {
		if q.Source != models.SourceExtra {
			t.Errorf("question %s has source %q, want %q", q.ID, q.Source, models.SourceExtra)
		}
		if q.ID == "" {
			t.Error("question missing generated id")
		}
	}
}

func TestGenerateGapQuestionsStripsHintsWhenDisabled(t *testing.T) {
	g := NewGeneratorWithClient(NewMockClient(), "mock")

	questions, err := g.GenerateGapQuestions(context.Background(), GapQuizRequest{
		CourseTopic:  "project management",
		Difficulty:   models.DifficultyBeginner,
		IncludeHints: false,
		MaxQuestions: 5,
	})
	if err != nil {
		t.Fatalf("GenerateGapQuestions failed: %v", err)
	}
	for _, q := range questions {
		if q.Hint != "" {
			t.Errorf("question %s carries a hint with hints disabled", q.ID)
		}
	}
}

func TestMockClientRoutesByPromptShape(t *testing.T) {
	m := NewMockClient()

	resp, err := m.Generate(context.Background(), "", BuildCourseUserPrompt("go", models.DifficultyBeginner, 4))
	if err != nil {
		t.Fatalf("mock generate failed: %v", err)
	}
	if !strings.Contains(resp.Content, `"chapters"`) {
		t.Error("course prompt did not produce a chapters payload")
	}

	resp, _ = m.Generate(context.Background(), "", BuildGapQuizUserPrompt(GapQuizRequest{MaxQuestions: 3}))
	if !strings.Contains(resp.Content, `"target_concept"`) {
		t.Error("gap prompt did not produce a gap questions payload")
	}
}
