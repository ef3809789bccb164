package mentor

import (
	"errors"
	"math"
	"testing"

	"github.com/learnpath/backend/internal/models"
)

func progressRecord(chapter int, score float64, answers []models.ProgressAnswer) models.ProgressRecord {
	return models.ProgressRecord{
		UserID:         1,
		CourseSlug:     "project-management-beginner-abc123",
		ChapterNumber:  chapter,
		ChapterTitle:   "Chapter Title",
		Answers:        answers,
		Score:          score,
		TotalQuestions: len(answers),
		Completed:      true,
	}
}

func wrongAnswer(id, text string) models.ProgressAnswer {
	return models.ProgressAnswer{
		QuestionID:    id,
		QuestionType:  models.TypeMCQ,
		QuestionText:  text,
		Options:       []string{"A) one", "B) two", "C) three", "D) four"},
		UserAnswer:    "A",
		CorrectAnswer: "B",
		Explanation:   "B is correct.",
		IsCorrect:     false,
	}
}

func rightAnswer(id, text string) models.ProgressAnswer {
	a := wrongAnswer(id, text)
	a.UserAnswer = "B"
	a.IsCorrect = true
	return a
}

func TestAnalyzeUnlocksMentorAndFindsWeakChapter(t *testing.T) {
	records := []models.ProgressRecord{
		progressRecord(1, 0.5, []models.ProgressAnswer{
			wrongAnswer("q1", "What is the first step of planning?"),
			wrongAnswer("q2", "Which artifact does planning produce?"),
			rightAnswer("q3", "Planning precedes execution, true or false?"),
			rightAnswer("q4", "What closes the review phase?"),
		}),
		progressRecord(2, 0.9, []models.ProgressAnswer{
			rightAnswer("q5", "What is scope?"),
		}),
	}
	concepts := map[int][]string{
		1: {"planning", "review"},
		2: {"scope"},
	}

	analysis, err := Analyze("project-management-beginner-abc123", records, concepts, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !analysis.MentorAvailable {
		t.Error("mentor should unlock at 2 completed chapters")
	}
	if analysis.TotalChaptersCompleted != 2 {
		t.Errorf("got %d completed chapters, want 2", analysis.TotalChaptersCompleted)
	}
	if math.Abs(analysis.AverageScore-0.7) > 1e-9 {
		t.Errorf("got average %.3f, want 0.7", analysis.AverageScore)
	}
	if len(analysis.WeakAreas) != 1 || analysis.WeakAreas[0].ChapterNumber != 1 {
		t.Fatalf("got weak areas %+v, want exactly chapter 1", analysis.WeakAreas)
	}
	if key := DeriveWeakAreasKey(analysis.WeakAreas); key != "1" {
		t.Errorf("got weak areas key %q, want \"1\"", key)
	}

	weak := analysis.WeakAreas[0].WeakConcepts
	if len(weak) == 0 {
		t.Fatal("weak chapter should surface weak concepts")
	}
	if weak[0].Concept != "planning" || weak[0].WrongCount != 2 {
		t.Errorf("most-missed concept = %+v, want planning with 2 wrong", weak[0])
	}
}

func TestAnalyzeWeakAreasSortedByChapter(t *testing.T) {
	records := []models.ProgressRecord{
		progressRecord(5, 0.4, []models.ProgressAnswer{wrongAnswer("q1", "x")}),
		progressRecord(2, 0.3, []models.ProgressAnswer{wrongAnswer("q2", "y")}),
		progressRecord(3, 0.95, []models.ProgressAnswer{rightAnswer("q3", "z")}),
	}

	analysis, err := Analyze("slug", records, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.WeakAreas) != 2 {
		t.Fatalf("got %d weak areas, want 2", len(analysis.WeakAreas))
	}
	if analysis.WeakAreas[0].ChapterNumber != 2 || analysis.WeakAreas[1].ChapterNumber != 5 {
		t.Errorf("weak areas out of chapter order: %+v", analysis.WeakAreas)
	}
}

func TestAnalyzeSkipsEmptyRecords(t *testing.T) {
	records := []models.ProgressRecord{
		progressRecord(1, 0.0, nil),
		progressRecord(2, 0.8, []models.ProgressAnswer{rightAnswer("q1", "x")}),
	}

	analysis, err := Analyze("slug", records, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.TotalChaptersCompleted != 1 {
		t.Errorf("empty record counted as completed: got %d chapters", analysis.TotalChaptersCompleted)
	}
	if analysis.AverageScore != 0.8 {
		t.Errorf("empty record pulled the mean: got %.3f", analysis.AverageScore)
	}
	if len(analysis.WeakAreas) != 0 {
		t.Errorf("empty record flagged weak: %+v", analysis.WeakAreas)
	}
	if analysis.MentorAvailable {
		t.Error("mentor should stay locked below the chapter threshold")
	}
}

func TestAnalyzeBoundaryScoreIsNotWeak(t *testing.T) {
	records := []models.ProgressRecord{
		progressRecord(1, 0.7, []models.ProgressAnswer{wrongAnswer("q1", "x")}),
	}
	analysis, err := Analyze("slug", records, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(analysis.WeakAreas) != 0 {
		t.Error("score equal to the threshold must not be weak")
	}
}

func TestAnalyzeRejectsMalformedRecords(t *testing.T) {
	records := []models.ProgressRecord{
		progressRecord(0, 1.5, []models.ProgressAnswer{wrongAnswer("q1", "x")}),
	}
	_, err := Analyze("slug", records, nil, DefaultConfig())

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("got %d validation errors, want 2 (chapter and score): %v", len(ve.Errors), ve.Errors)
	}
}

func TestAnalyzeNoRecords(t *testing.T) {
	analysis, err := Analyze("slug", nil, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if analysis.MentorAvailable || analysis.AverageScore != 0 || len(analysis.WeakAreas) != 0 {
		t.Errorf("empty progress should produce a locked, zeroed analysis: %+v", analysis)
	}
}

func TestMatchConcepts(t *testing.T) {
	concepts := []string{"planning", "work breakdown structure"}

	tests := []struct {
		question string
		want     []string
	}{
		{"What does Planning produce?", []string{"planning"}},
		{"How does planning relate to the work breakdown structure?", []string{"planning", "work breakdown structure"}},
		{"Which stakeholder signs off?", []string{models.GeneralConcept}},
	}
	for _, tt := range tests {
		got := matchConcepts(tt.question, concepts)
		if len(got) != len(tt.want) {
			t.Errorf("matchConcepts(%q) = %v, want %v", tt.question, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("matchConcepts(%q) = %v, want %v", tt.question, got, tt.want)
				break
			}
		}
	}
}

func TestExtractWeakConceptsCapsSamples(t *testing.T) {
	answers := make([]models.ProgressAnswer, 0, 5)
	for i := 0; i < 5; i++ {
		answers = append(answers, wrongAnswer("q", "A question about planning"))
	}
	rec := progressRecord(1, 0.0, answers)

	weak := extractWeakConcepts(rec, []string{"planning"})
	if len(weak) != 1 {
		t.Fatalf("got %d weak concepts, want 1", len(weak))
	}
	if weak[0].WrongCount != 5 {
		t.Errorf("got wrong count %d, want 5", weak[0].WrongCount)
	}
	if len(weak[0].SampleWrongQuestions) != 3 {
		t.Errorf("got %d samples, want cap of 3", len(weak[0].SampleWrongQuestions))
	}
}
