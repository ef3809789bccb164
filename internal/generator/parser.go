package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/learnpath/backend/internal/models"
)

// ValidationError reports structural problems in a generated response.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ── Chapters ────────────────────────────────────────────

type chapterEnvelope struct {
	Chapters []models.Chapter `json:"chapters"`
}

func ParseChapters(responseBody string) ([]models.Chapter, error) {
	cleaned := stripCodeFences(responseBody)

	var env chapterEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	var errs []string
	if len(env.Chapters) == 0 {
		errs = append(errs, "no chapters in response")
	}
	for i, ch := range env.Chapters {
		if ch.Number != i+1 {
			errs = append(errs, fmt.Sprintf("chapter %d: number %d out of sequence", i+1, ch.Number))
		}
		if ch.Title == "" {
			errs = append(errs, fmt.Sprintf("chapter %d: empty title", i+1))
		}
		if ch.Summary == "" {
			errs = append(errs, fmt.Sprintf("chapter %d: empty summary", i+1))
		}
		if len(ch.KeyConcepts) == 0 {
			errs = append(errs, fmt.Sprintf("chapter %d: no key_concepts", i+1))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return env.Chapters, nil
}

// ── Chapter quiz questions ──────────────────────────────

type quizEnvelope struct {
	Questions []models.QuizQuestion `json:"questions"`
}

func ParseQuizQuestions(responseBody string) ([]models.QuizQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	var env quizEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	var errs []string
	if len(env.Questions) == 0 {
		errs = append(errs, "no questions in response")
	}
	for i, q := range env.Questions {
		errs = append(errs, validateQuestion(i+1, q.Type, q.QuestionText, q.Options, q.CorrectAnswer, q.Explanation)...)
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return env.Questions, nil
}

// ── Gap quiz questions ──────────────────────────────────

type gapEnvelope struct {
	Questions []models.GapQuizQuestion `json:"questions"`
}

// ParseGapQuestions parses extra gap-quiz questions. An empty list is not a
// parse error here; the composer decides whether empty is acceptable.
func ParseGapQuestions(responseBody string) ([]models.GapQuizQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	var env gapEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	var errs []string
	for i, q := range env.Questions {
		errs = append(errs, validateQuestion(i+1, q.Type, q.QuestionText, q.Options, q.CorrectAnswer, q.Explanation)...)
		if q.SourceChapter < 0 {
			errs = append(errs, fmt.Sprintf("question %d: negative source_chapter", i+1))
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return env.Questions, nil
}

// ── Shared validation ───────────────────────────────────

var validMCQAnswers = map[string]bool{"A": true, "B": true, "C": true, "D": true}

func validateQuestion(num int, qType models.QuestionType, text string, options []string, correct, explanation string) []string {
	var errs []string

	if !models.ValidQuestionTypes[qType] {
		errs = append(errs, fmt.Sprintf("question %d: invalid type %q", num, qType))
		return errs
	}
	if text == "" {
		errs = append(errs, fmt.Sprintf("question %d: empty question_text", num))
	}
	if explanation == "" {
		errs = append(errs, fmt.Sprintf("question %d: empty explanation", num))
	}

	switch qType {
	case models.TypeMCQ:
		if len(options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", num, len(options)))
		}
		if !validMCQAnswers[strings.ToUpper(strings.TrimSpace(correct))] {
			errs = append(errs, fmt.Sprintf("question %d: invalid correct_answer %q for mcq", num, correct))
		}
	case models.TypeTrueFalse:
		if len(options) != 0 {
			errs = append(errs, fmt.Sprintf("question %d: true_false question has options", num))
		}
		c := strings.ToLower(strings.TrimSpace(correct))
		if c != "true" && c != "false" {
			errs = append(errs, fmt.Sprintf("question %d: invalid correct_answer %q for true_false", num, correct))
		}
	}

	return errs
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
