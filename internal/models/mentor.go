package models

import "time"

type QuestionSource string

const (
	SourceWrongAnswer QuestionSource = "wrong_answer"
	SourceExtra       QuestionSource = "extra"
)

// GeneralConcept is the sentinel group for wrong answers that match none of
// a chapter's key concepts.
const GeneralConcept = "general"

// WeakConcept is a concept within a weak chapter associated with wrong answers.
type WeakConcept struct {
	ChapterNumber        int      `json:"chapter_number"`
	Concept              string   `json:"concept"`
	WrongCount           int      `json:"wrong_count"`
	TotalQuestions       int      `json:"total_questions"`
	SampleWrongQuestions []string `json:"sample_wrong_questions"`
}

// WeakArea is a chapter whose score fell below the weak-score threshold.
type WeakArea struct {
	ChapterNumber int           `json:"chapter_number"`
	ChapterTitle  string        `json:"chapter_title"`
	Score         float64       `json:"score"`
	WeakConcepts  []WeakConcept `json:"weak_concepts"`
}

// MentorAnalysis is recomputed on every request; progress history is the
// source of truth and the analysis is never persisted.
type MentorAnalysis struct {
	CourseSlug             string     `json:"course_slug"`
	TotalChaptersCompleted int        `json:"total_chapters_completed"`
	AverageScore           float64    `json:"average_score"`
	WeakAreas              []WeakArea `json:"weak_areas"`
	MentorAvailable        bool       `json:"mentor_available"`
}

// AllWeakConcepts flattens the weak concepts of every weak area in order.
func (a *MentorAnalysis) AllWeakConcepts() []WeakConcept {
	var out []WeakConcept
	for _, wa := range a.WeakAreas {
		out = append(out, wa.WeakConcepts...)
	}
	return out
}

// GapQuizQuestion is immutable once its quiz is stored.
type GapQuizQuestion struct {
	ID            string         `json:"id"`
	Type          QuestionType   `json:"type"`
	QuestionText  string         `json:"question_text"`
	Options       []string       `json:"options,omitempty"`
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation"`
	Hint          string         `json:"hint,omitempty"`
	Source        QuestionSource `json:"source"`
	SourceChapter int            `json:"source_chapter"`
	TargetConcept string         `json:"target_concept,omitempty"`
}

// GapQuiz is uniquely identified by (user, course_slug, weak_areas_key,
// include_hints) and never mutated after creation. Questions are in canonical
// storage order: review items chapter-ascending, then extras in generation order.
type GapQuiz struct {
	ID           string            `json:"id"`
	UserID       int64             `json:"user_id"`
	CourseSlug   string            `json:"course_slug"`
	WeakAreasKey string            `json:"weak_areas_key"`
	IncludeHints bool              `json:"include_hints"`
	Questions    []GapQuizQuestion `json:"questions"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ── Request/Response Types ────────────────────────────────

type MentorStatusResponse struct {
	MentorAvailable   bool    `json:"mentor_available"`
	ChaptersCompleted int     `json:"chapters_completed"`
	ChaptersRequired  int     `json:"chapters_required"`
	AverageScore      float64 `json:"average_score"`
	WeakAreasCount    int     `json:"weak_areas_count"`
	TotalWrongAnswers int     `json:"total_wrong_answers"`
}

type GenerateGapQuizRequest struct {
	IncludeHints      bool `json:"include_hints"`
	GenerateExtra     bool `json:"generate_extra"`
	MaxExtraQuestions int  `json:"max_extra_questions"`
}

type GapQuizResponse struct {
	Quiz     GapQuiz `json:"quiz"`
	CacheHit bool    `json:"cache_hit"`
}
