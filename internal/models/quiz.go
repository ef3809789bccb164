package models

import "time"

type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeTrueFalse QuestionType = "true_false"
)

var ValidQuestionTypes = map[QuestionType]bool{
	TypeMCQ:       true,
	TypeTrueFalse: true,
}

// QuizQuestion is one question of a chapter quiz. Options are present for
// mcq questions only and carry their letter prefix ("A) ...").
type QuizQuestion struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Hint          string       `json:"hint,omitempty"`
	Difficulty    string       `json:"difficulty,omitempty"`
	TargetConcept string       `json:"target_concept,omitempty"`
}

type ChapterQuiz struct {
	ID            int64          `json:"id"`
	CourseSlug    string         `json:"course_slug"`
	ChapterNumber int            `json:"chapter_number"`
	Questions     []QuizQuestion `json:"questions"`
	Provider      string         `json:"provider"`
	CreatedAt     time.Time      `json:"created_at"`
}

// ServedQuestion is a QuizQuestion with answer data stripped for serving.
type ServedQuestion struct {
	ID           string       `json:"id"`
	Type         QuestionType `json:"type"`
	QuestionText string       `json:"question_text"`
	Options      []string     `json:"options,omitempty"`
	Hint         string       `json:"hint,omitempty"`
}

func (q QuizQuestion) Strip() ServedQuestion {
	return ServedQuestion{
		ID:           q.ID,
		Type:         q.Type,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		Hint:         q.Hint,
	}
}

type ChapterQuizResponse struct {
	CourseSlug    string           `json:"course_slug"`
	ChapterNumber int              `json:"chapter_number"`
	Questions     []ServedQuestion `json:"questions"`
	Total         int              `json:"total"`
}

// ── Submission Types ──────────────────────────────────────

type SubmittedAnswer struct {
	QuestionID string `json:"question_id"`
	UserAnswer string `json:"user_answer"`
}

type SubmitQuizRequest struct {
	Answers []SubmittedAnswer `json:"answers"`
}

type SubmitQuizResponse struct {
	CourseSlug     string           `json:"course_slug"`
	ChapterNumber  int              `json:"chapter_number"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Answers        []ProgressAnswer `json:"answers"`
}
