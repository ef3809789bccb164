package models

import "time"

// ProgressAnswer is one graded answer inside a chapter's progress record.
// It carries everything a gap-quiz review question reuses verbatim.
type ProgressAnswer struct {
	QuestionID    string       `json:"question_id"`
	QuestionType  QuestionType `json:"question_type"`
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options,omitempty"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	IsCorrect     bool         `json:"is_correct"`
}

// ProgressRecord is one user's graded result for one chapter of a course.
// Owned by the progress store; the mentor engine treats it as read-only input.
type ProgressRecord struct {
	UserID         int64            `json:"user_id"`
	CourseSlug     string           `json:"course_slug"`
	ChapterNumber  int              `json:"chapter_number"`
	ChapterTitle   string           `json:"chapter_title"`
	Answers        []ProgressAnswer `json:"answers"`
	Score          float64          `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Completed      bool             `json:"completed"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
