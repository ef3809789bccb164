package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnpath/backend/internal/courses"
	"github.com/learnpath/backend/internal/mentor"
	"github.com/learnpath/backend/internal/models"
)

// ErrNoAnswers means a submission carried no answers.
var ErrNoAnswers = errors.New("submission has no answers")

// QuizSource supplies the stored quiz a submission is graded against.
type QuizSource interface {
	GetCourse(ctx context.Context, slug string) (*models.Course, error)
	GetOrGenerateChapterQuiz(ctx context.Context, courseSlug string, chapterNumber int) (*models.ChapterQuiz, error)
}

// Service grades quiz submissions against the stored questions and records
// the result. The stored answers keep the full question content, so later
// analysis can rebuild review questions without re-reading the quiz.
type Service struct {
	store   *Store
	quizzes QuizSource
}

func NewService(store *Store, quizzes QuizSource) *Service {
	return &Service{store: store, quizzes: quizzes}
}

// SubmitQuiz grades a chapter submission and upserts the progress record.
func (s *Service) SubmitQuiz(ctx context.Context, userID int64, courseSlug string, chapterNumber int, req models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	if len(req.Answers) == 0 {
		return nil, ErrNoAnswers
	}

	course, err := s.quizzes.GetCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}
	var chapterTitle string
	for _, ch := range course.Chapters {
		if ch.Number == chapterNumber {
			chapterTitle = ch.Title
			break
		}
	}
	if chapterTitle == "" {
		return nil, courses.ErrNotFound
	}

	quiz, err := s.quizzes.GetOrGenerateChapterQuiz(ctx, courseSlug, chapterNumber)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(quiz.Questions))
	for _, q := range quiz.Questions {
		known[q.ID] = true
	}
	matched := 0
	for _, a := range req.Answers {
		if known[a.QuestionID] {
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("no submitted answer matched a quiz question")
	}

	graded, correct := GradeSubmission(quiz.Questions, req.Answers)
	score := float64(correct) / float64(len(quiz.Questions))
	rec := &models.ProgressRecord{
		UserID:         userID,
		CourseSlug:     courseSlug,
		ChapterNumber:  chapterNumber,
		ChapterTitle:   chapterTitle,
		Answers:        graded,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		Completed:      true,
	}
	if err := s.store.UpsertProgress(ctx, rec); err != nil {
		return nil, err
	}

	return &models.SubmitQuizResponse{
		CourseSlug:     courseSlug,
		ChapterNumber:  chapterNumber,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: correct,
		Answers:        graded,
	}, nil
}

// ListProgress returns a user's graded chapters for a course.
func (s *Service) ListProgress(ctx context.Context, userID int64, courseSlug string) ([]models.ProgressRecord, error) {
	return s.store.ListProgress(ctx, userID, courseSlug)
}

// GradeSubmission grades submitted answers against the quiz's questions.
// Unanswered questions are graded as wrong with an empty user answer, so the
// record always covers the full quiz. Submissions for unknown question ids
// are ignored.
func GradeSubmission(questions []models.QuizQuestion, answers []models.SubmittedAnswer) ([]models.ProgressAnswer, int) {
	submitted := make(map[string]string, len(answers))
	for _, a := range answers {
		submitted[a.QuestionID] = a.UserAnswer
	}

	graded := make([]models.ProgressAnswer, 0, len(questions))
	correct := 0
	for _, q := range questions {
		raw, answered := submitted[q.ID]
		userAnswer := ""
		isCorrect := false
		if answered {
			userAnswer = mentor.NormalizeAnswer(q.Type, raw)
			isCorrect = userAnswer != "" && userAnswer == mentor.NormalizeAnswer(q.Type, q.CorrectAnswer)
		}
		if isCorrect {
			correct++
		}
		graded = append(graded, models.ProgressAnswer{
			QuestionID:    q.ID,
			QuestionType:  q.Type,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			IsCorrect:     isCorrect,
		})
	}
	return graded, correct
}
