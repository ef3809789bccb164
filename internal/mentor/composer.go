package mentor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/learnpath/backend/internal/courses"
	"github.com/learnpath/backend/internal/generator"
	"github.com/learnpath/backend/internal/models"
)

// ProgressSource supplies graded progress history.
type ProgressSource interface {
	ListProgress(ctx context.Context, userID int64, courseSlug string) ([]models.ProgressRecord, error)
}

// CourseSource supplies course metadata and chapter key concepts.
type CourseSource interface {
	GetCourse(ctx context.Context, slug string) (*models.Course, error)
}

// QuizCache persists composed gap quizzes, one per cache key.
type QuizCache interface {
	LookupGapQuiz(ctx context.Context, userID int64, courseSlug, weakAreasKey string, includeHints bool) (*models.GapQuiz, error)
	StoreGapQuiz(ctx context.Context, quiz *models.GapQuiz) error
	GetGapQuiz(ctx context.Context, userID int64, quizID string) (*models.GapQuiz, error)
}

// GapGenerator produces fresh questions targeting weak concepts.
type GapGenerator interface {
	GenerateGapQuestions(ctx context.Context, req generator.GapQuizRequest) ([]models.GapQuizQuestion, error)
}

// DefaultMaxExtraQuestions is used when a request does not cap the number of
// generated questions.
const DefaultMaxExtraQuestions = 5

// Service composes gap quizzes from progress history, the course's key
// concepts, and the generation backend. All collaborators are injected.
type Service struct {
	courses   CourseSource
	progress  ProgressSource
	cache     QuizCache
	generator GapGenerator
	cfg       Config
}

func NewService(courses CourseSource, progress ProgressSource, cache QuizCache, gen GapGenerator, cfg Config) *Service {
	return &Service{
		courses:   courses,
		progress:  progress,
		cache:     cache,
		generator: gen,
		cfg:       cfg,
	}
}

// Analyze recomputes the weak-area analysis for one user and course.
func (s *Service) Analyze(ctx context.Context, userID int64, courseSlug string) (*models.MentorAnalysis, error) {
	course, err := s.courses.GetCourse(ctx, courseSlug)
	if err != nil {
		return nil, mapCourseErr(err)
	}

	records, err := s.progress.ListProgress(ctx, userID, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	return Analyze(courseSlug, records, course.KeyConceptsByChapter(), s.cfg)
}

// Status reports whether the mentor is unlocked and how far the learner is.
func (s *Service) Status(ctx context.Context, userID int64, courseSlug string) (*models.MentorStatusResponse, error) {
	course, err := s.courses.GetCourse(ctx, courseSlug)
	if err != nil {
		return nil, mapCourseErr(err)
	}

	records, err := s.progress.ListProgress(ctx, userID, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	analysis, err := Analyze(courseSlug, records, course.KeyConceptsByChapter(), s.cfg)
	if err != nil {
		return nil, err
	}

	totalWrong := 0
	for _, rec := range records {
		for _, ans := range rec.Answers {
			if !ans.IsCorrect {
				totalWrong++
			}
		}
	}

	return &models.MentorStatusResponse{
		MentorAvailable:   analysis.MentorAvailable,
		ChaptersCompleted: analysis.TotalChaptersCompleted,
		ChaptersRequired:  s.cfg.ChaptersThreshold,
		AverageScore:      analysis.AverageScore,
		WeakAreasCount:    len(analysis.WeakAreas),
		TotalWrongAnswers: totalWrong,
	}, nil
}

// ComposeGapQuiz returns the gap quiz for the learner's current weak-area
// fingerprint, serving a cached quiz when one exists and composing, storing,
// and returning a new one otherwise. Review questions are the learner's own
// wrong answers reused verbatim; extras are freshly generated. A lost insert
// race is resolved by re-reading the winner, never surfaced to the caller.
func (s *Service) ComposeGapQuiz(ctx context.Context, userID int64, courseSlug string, req models.GenerateGapQuizRequest) (*models.GapQuiz, bool, error) {
	course, err := s.courses.GetCourse(ctx, courseSlug)
	if err != nil {
		return nil, false, mapCourseErr(err)
	}

	records, err := s.progress.ListProgress(ctx, userID, courseSlug)
	if err != nil {
		return nil, false, fmt.Errorf("list progress: %w", err)
	}

	analysis, err := Analyze(courseSlug, records, course.KeyConceptsByChapter(), s.cfg)
	if err != nil {
		return nil, false, err
	}
	if !analysis.MentorAvailable {
		return nil, false, ErrMentorLocked
	}

	key := DeriveWeakAreasKey(analysis.WeakAreas)

	if cached, err := s.cache.LookupGapQuiz(ctx, userID, courseSlug, key, req.IncludeHints); err != nil {
		return nil, false, err
	} else if cached != nil {
		return cached, true, nil
	}

	questions := buildReviewQuestions(analysis.WeakAreas, records, course.KeyConceptsByChapter(), req.IncludeHints)

	// Extras are opt-in, either explicitly or by asking for a positive count;
	// the default gap quiz is pure review with no generation call.
	if req.GenerateExtra || req.MaxExtraQuestions > 0 {
		maxExtra := req.MaxExtraQuestions
		if maxExtra <= 0 {
			maxExtra = DefaultMaxExtraQuestions
		}

		weakConcepts := analysis.AllWeakConcepts()
		extras, err := s.generator.GenerateGapQuestions(ctx, generator.GapQuizRequest{
			CourseTopic:  course.Topic,
			Difficulty:   course.Difficulty,
			WeakConcepts: weakConcepts,
			IncludeHints: req.IncludeHints,
			MaxQuestions: maxExtra,
		})
		if err != nil {
			log.Printf("WARN: gap question generation for course %s failed: %v", courseSlug, err)
			return nil, false, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		if len(extras) == 0 && len(weakConcepts) > 0 {
			return nil, false, ErrGenerationFailed
		}
		if len(extras) > maxExtra {
			extras = extras[:maxExtra]
		}
		questions = append(questions, extras...)
	}

	quiz := &models.GapQuiz{
		UserID:       userID,
		CourseSlug:   courseSlug,
		WeakAreasKey: key,
		IncludeHints: req.IncludeHints,
		Questions:    questions,
	}

	if err := s.cache.StoreGapQuiz(ctx, quiz); err != nil {
		if errors.Is(err, ErrQuizExists) {
			// Another request won the insert race; serve its quiz.
			winner, lookupErr := s.cache.LookupGapQuiz(ctx, userID, courseSlug, key, req.IncludeHints)
			if lookupErr != nil {
				return nil, false, lookupErr
			}
			if winner != nil {
				return winner, true, nil
			}
		}
		return nil, false, err
	}

	return quiz, false, nil
}

// GetGapQuiz fetches a previously composed quiz by id.
func (s *Service) GetGapQuiz(ctx context.Context, userID int64, quizID string) (*models.GapQuiz, error) {
	return s.cache.GetGapQuiz(ctx, userID, quizID)
}

// mapCourseErr folds the course collaborator's not-found into this package's
// sentinel so handlers deal with one error taxonomy.
func mapCourseErr(err error) error {
	if errors.Is(err, courses.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// buildReviewQuestions converts the wrong answers of every weak chapter into
// review questions, verbatim and chapter-ascending. Question ids carry over
// from the original quiz so a learner's history lines up across both.
func buildReviewQuestions(weakAreas []models.WeakArea, records []models.ProgressRecord, conceptsByChapter map[int][]string, includeHints bool) []models.GapQuizQuestion {
	byChapter := make(map[int]models.ProgressRecord, len(records))
	for _, rec := range records {
		byChapter[rec.ChapterNumber] = rec
	}

	var questions []models.GapQuizQuestion
	for _, wa := range weakAreas {
		rec, ok := byChapter[wa.ChapterNumber]
		if !ok {
			continue
		}
		for _, ans := range rec.Answers {
			if ans.IsCorrect {
				continue
			}
			q := models.GapQuizQuestion{
				ID:            ans.QuestionID,
				Type:          ans.QuestionType,
				QuestionText:  ans.QuestionText,
				Options:       ans.Options,
				CorrectAnswer: ans.CorrectAnswer,
				Explanation:   ans.Explanation,
				Source:        models.SourceWrongAnswer,
				SourceChapter: wa.ChapterNumber,
			}
			if matched := matchConcepts(ans.QuestionText, conceptsByChapter[wa.ChapterNumber]); matched[0] != models.GeneralConcept {
				q.TargetConcept = matched[0]
			}
			if includeHints {
				q.Hint = deriveHint(ans.Explanation)
			}
			questions = append(questions, q)
		}
	}
	return questions
}

const (
	maxHintLength = 100
	fallbackHint  = "Review the related concept carefully."
)

// deriveHint turns an explanation into a nudge without giving the answer
// away: the explanation's first sentence, clipped to 100 characters with a
// trailing ellipsis. An empty explanation gets a generic nudge instead.
func deriveHint(explanation string) string {
	explanation = strings.TrimSpace(explanation)
	if explanation == "" {
		return fallbackHint
	}

	end := len(explanation)
	for _, terminator := range []string{". ", "! ", "? "} {
		if idx := strings.Index(explanation, terminator); idx >= 0 && idx+1 < end {
			end = idx + 1
		}
	}
	sentence := explanation[:end]
	if runes := []rune(sentence); len(runes) > maxHintLength {
		sentence = string(runes[:maxHintLength]) + "..."
	}
	return fmt.Sprintf("Think about: %s", sentence)
}
