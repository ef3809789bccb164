package courses

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/learnpath/backend/internal/generator"
	"github.com/learnpath/backend/internal/models"
)

const (
	defaultChapterCount = 5
	defaultMCQCount     = 4
	defaultTFCount      = 2
)

// Service generates and serves courses and their chapter quizzes. Generation
// is keyed by normalized topic + difficulty, so the same topic asked twice
// returns the stored course instead of a second generation.
type Service struct {
	store     *Store
	generator *generator.Generator
}

func NewService(store *Store, gen *generator.Generator) *Service {
	return &Service{store: store, generator: gen}
}

// GenerateCourse returns the existing course for a topic and difficulty, or
// generates a new one.
func (s *Service) GenerateCourse(ctx context.Context, req models.GenerateCourseRequest) (*models.Course, bool, error) {
	topic := normalizeTopic(req.Topic)
	if topic == "" {
		return nil, false, fmt.Errorf("topic is required")
	}
	if !models.ValidDifficulties[req.Difficulty] {
		return nil, false, fmt.Errorf("invalid difficulty %q", req.Difficulty)
	}

	if existing, err := s.store.FindCourseByTopic(ctx, topic, req.Difficulty); err == nil {
		return existing, true, nil
	} else if err != ErrNotFound {
		return nil, false, err
	}

	chapters, err := s.generator.GenerateChapters(ctx, req.Topic, req.Difficulty, defaultChapterCount)
	if err != nil {
		return nil, false, fmt.Errorf("generate course: %w", err)
	}

	course := &models.Course{
		Slug:          buildSlug(topic, req.Difficulty),
		Topic:         topic,
		OriginalTopic: strings.TrimSpace(req.Topic),
		Difficulty:    req.Difficulty,
		Provider:      s.generator.ModelName(),
		Chapters:      chapters,
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, false, err
	}

	log.Printf("[courses] generated %q (%s) with %d chapters", topic, req.Difficulty, len(chapters))
	return course, false, nil
}

// GetCourse fetches a course by slug.
func (s *Service) GetCourse(ctx context.Context, slug string) (*models.Course, error) {
	return s.store.GetCourse(ctx, slug)
}

// ListCourses returns all courses without chapter detail.
func (s *Service) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.store.ListCourses(ctx)
}

// GetOrGenerateChapterQuiz serves the stored quiz for a chapter, generating
// and storing one on first request.
func (s *Service) GetOrGenerateChapterQuiz(ctx context.Context, courseSlug string, chapterNumber int) (*models.ChapterQuiz, error) {
	quiz, err := s.store.GetChapterQuiz(ctx, courseSlug, chapterNumber)
	if err != nil {
		return nil, err
	}
	if quiz != nil {
		return quiz, nil
	}

	course, err := s.store.GetCourse(ctx, courseSlug)
	if err != nil {
		return nil, err
	}

	var chapter *models.Chapter
	for i := range course.Chapters {
		if course.Chapters[i].Number == chapterNumber {
			chapter = &course.Chapters[i]
			break
		}
	}
	if chapter == nil {
		return nil, ErrNotFound
	}

	questions, err := s.generator.GenerateChapterQuiz(ctx, course.Topic, course.Difficulty,
		*chapter, defaultMCQCount, defaultTFCount)
	if err != nil {
		return nil, fmt.Errorf("generate chapter quiz: %w", err)
	}

	quiz = &models.ChapterQuiz{
		CourseSlug:    courseSlug,
		ChapterNumber: chapterNumber,
		Questions:     questions,
		Provider:      s.generator.ModelName(),
	}
	if err := s.store.SaveChapterQuiz(ctx, quiz); err != nil {
		return nil, err
	}

	// Serve whatever the store holds, in case a concurrent request won.
	stored, err := s.store.GetChapterQuiz(ctx, courseSlug, chapterNumber)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}
	return quiz, nil
}

// normalizeTopic canonicalizes a topic for dedupe: lowercase, single spaces.
func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}

// buildSlug produces "topic-difficulty-suffix" with a short random suffix so
// slugs stay unique even if a topic is re-created after deletion.
func buildSlug(topic string, difficulty models.Difficulty) string {
	slugTopic := strings.ReplaceAll(topic, " ", "-")
	suffix := uuid.NewString()[:6]
	return fmt.Sprintf("%s-%s-%s", slugTopic, difficulty, suffix)
}
