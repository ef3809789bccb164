package courses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/learnpath/backend/internal/models"
)

// ErrNotFound means the requested course or quiz does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateCourse inserts a course and its chapters in one transaction.
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(
		`INSERT INTO courses (slug, topic, original_topic, difficulty, provider)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		course.Slug, course.Topic, course.OriginalTopic, course.Difficulty, course.Provider,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}

	for _, ch := range course.Chapters {
		conceptsJSON, err := json.Marshal(ch.KeyConcepts)
		if err != nil {
			return fmt.Errorf("marshal key concepts: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO chapters (course_id, number, title, summary, key_concepts, difficulty)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			course.ID, ch.Number, ch.Title, ch.Summary, conceptsJSON, ch.Difficulty,
		)
		if err != nil {
			return fmt.Errorf("insert chapter %d: %w", ch.Number, err)
		}
	}

	return tx.Commit()
}

// GetCourse fetches a course with its chapters by slug.
func (s *Store) GetCourse(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, topic, original_topic, difficulty, provider, created_at, updated_at
		 FROM courses WHERE slug = $1`,
		slug,
	).Scan(&course.ID, &course.Slug, &course.Topic, &course.OriginalTopic,
		&course.Difficulty, &course.Provider, &course.CreatedAt, &course.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	chapters, err := s.getChapters(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	course.Chapters = chapters

	return &course, nil
}

// FindCourseByTopic looks up a course by its normalized topic and difficulty.
func (s *Store) FindCourseByTopic(ctx context.Context, topic string, difficulty models.Difficulty) (*models.Course, error) {
	var slug string
	err := s.db.QueryRowContext(ctx,
		`SELECT slug FROM courses WHERE topic = $1 AND difficulty = $2`,
		topic, difficulty,
	).Scan(&slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find course by topic: %w", err)
	}
	return s.GetCourse(ctx, slug)
}

// ListCourses returns all courses, newest first, without chapters.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, topic, original_topic, difficulty, provider, created_at, updated_at
		 FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Slug, &c.Topic, &c.OriginalTopic,
			&c.Difficulty, &c.Provider, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *Store) getChapters(ctx context.Context, courseID int64) ([]models.Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT number, title, summary, key_concepts, difficulty
		 FROM chapters WHERE course_id = $1 ORDER BY number`,
		courseID)
	if err != nil {
		return nil, fmt.Errorf("get chapters: %w", err)
	}
	defer rows.Close()

	var chapters []models.Chapter
	for rows.Next() {
		var ch models.Chapter
		var conceptsJSON []byte
		if err := rows.Scan(&ch.Number, &ch.Title, &ch.Summary, &conceptsJSON, &ch.Difficulty); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		if err := json.Unmarshal(conceptsJSON, &ch.KeyConcepts); err != nil {
			return nil, fmt.Errorf("unmarshal key concepts: %w", err)
		}
		chapters = append(chapters, ch)
	}
	return chapters, rows.Err()
}

// GetChapterQuiz returns the stored quiz for a chapter, or (nil, nil) when
// none has been generated yet.
func (s *Store) GetChapterQuiz(ctx context.Context, courseSlug string, chapterNumber int) (*models.ChapterQuiz, error) {
	var quiz models.ChapterQuiz
	var questionsJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, course_slug, chapter_number, questions, provider, created_at
		 FROM chapter_quizzes WHERE course_slug = $1 AND chapter_number = $2`,
		courseSlug, chapterNumber,
	).Scan(&quiz.ID, &quiz.CourseSlug, &quiz.ChapterNumber, &questionsJSON,
		&quiz.Provider, &quiz.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chapter quiz: %w", err)
	}

	if err := json.Unmarshal(questionsJSON, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal quiz questions: %w", err)
	}
	return &quiz, nil
}

// SaveChapterQuiz stores a freshly generated quiz. A concurrent save for the
// same chapter keeps the first writer's quiz.
func (s *Store) SaveChapterQuiz(ctx context.Context, quiz *models.ChapterQuiz) error {
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal quiz questions: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO chapter_quizzes (course_slug, chapter_number, questions, provider)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (course_slug, chapter_number) DO NOTHING
		 RETURNING id, created_at`,
		quiz.CourseSlug, quiz.ChapterNumber, questionsJSON, quiz.Provider,
	).Scan(&quiz.ID, &quiz.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Lost the race; the stored quiz wins.
		return nil
	}
	if err != nil {
		return fmt.Errorf("save chapter quiz: %w", err)
	}
	return nil
}
