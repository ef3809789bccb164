package mentor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/learnpath/backend/internal/models"
)

// Store persists gap quizzes. The table's uniqueness constraint on
// (user_id, course_slug, weak_areas_key, include_hints) is what enforces
// at-most-one quiz per cache key; StoreGapQuiz surfaces a violation as
// ErrQuizExists so callers can fall back to a lookup.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// LookupGapQuiz returns the cached quiz for the key, or (nil, nil) when none
// exists.
func (s *Store) LookupGapQuiz(ctx context.Context, userID int64, courseSlug, weakAreasKey string, includeHints bool) (*models.GapQuiz, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, course_slug, weak_areas_key, include_hints, questions, created_at
		FROM gap_quizzes
		WHERE user_id = $1 AND course_slug = $2 AND weak_areas_key = $3 AND include_hints = $4`,
		userID, courseSlug, weakAreasKey, includeHints)

	quiz, err := scanGapQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup gap quiz: %w", err)
	}
	return quiz, nil
}

// StoreGapQuiz inserts a new quiz, assigning its id and created_at. A
// concurrent insert for the same key returns ErrQuizExists.
func (s *Store) StoreGapQuiz(ctx context.Context, quiz *models.GapQuiz) error {
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal gap quiz questions: %w", err)
	}

	quiz.ID = uuid.NewString()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO gap_quizzes (id, user_id, course_slug, weak_areas_key, include_hints, questions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		quiz.ID, quiz.UserID, quiz.CourseSlug, quiz.WeakAreasKey, quiz.IncludeHints, questionsJSON,
	).Scan(&quiz.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrQuizExists
		}
		return fmt.Errorf("store gap quiz: %w", err)
	}
	return nil
}

// GetGapQuiz fetches a quiz by id, scoped to its owner.
func (s *Store) GetGapQuiz(ctx context.Context, userID int64, quizID string) (*models.GapQuiz, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, course_slug, weak_areas_key, include_hints, questions, created_at
		FROM gap_quizzes
		WHERE id = $1 AND user_id = $2`,
		quizID, userID)

	quiz, err := scanGapQuiz(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get gap quiz: %w", err)
	}
	return quiz, nil
}

func scanGapQuiz(row *sql.Row) (*models.GapQuiz, error) {
	var quiz models.GapQuiz
	var questionsJSON []byte
	err := row.Scan(&quiz.ID, &quiz.UserID, &quiz.CourseSlug, &quiz.WeakAreasKey,
		&quiz.IncludeHints, &questionsJSON, &quiz.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionsJSON, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal gap quiz questions: %w", err)
	}
	return &quiz, nil
}
