package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/learnpath/backend/internal/models"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertProgress stores a graded chapter result. Resubmitting a chapter
// replaces the previous attempt.
func (s *Store) UpsertProgress(ctx context.Context, rec *models.ProgressRecord) error {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	err = s.db.QueryRowContext(ctx,
		`INSERT INTO user_progress
		 (user_id, course_slug, chapter_number, chapter_title, answers, score,
		  total_questions, correct_answers, completed, completed_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		 ON CONFLICT (user_id, course_slug, chapter_number)
		 DO UPDATE SET chapter_title = $4, answers = $5, score = $6,
		               total_questions = $7, correct_answers = $8, completed = $9,
		               completed_at = NOW(), updated_at = NOW()
		 RETURNING started_at, updated_at`,
		rec.UserID, rec.CourseSlug, rec.ChapterNumber, rec.ChapterTitle, answersJSON,
		rec.Score, rec.TotalQuestions, rec.CorrectAnswers, rec.Completed,
	).Scan(&rec.StartedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

// ListProgress returns all progress records for a user and course, in chapter
// order.
func (s *Store) ListProgress(ctx context.Context, userID int64, courseSlug string) ([]models.ProgressRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, course_slug, chapter_number, chapter_title, answers, score,
		        total_questions, correct_answers, completed, started_at, completed_at, updated_at
		 FROM user_progress
		 WHERE user_id = $1 AND course_slug = $2
		 ORDER BY chapter_number`,
		userID, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var records []models.ProgressRecord
	for rows.Next() {
		var rec models.ProgressRecord
		var answersJSON []byte
		if err := rows.Scan(&rec.UserID, &rec.CourseSlug, &rec.ChapterNumber, &rec.ChapterTitle,
			&answersJSON, &rec.Score, &rec.TotalQuestions, &rec.CorrectAnswers,
			&rec.Completed, &rec.StartedAt, &rec.CompletedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		if err := json.Unmarshal(answersJSON, &rec.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetProgress returns one chapter's record, or ErrNotFound.
func (s *Store) GetProgress(ctx context.Context, userID int64, courseSlug string, chapterNumber int) (*models.ProgressRecord, error) {
	var rec models.ProgressRecord
	var answersJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, course_slug, chapter_number, chapter_title, answers, score,
		        total_questions, correct_answers, completed, started_at, completed_at, updated_at
		 FROM user_progress
		 WHERE user_id = $1 AND course_slug = $2 AND chapter_number = $3`,
		userID, courseSlug, chapterNumber,
	).Scan(&rec.UserID, &rec.CourseSlug, &rec.ChapterNumber, &rec.ChapterTitle,
		&answersJSON, &rec.Score, &rec.TotalQuestions, &rec.CorrectAnswers,
		&rec.Completed, &rec.StartedAt, &rec.CompletedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if err := json.Unmarshal(answersJSON, &rec.Answers); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	return &rec, nil
}
