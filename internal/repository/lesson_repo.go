package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"smartlens-backend/internal/models"
)

// LessonRepo persists generated lessons per session so the history list
// survives page reloads (scores do not; see internal/session).
type LessonRepo struct {
	pool *pgxpool.Pool
}

func NewLessonRepo(pool *pgxpool.Pool) *LessonRepo {
	return &LessonRepo{pool: pool}
}

func (r *LessonRepo) Create(ctx context.Context, sessionID uuid.UUID, lesson *models.Lesson) error {
	payload, err := json.Marshal(lesson)
	if err != nil {
		return fmt.Errorf("failed to encode lesson: %w", err)
	}

	query := `INSERT INTO lessons (id, session_id, title, lesson_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.pool.Exec(ctx, query, lesson.ID, sessionID, lesson.Title, payload, lesson.CreatedAt)
	return err
}

func (r *LessonRepo) GetByID(ctx context.Context, sessionID, id uuid.UUID) (*models.Lesson, error) {
	var payload []byte
	query := `SELECT lesson_json FROM lessons WHERE id = $1 AND session_id = $2`

	if err := r.pool.QueryRow(ctx, query, id, sessionID).Scan(&payload); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{}
	if err := json.Unmarshal(payload, lesson); err != nil {
		return nil, fmt.Errorf("failed to decode stored lesson: %w", err)
	}
	return lesson, nil
}

func (r *LessonRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.LessonSummary, error) {
	query := `SELECT id, title, created_at FROM lessons
		WHERE session_id = $1 ORDER BY created_at DESC LIMIT 50`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.LessonSummary
	for rows.Next() {
		var s models.LessonSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
