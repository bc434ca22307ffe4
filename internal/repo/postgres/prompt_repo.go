package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

var ErrPromptNotFound = errors.New("prompt not found")

type PromptRepo struct {
	pool *pgxpool.Pool
}

func NewPromptRepo(pool *pgxpool.Pool) *PromptRepo {
	return &PromptRepo{pool: pool}
}

func (r *PromptRepo) ListByUser(ctx context.Context, userID string) ([]model.Prompt, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, question, answer, created_at
FROM prompts
WHERE user_id = $1
ORDER BY created_at ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	items := make([]model.Prompt, 0, 3)
	for rows.Next() {
		var p model.Prompt
		if err := rows.Scan(&p.ID, &p.UserID, &p.Question, &p.Answer, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate prompts: %w", rows.Err())
	}

	return items, nil
}

func (r *PromptRepo) GetByID(ctx context.Context, promptID string) (model.Prompt, error) {
	if promptID == "" {
		return model.Prompt{}, fmt.Errorf("invalid prompt id")
	}

	var p model.Prompt
	err := r.pool.QueryRow(ctx, `
SELECT id, user_id, question, answer, created_at
FROM prompts
WHERE id = $1
`, promptID).Scan(&p.ID, &p.UserID, &p.Question, &p.Answer, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Prompt{}, ErrPromptNotFound
		}
		return model.Prompt{}, fmt.Errorf("get prompt: %w", err)
	}

	return p, nil
}

func (r *PromptRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*)
FROM prompts
WHERE user_id = $1
`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count prompts: %w", err)
	}

	return count, nil
}

func (r *PromptRepo) Insert(ctx context.Context, p model.Prompt) error {
	if p.ID == "" || p.UserID == "" || p.Question == "" {
		return fmt.Errorf("invalid prompt payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO prompts (
	id,
	user_id,
	question,
	answer,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, p.ID, p.UserID, p.Question, p.Answer); err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}

	return nil
}

func (r *PromptRepo) Delete(ctx context.Context, promptID string) (bool, error) {
	if promptID == "" {
		return false, fmt.Errorf("invalid prompt id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM prompts
WHERE id = $1
`, promptID)
	if err != nil {
		return false, fmt.Errorf("delete prompt: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
