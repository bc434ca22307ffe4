package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

type MatchRepo struct {
	pool *pgxpool.Pool
}

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

// Insert runs inside the match-creation transaction so that the match
// and its conversation land atomically.
func (r *MatchRepo) Insert(ctx context.Context, tx pgx.Tx, m model.Match) error {
	if m.ID == "" || m.InitiatorID == "" || m.ReceiverID == "" || m.LikeID == "" {
		return fmt.Errorf("invalid match payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO matches (
	id,
	initiator_id,
	receiver_id,
	like_id,
	comment,
	status,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
`, m.ID, m.InitiatorID, m.ReceiverID, m.LikeID, m.Comment, m.Status); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}
