package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

var ErrLikeNotFound = errors.New("like not found")

type LikeRepo struct {
	pool *pgxpool.Pool
}

func NewLikeRepo(pool *pgxpool.Pool) *LikeRepo {
	return &LikeRepo{pool: pool}
}

const likeColumns = `
	id,
	liker_id,
	liked_user_id,
	item_id,
	item_type,
	comment,
	created_at`

func scanLike(row pgx.Row) (model.Like, error) {
	var l model.Like
	err := row.Scan(
		&l.ID,
		&l.LikerID,
		&l.LikedUserID,
		&l.ItemID,
		&l.ItemType,
		&l.Comment,
		&l.CreatedAt,
	)
	return l, err
}

func (r *LikeRepo) Insert(ctx context.Context, l model.Like) error {
	if l.ID == "" || l.LikerID == "" || l.LikedUserID == "" || l.ItemID == "" {
		return fmt.Errorf("invalid like payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO likes (
	id,
	liker_id,
	liked_user_id,
	item_id,
	item_type,
	comment,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
`, l.ID, l.LikerID, l.LikedUserID, l.ItemID, l.ItemType, l.Comment); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

func (r *LikeRepo) GetByID(ctx context.Context, likeID string) (model.Like, error) {
	if likeID == "" {
		return model.Like{}, fmt.Errorf("invalid like id")
	}

	l, err := scanLike(r.pool.QueryRow(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE id = $1
`, likeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Like{}, ErrLikeNotFound
		}
		return model.Like{}, fmt.Errorf("get like: %w", err)
	}

	return l, nil
}

// DeleteByLikerItem removes the like a user placed on a specific item.
// Missing rows are not an error, unliking is idempotent.
func (r *LikeRepo) DeleteByLikerItem(ctx context.Context, likerID, itemID string) (bool, error) {
	if likerID == "" || itemID == "" {
		return false, fmt.Errorf("invalid like delete payload")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM likes
WHERE liker_id = $1 AND item_id = $2
`, likerID, itemID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteDanglingOlderThan removes likes whose photo or prompt has been
// deleted since. Items carry no foreign key, so these rows linger until
// a cleanup pass collects them.
func (r *LikeRepo) DeleteDanglingOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx, `
DELETE FROM likes l
WHERE l.created_at < $1
  AND (
	(l.item_type = 'photo' AND NOT EXISTS (SELECT 1 FROM photos p WHERE p.id = l.item_id))
	OR
	(l.item_type = 'prompt' AND NOT EXISTS (SELECT 1 FROM prompts p WHERE p.id = l.item_id))
  )
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete dangling likes: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *LikeRepo) ListByLikedUser(ctx context.Context, likedUserID string) ([]model.Like, error) {
	if likedUserID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+likeColumns+`
FROM likes
WHERE liked_user_id = $1
ORDER BY created_at DESC, id DESC
`, likedUserID)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Like, 0, 16)
	for rows.Next() {
		l, err := scanLike(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incoming like: %w", err)
		}
		items = append(items, l)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate incoming likes: %w", rows.Err())
	}

	return items, nil
}
