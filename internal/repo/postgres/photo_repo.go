package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepo struct {
	pool *pgxpool.Pool
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

const photoColumns = `
	id,
	user_id,
	url,
	display_order,
	created_at`

func scanPhoto(row pgx.Row) (model.Photo, error) {
	var p model.Photo
	err := row.Scan(&p.ID, &p.UserID, &p.URL, &p.DisplayOrder, &p.CreatedAt)
	return p, err
}

func (r *PhotoRepo) ListByUser(ctx context.Context, userID string) ([]model.Photo, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT`+photoColumns+`
FROM photos
WHERE user_id = $1
ORDER BY display_order ASC, created_at ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	items := make([]model.Photo, 0, 6)
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		items = append(items, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate photos: %w", rows.Err())
	}

	return items, nil
}

// FirstByUser returns the user's primary photo, the one shown on cards
// and in like overviews.
func (r *PhotoRepo) FirstByUser(ctx context.Context, userID string) (model.Photo, error) {
	if userID == "" {
		return model.Photo{}, fmt.Errorf("invalid user id")
	}

	p, err := scanPhoto(r.pool.QueryRow(ctx, `
SELECT`+photoColumns+`
FROM photos
WHERE user_id = $1
ORDER BY display_order ASC, created_at ASC
LIMIT 1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Photo{}, ErrPhotoNotFound
		}
		return model.Photo{}, fmt.Errorf("get first photo: %w", err)
	}

	return p, nil
}

func (r *PhotoRepo) GetByID(ctx context.Context, photoID string) (model.Photo, error) {
	if photoID == "" {
		return model.Photo{}, fmt.Errorf("invalid photo id")
	}

	p, err := scanPhoto(r.pool.QueryRow(ctx, `
SELECT`+photoColumns+`
FROM photos
WHERE id = $1
`, photoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Photo{}, ErrPhotoNotFound
		}
		return model.Photo{}, fmt.Errorf("get photo: %w", err)
	}

	return p, nil
}

func (r *PhotoRepo) Insert(ctx context.Context, p model.Photo) error {
	if p.ID == "" || p.UserID == "" || p.URL == "" {
		return fmt.Errorf("invalid photo payload")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO photos (
	id,
	user_id,
	url,
	display_order,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
`, p.ID, p.UserID, p.URL, p.DisplayOrder); err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}

	return nil
}

func (r *PhotoRepo) Delete(ctx context.Context, photoID string) (bool, error) {
	if photoID == "" {
		return false, fmt.Errorf("invalid photo id")
	}

	result, err := r.pool.Exec(ctx, `
DELETE FROM photos
WHERE id = $1
`, photoID)
	if err != nil {
		return false, fmt.Errorf("delete photo: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// UpdateOrder sets one photo's display position. Reordering several
// photos runs each update inside the same transaction.
func (r *PhotoRepo) UpdateOrder(ctx context.Context, tx pgx.Tx, photoID string, displayOrder int) error {
	if photoID == "" {
		return fmt.Errorf("invalid photo id")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
UPDATE photos SET display_order = $2
WHERE id = $1
`, photoID, displayOrder); err != nil {
		return fmt.Errorf("update photo order: %w", err)
	}

	return nil
}
