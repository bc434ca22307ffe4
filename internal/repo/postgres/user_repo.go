package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// ProfilePatch carries the updatable profile fields. Nil fields are
// left untouched.
type ProfilePatch struct {
	Name           *string
	DOB            *string
	Gender         *enums.Gender
	Denomination   *string
	Location       *string
	CustomLocation *string
	Onboarded      *bool
	Verified       *bool
}

const userColumns = `
	id,
	name,
	dob,
	gender,
	denomination,
	location,
	custom_location,
	onboarded,
	verified,
	random_key,
	created_at,
	updated_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.DOB,
		&u.Gender,
		&u.Denomination,
		&u.Location,
		&u.CustomLocation,
		&u.Onboarded,
		&u.Verified,
		&u.RandomKey,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *UserRepo) GetByID(ctx context.Context, userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("invalid user id")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE id = $1
`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// Create inserts the user row and returns it as stored, so callers see
// the database-stamped timestamps rather than zero values.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		return model.User{}, fmt.Errorf("invalid user payload")
	}

	created, err := scanUser(r.pool.QueryRow(ctx, `
INSERT INTO users (
	id,
	name,
	dob,
	gender,
	denomination,
	location,
	custom_location,
	onboarded,
	verified,
	random_key,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
RETURNING`+userColumns+`
`, u.ID, u.Name, u.DOB, u.Gender, u.Denomination, u.Location, u.CustomLocation,
		u.Onboarded, u.Verified, u.RandomKey))
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}

	return created, nil
}

// UpdateProfile patches the non-nil fields and redraws the user's
// random sort key so repeated updates reshuffle their feed position.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch, newRandomKey float64) (model.User, error) {
	if userID == "" {
		return model.User{}, fmt.Errorf("invalid user id")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
UPDATE users SET
	name = COALESCE($2, name),
	dob = COALESCE($3, dob),
	gender = COALESCE($4, gender),
	denomination = COALESCE($5, denomination),
	location = COALESCE($6, location),
	custom_location = COALESCE($7, custom_location),
	onboarded = COALESCE($8, onboarded),
	verified = COALESCE($9, verified),
	random_key = $10,
	updated_at = NOW()
WHERE id = $1
RETURNING`+userColumns+`
`, userID, patch.Name, patch.DOB, patch.Gender, patch.Denomination,
		patch.Location, patch.CustomLocation, patch.Onboarded, patch.Verified,
		newRandomKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("update user profile: %w", err)
	}

	return u, nil
}

// FirstAtOrAbove returns the onboarded candidate of the given gender
// whose random key is the smallest one at or above key, skipping
// excludeID.
func (r *UserRepo) FirstAtOrAbove(ctx context.Context, gender enums.Gender, key float64, excludeID string) (model.User, error) {
	if gender == "" {
		return model.User{}, fmt.Errorf("gender is required")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE gender = $1 AND onboarded AND random_key >= $2 AND id <> $3
ORDER BY random_key ASC
LIMIT 1
`, gender, key, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get candidate at or above key: %w", err)
	}

	return u, nil
}

// FirstBelow is the wrap-around half of the candidate scan: the
// candidate with the largest random key strictly below key.
func (r *UserRepo) FirstBelow(ctx context.Context, gender enums.Gender, key float64, excludeID string) (model.User, error) {
	if gender == "" {
		return model.User{}, fmt.Errorf("gender is required")
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `
SELECT`+userColumns+`
FROM users
WHERE gender = $1 AND onboarded AND random_key < $2 AND id <> $3
ORDER BY random_key DESC
LIMIT 1
`, gender, key, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get candidate below key: %w", err)
	}

	return u, nil
}
