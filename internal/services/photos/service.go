package photos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("photo not found")
	ErrNotOwner   = errors.New("photo belongs to another user")
)

const MaxPhotosPerUser = 6

// URLSigner hands out short-lived GET URLs for stored object keys.
type URLSigner interface {
	PresignGet(ctx context.Context, objectKey string) (string, error)
}

type PhotoStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Photo, error)
	GetByID(ctx context.Context, photoID string) (model.Photo, error)
	Insert(ctx context.Context, p model.Photo) error
	Delete(ctx context.Context, photoID string) (bool, error)
	UpdateOrder(ctx context.Context, tx pgx.Tx, photoID string, displayOrder int) error
}

type Service struct {
	photos PhotoStore
	signer URLSigner
	runTx  func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	newID  func() string
	now    func() time.Time
}

type Dependencies struct {
	Photos PhotoStore
	RunTx  func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

func NewService(deps Dependencies) *Service {
	return &Service{
		photos: deps.Photos,
		runTx:  deps.RunTx,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// AttachSigner enables presigned display URLs. Without a signer, stored
// object keys are returned as-is.
func (s *Service) AttachSigner(signer URLSigner) {
	s.signer = signer
}

// DisplayURL resolves a stored photo reference into something a client
// can fetch. Absolute URLs pass through untouched, bare object keys get
// presigned.
func DisplayURL(ctx context.Context, signer URLSigner, stored string) (string, error) {
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored, nil
	}
	if signer == nil {
		return stored, nil
	}
	return signer.PresignGet(ctx, stored)
}

func (s *Service) ListOwn(ctx context.Context, userID string) ([]model.Photo, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	items, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own photos: %w", err)
	}

	for i := range items {
		url, err := DisplayURL(ctx, s.signer, items[i].URL)
		if err != nil {
			return nil, fmt.Errorf("resolve photo url: %w", err)
		}
		items[i].URL = url
	}

	return items, nil
}

func (s *Service) Add(ctx context.Context, userID, url string) (model.Photo, error) {
	if userID == "" || strings.TrimSpace(url) == "" {
		return model.Photo{}, ErrValidation
	}

	existing, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return model.Photo{}, fmt.Errorf("count existing photos: %w", err)
	}
	if len(existing) >= MaxPhotosPerUser {
		return model.Photo{}, ErrValidation
	}

	photo := model.Photo{
		ID:           s.newID(),
		UserID:       userID,
		URL:          strings.TrimSpace(url),
		DisplayOrder: len(existing),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.photos.Insert(ctx, photo); err != nil {
		return model.Photo{}, fmt.Errorf("add photo: %w", err)
	}

	return photo, nil
}

func (s *Service) Remove(ctx context.Context, userID, photoID string) error {
	if userID == "" || photoID == "" {
		return ErrValidation
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load photo: %w", err)
	}
	if photo.UserID != userID {
		return ErrNotOwner
	}

	if _, err := s.photos.Delete(ctx, photoID); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}

	return nil
}

// Reorder applies a full ordering of the user's photos in one
// transaction. Every photo id must belong to the caller.
func (s *Service) Reorder(ctx context.Context, userID string, photoIDs []string) error {
	if userID == "" || len(photoIDs) == 0 {
		return ErrValidation
	}
	if s.runTx == nil {
		return fmt.Errorf("transaction runner is not configured")
	}

	existing, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("list photos for reorder: %w", err)
	}

	owned := make(map[string]bool, len(existing))
	for _, p := range existing {
		owned[p.ID] = true
	}
	seen := make(map[string]bool, len(photoIDs))
	for _, id := range photoIDs {
		if !owned[id] || seen[id] {
			return ErrValidation
		}
		seen[id] = true
	}
	if len(photoIDs) != len(existing) {
		return ErrValidation
	}

	return s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i, id := range photoIDs {
			if err := s.photos.UpdateOrder(ctx, tx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
}
