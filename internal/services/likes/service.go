package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
	ratesvc "github.com/SketchTurnerrr/imago-server/internal/services/rate"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("like not found")
	ErrLikerNotFound = errors.New("liker not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrItemOwnership = errors.New("item does not belong to liked user")
	ErrSelfLike      = errors.New("cannot like own content")
)

const MaxCommentRunes = 500

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type LikeStore interface {
	Insert(ctx context.Context, l model.Like) error
	GetByID(ctx context.Context, likeID string) (model.Like, error)
	DeleteByLikerItem(ctx context.Context, likerID, itemID string) (bool, error)
	ListByLikedUser(ctx context.Context, likedUserID string) ([]model.Like, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (model.User, error)
}

type PhotoStore interface {
	GetByID(ctx context.Context, photoID string) (model.Photo, error)
	FirstByUser(ctx context.Context, userID string) (model.Photo, error)
}

type PromptStore interface {
	GetByID(ctx context.Context, promptID string) (model.Prompt, error)
}

// AddInput describes a like being placed on one piece of a profile,
// either a photo or an answered prompt.
type AddInput struct {
	LikerID     string
	LikedUserID string
	ItemID      string
	ItemType    enums.ItemType
	Comment     string
}

// Liker is the compact sender card shown in the incoming likes list.
type Liker struct {
	User  model.User
	Photo *model.Photo
}

// IncomingLike is one enriched row of the incoming likes overview: the
// like itself, who sent it, and the liked item.
type IncomingLike struct {
	Like   model.Like
	Liker  Liker
	Photo  *model.Photo
	Prompt *model.Prompt
}

type Dependencies struct {
	Likes   LikeStore
	Users   UserStore
	Photos  PhotoStore
	Prompts PromptStore
}

type Service struct {
	likes   LikeStore
	users   UserStore
	photos  PhotoStore
	prompts PromptStore
	limiter *ratesvc.Limiter
	signer  photossvc.URLSigner
	newID   func() string
	now     func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		likes:   deps.Likes,
		users:   deps.Users,
		photos:  deps.Photos,
		prompts: deps.Prompts,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// AttachLimiter enables per-user like throttling. Without it likes are
// unmetered.
func (s *Service) AttachLimiter(limiter *ratesvc.Limiter) {
	s.limiter = limiter
}

func (s *Service) AttachSigner(signer photossvc.URLSigner) {
	s.signer = signer
}

// Add places a like on one item of another user's profile. The item
// must actually belong to the liked user.
func (s *Service) Add(ctx context.Context, input AddInput) (model.Like, error) {
	if input.LikerID == "" || input.LikedUserID == "" || input.ItemID == "" {
		return model.Like{}, ErrValidation
	}
	if input.ItemType != enums.ItemTypePhoto && input.ItemType != enums.ItemTypePrompt {
		return model.Like{}, ErrValidation
	}
	if input.LikerID == input.LikedUserID {
		return model.Like{}, ErrSelfLike
	}
	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentRunes {
		return model.Like{}, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, input.LikerID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.Like{}, ErrLikerNotFound
		}
		return model.Like{}, fmt.Errorf("load liker: %w", err)
	}

	if err := s.checkItemOwnership(ctx, input); err != nil {
		return model.Like{}, err
	}

	if s.limiter != nil {
		retryAfter, allowed, err := s.limiter.AllowLike(ctx, input.LikerID)
		if err != nil {
			return model.Like{}, fmt.Errorf("consume like rate limit: %w", err)
		}
		if !allowed {
			return model.Like{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	like := model.Like{
		ID:          s.newID(),
		LikerID:     input.LikerID,
		LikedUserID: input.LikedUserID,
		ItemID:      input.ItemID,
		ItemType:    input.ItemType,
		Comment:     comment,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.likes.Insert(ctx, like); err != nil {
		return model.Like{}, fmt.Errorf("insert like: %w", err)
	}

	return like, nil
}

func (s *Service) checkItemOwnership(ctx context.Context, input AddInput) error {
	switch input.ItemType {
	case enums.ItemTypePhoto:
		photo, err := s.photos.GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrPhotoNotFound) {
				return ErrValidation
			}
			return fmt.Errorf("load liked photo: %w", err)
		}
		if photo.UserID != input.LikedUserID {
			return ErrItemOwnership
		}
	case enums.ItemTypePrompt:
		prompt, err := s.prompts.GetByID(ctx, input.ItemID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrPromptNotFound) {
				return ErrValidation
			}
			return fmt.Errorf("load liked prompt: %w", err)
		}
		if prompt.UserID != input.LikedUserID {
			return ErrItemOwnership
		}
	}
	return nil
}

// Remove withdraws the caller's like from an item. Removing a like that
// does not exist is a no-op.
func (s *Service) Remove(ctx context.Context, likerID, itemID string) error {
	if likerID == "" || itemID == "" {
		return ErrValidation
	}

	if _, err := s.likes.DeleteByLikerItem(ctx, likerID, itemID); err != nil {
		return fmt.Errorf("remove like: %w", err)
	}

	return nil
}

// ListForUser returns the caller's incoming likes, newest first, each
// enriched with the liker card and the item the like landed on. Rows
// whose liker has disappeared are skipped.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]IncomingLike, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	raw, err := s.likes.ListByLikedUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming likes: %w", err)
	}

	items := make([]IncomingLike, 0, len(raw))
	for _, like := range raw {
		enriched, ok, err := s.enrich(ctx, like)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, enriched)
	}

	return items, nil
}

// GetByID returns one enriched like, used when the receiver opens a
// like to decide whether to match.
func (s *Service) GetByID(ctx context.Context, likeID string) (IncomingLike, error) {
	if likeID == "" {
		return IncomingLike{}, ErrValidation
	}

	like, err := s.likes.GetByID(ctx, likeID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrLikeNotFound) {
			return IncomingLike{}, ErrNotFound
		}
		return IncomingLike{}, fmt.Errorf("load like: %w", err)
	}

	enriched, ok, err := s.enrich(ctx, like)
	if err != nil {
		return IncomingLike{}, err
	}
	if !ok {
		return IncomingLike{}, ErrLikerNotFound
	}

	return enriched, nil
}

func (s *Service) enrich(ctx context.Context, like model.Like) (IncomingLike, bool, error) {
	liker, err := s.users.GetByID(ctx, like.LikerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return IncomingLike{}, false, nil
		}
		return IncomingLike{}, false, fmt.Errorf("load liker: %w", err)
	}

	out := IncomingLike{
		Like:  like,
		Liker: Liker{User: liker},
	}

	photo, err := s.photos.FirstByUser(ctx, like.LikerID)
	if err != nil && !errors.Is(err, pgrepo.ErrPhotoNotFound) {
		return IncomingLike{}, false, fmt.Errorf("load liker photo: %w", err)
	}
	if err == nil {
		url, err := photossvc.DisplayURL(ctx, s.signer, photo.URL)
		if err != nil {
			return IncomingLike{}, false, fmt.Errorf("resolve liker photo url: %w", err)
		}
		photo.URL = url
		out.Liker.Photo = &photo
	}

	switch like.ItemType {
	case enums.ItemTypePhoto:
		item, err := s.photos.GetByID(ctx, like.ItemID)
		if err != nil && !errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return IncomingLike{}, false, fmt.Errorf("load liked photo: %w", err)
		}
		if err == nil {
			url, err := photossvc.DisplayURL(ctx, s.signer, item.URL)
			if err != nil {
				return IncomingLike{}, false, fmt.Errorf("resolve liked photo url: %w", err)
			}
			item.URL = url
			out.Photo = &item
		}
	case enums.ItemTypePrompt:
		item, err := s.prompts.GetByID(ctx, like.ItemID)
		if err != nil && !errors.Is(err, pgrepo.ErrPromptNotFound) {
			return IncomingLike{}, false, fmt.Errorf("load liked prompt: %w", err)
		}
		if err == nil {
			out.Prompt = &item
		}
	}

	return out, true, nil
}
