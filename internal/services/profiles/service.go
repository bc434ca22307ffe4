package profiles

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	"github.com/SketchTurnerrr/imago-server/internal/domain/rules"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("profile not found")
	ErrGenderNotSet = errors.New("gender is not set")
	ErrEmptyPool    = errors.New("no more profiles available")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	UpdateProfile(ctx context.Context, userID string, patch pgrepo.ProfilePatch, newRandomKey float64) (model.User, error)
	FirstAtOrAbove(ctx context.Context, gender enums.Gender, key float64, excludeID string) (model.User, error)
	FirstBelow(ctx context.Context, gender enums.Gender, key float64, excludeID string) (model.User, error)
}

type PhotoStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Photo, error)
}

type PromptStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Prompt, error)
}

// Profile is the aggregate the clients render: the user row plus their
// ordered photos and answered prompts.
type Profile struct {
	User    model.User
	Photos  []model.Photo
	Prompts []model.Prompt
}

// UpdateInput carries the patchable profile fields. Nil fields keep
// their current value.
type UpdateInput struct {
	Name           *string
	DOB            *string
	Gender         *enums.Gender
	Denomination   *string
	Location       *string
	CustomLocation *string
	Onboarded      *bool
	Verified       *bool
}

type Dependencies struct {
	Users   UserStore
	Photos  PhotoStore
	Prompts PromptStore
}

type Service struct {
	users   UserStore
	photos  PhotoStore
	prompts PromptStore
	signer  photossvc.URLSigner
	randKey func() float64
}

func NewService(deps Dependencies) *Service {
	return &Service{
		users:   deps.Users,
		photos:  deps.Photos,
		prompts: deps.Prompts,
		randKey: rand.Float64,
	}
}

func (s *Service) AttachSigner(signer photossvc.URLSigner) {
	s.signer = signer
}

// Me returns the caller's own profile, creating the user row on first
// contact so clients never have to provision accounts explicitly.
func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrValidation
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, fmt.Errorf("load own user: %w", err)
		}

		user, err = s.users.Create(ctx, model.User{
			ID:        userID,
			RandomKey: s.randKey(),
		})
		if err != nil {
			return Profile{}, fmt.Errorf("provision user: %w", err)
		}
	}

	return s.assemble(ctx, user)
}

// Update patches the caller's profile. Every update redraws the random
// sort key, which reshuffles where the profile surfaces in discovery.
func (s *Service) Update(ctx context.Context, userID string, input UpdateInput) (Profile, error) {
	if userID == "" {
		return Profile{}, ErrValidation
	}
	if input.Gender != nil {
		switch *input.Gender {
		case enums.GenderMale, enums.GenderFemale:
		default:
			return Profile{}, ErrValidation
		}
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return Profile{}, ErrValidation
	}

	user, err := s.users.UpdateProfile(ctx, userID, pgrepo.ProfilePatch{
		Name:           input.Name,
		DOB:            input.DOB,
		Gender:         input.Gender,
		Denomination:   input.Denomination,
		Location:       input.Location,
		CustomLocation: input.CustomLocation,
		Onboarded:      input.Onboarded,
		Verified:       input.Verified,
	}, s.randKey())
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}

	return s.assemble(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, profileID string) (Profile, error) {
	if profileID == "" {
		return Profile{}, ErrValidation
	}

	user, err := s.users.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}

	return s.assemble(ctx, user)
}

// GetRandom picks the viewer's next discovery candidate. A fresh random
// pivot is drawn, then the candidate pool is scanned upward from the
// pivot and wraps around to the bottom when nothing sits above it.
func (s *Service) GetRandom(ctx context.Context, viewerID string) (Profile, error) {
	if viewerID == "" {
		return Profile{}, ErrValidation
	}

	viewer, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("load viewer: %w", err)
	}

	targetGender, ok := rules.OppositeGender(viewer.Gender)
	if !ok {
		return Profile{}, ErrGenderNotSet
	}

	pivot := s.randKey()

	candidate, err := s.users.FirstAtOrAbove(ctx, targetGender, pivot, viewerID)
	if err != nil {
		if !errors.Is(err, pgrepo.ErrUserNotFound) {
			return Profile{}, fmt.Errorf("scan candidates above pivot: %w", err)
		}
		candidate, err = s.users.FirstBelow(ctx, targetGender, pivot, viewerID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrUserNotFound) {
				return Profile{}, ErrEmptyPool
			}
			return Profile{}, fmt.Errorf("scan candidates below pivot: %w", err)
		}
	}

	return s.assemble(ctx, candidate)
}

func (s *Service) assemble(ctx context.Context, user model.User) (Profile, error) {
	photos, err := s.photos.ListByUser(ctx, user.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile photos: %w", err)
	}
	for i := range photos {
		url, err := photossvc.DisplayURL(ctx, s.signer, photos[i].URL)
		if err != nil {
			return Profile{}, fmt.Errorf("resolve photo url: %w", err)
		}
		photos[i].URL = url
	}

	prompts, err := s.prompts.ListByUser(ctx, user.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("load profile prompts: %w", err)
	}

	return Profile{
		User:    user,
		Photos:  photos,
		Prompts: prompts,
	}, nil
}
