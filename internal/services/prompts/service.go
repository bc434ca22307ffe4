package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	"github.com/SketchTurnerrr/imago-server/internal/domain/rules"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("prompt not found")
	ErrNotOwner        = errors.New("prompt belongs to another user")
	ErrUnknownQuestion = errors.New("question is not in the catalog")
	ErrLimitReached    = errors.New("prompt limit reached")
)

type PromptStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Prompt, error)
	GetByID(ctx context.Context, promptID string) (model.Prompt, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Insert(ctx context.Context, p model.Prompt) error
	Delete(ctx context.Context, promptID string) (bool, error)
}

type Service struct {
	prompts PromptStore
	newID   func() string
	now     func() time.Time
}

func NewService(prompts PromptStore) *Service {
	return &Service{
		prompts: prompts,
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Questions exposes the fixed catalog clients choose from.
func (s *Service) Questions() []string {
	return rules.PromptQuestions()
}

func (s *Service) ListOwn(ctx context.Context, userID string) ([]model.Prompt, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	items, err := s.prompts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own prompts: %w", err)
	}

	return items, nil
}

// Create answers one catalog question, capped per profile.
func (s *Service) Create(ctx context.Context, userID, question, answer string) (model.Prompt, error) {
	if userID == "" {
		return model.Prompt{}, ErrValidation
	}
	answer = strings.TrimSpace(answer)
	if answer == "" || utf8.RuneCountInString(answer) > rules.MaxPromptAnswerRunes {
		return model.Prompt{}, ErrValidation
	}
	if !rules.IsPromptQuestion(question) {
		return model.Prompt{}, ErrUnknownQuestion
	}

	count, err := s.prompts.CountByUser(ctx, userID)
	if err != nil {
		return model.Prompt{}, fmt.Errorf("count prompts: %w", err)
	}
	if count >= rules.MaxPromptsPerUser {
		return model.Prompt{}, ErrLimitReached
	}

	prompt := model.Prompt{
		ID:        s.newID(),
		UserID:    userID,
		Question:  question,
		Answer:    answer,
		CreatedAt: s.now().UTC(),
	}

	if err := s.prompts.Insert(ctx, prompt); err != nil {
		return model.Prompt{}, fmt.Errorf("insert prompt: %w", err)
	}

	return prompt, nil
}

func (s *Service) Delete(ctx context.Context, userID, promptID string) error {
	if userID == "" || promptID == "" {
		return ErrValidation
	}

	prompt, err := s.prompts.GetByID(ctx, promptID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPromptNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load prompt: %w", err)
	}
	if prompt.UserID != userID {
		return ErrNotOwner
	}

	if _, err := s.prompts.Delete(ctx, promptID); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	return nil
}
