package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrLikeNotFound     = errors.New("like not found")
	ErrSelfMatch        = errors.New("cannot match with yourself")
)

const MaxCommentRunes = 500

type UserStore interface {
	GetByID(ctx context.Context, userID string) (model.User, error)
}

type LikeStore interface {
	GetByID(ctx context.Context, likeID string) (model.Like, error)
}

type MatchStore interface {
	Insert(ctx context.Context, tx pgx.Tx, m model.Match) error
}

type ConversationStore interface {
	Insert(ctx context.Context, tx pgx.Tx, c model.Conversation) error
}

type MessageStore interface {
	Insert(ctx context.Context, tx pgx.Tx, m model.Message) error
}

type CreateInput struct {
	ReceiverID string
	LikeID     string
	Comment    string
}

type CreateResult struct {
	MatchID        string
	ConversationID string
}

type Dependencies struct {
	Users         UserStore
	Likes         LikeStore
	Matches       MatchStore
	Conversations ConversationStore
	Messages      MessageStore
	RunTx         func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Service struct {
	users         UserStore
	likes         LikeStore
	matches       MatchStore
	conversations ConversationStore
	messages      MessageStore
	runTx         func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	newID         func() string
	now           func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		users:         deps.Users,
		likes:         deps.Likes,
		matches:       deps.Matches,
		conversations: deps.Conversations,
		messages:      deps.Messages,
		runTx:         deps.RunTx,
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

// Create turns a received like into a match. The caller becomes the
// match initiator. The match, its conversation, and the optional
// opening message land in one transaction, so a failure leaves no
// half-created pair behind.
func (s *Service) Create(ctx context.Context, initiatorID string, input CreateInput) (CreateResult, error) {
	if initiatorID == "" || input.ReceiverID == "" || input.LikeID == "" {
		return CreateResult{}, ErrValidation
	}
	if initiatorID == input.ReceiverID {
		return CreateResult{}, ErrSelfMatch
	}
	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentRunes {
		return CreateResult{}, ErrValidation
	}
	if s.runTx == nil {
		return CreateResult{}, fmt.Errorf("transaction runner is not configured")
	}

	if _, err := s.users.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return CreateResult{}, ErrReceiverNotFound
		}
		return CreateResult{}, fmt.Errorf("load receiver: %w", err)
	}

	if _, err := s.likes.GetByID(ctx, input.LikeID); err != nil {
		if errors.Is(err, pgrepo.ErrLikeNotFound) {
			return CreateResult{}, ErrLikeNotFound
		}
		return CreateResult{}, fmt.Errorf("load like: %w", err)
	}

	now := s.now().UTC()
	result := CreateResult{
		MatchID:        s.newID(),
		ConversationID: s.newID(),
	}

	err := s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.matches.Insert(ctx, tx, model.Match{
			ID:          result.MatchID,
			InitiatorID: initiatorID,
			ReceiverID:  input.ReceiverID,
			LikeID:      input.LikeID,
			Comment:     comment,
			Status:      enums.MatchStatusPending,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		if err := s.conversations.Insert(ctx, tx, model.Conversation{
			ID:              result.ConversationID,
			ParticipantA:    initiatorID,
			ParticipantB:    input.ReceiverID,
			LastMessageTime: now,
			CreatedAt:       now,
		}); err != nil {
			return err
		}

		if comment != "" {
			if err := s.messages.Insert(ctx, tx, model.Message{
				ID:             s.newID(),
				ConversationID: result.ConversationID,
				SenderID:       initiatorID,
				Content:        comment,
				CreatedAt:      now,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return CreateResult{}, fmt.Errorf("create match: %w", err)
	}

	return result, nil
}
