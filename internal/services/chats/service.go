package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("conversation not found")
	ErrNotParticipant = errors.New("not a conversation participant")
)

const MaxMessageRunes = 2000

type ConversationStore interface {
	GetByID(ctx context.Context, conversationID string) (model.Conversation, error)
	ListByParticipant(ctx context.Context, userID string) ([]model.Conversation, error)
	TouchLastMessageTime(ctx context.Context, tx pgx.Tx, conversationID string, at time.Time) error
}

type MessageStore interface {
	Insert(ctx context.Context, tx pgx.Tx, m model.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]model.Message, error)
	LastByConversation(ctx context.Context, conversationID string) (model.Message, bool, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (model.User, error)
}

type PhotoStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Photo, error)
	FirstByUser(ctx context.Context, userID string) (model.Photo, error)
}

type PromptStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Prompt, error)
}

// Overview is one row of the chat list: the conversation, the other
// person's card, and the latest message for the preview line.
type Overview struct {
	Conversation model.Conversation
	Other        model.User
	OtherPhoto   *model.Photo
	LastMessage  *model.Message
}

// Participant is a full profile bundle attached to an opened
// conversation.
type Participant struct {
	User    model.User
	Photos  []model.Photo
	Prompts []model.Prompt
}

// Detail is an opened conversation: its full message history plus both
// participants' profile bundles.
type Detail struct {
	Conversation model.Conversation
	Messages     []model.Message
	Participants []Participant
}

type Dependencies struct {
	Conversations ConversationStore
	Messages      MessageStore
	Users         UserStore
	Photos        PhotoStore
	Prompts       PromptStore
	RunTx         func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Service struct {
	conversations ConversationStore
	messages      MessageStore
	users         UserStore
	photos        PhotoStore
	prompts       PromptStore
	signer        photossvc.URLSigner
	runTx         func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
	newID         func() string
	now           func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{
		conversations: deps.Conversations,
		messages:      deps.Messages,
		users:         deps.Users,
		photos:        deps.Photos,
		prompts:       deps.Prompts,
		runTx:         deps.RunTx,
		newID:         uuid.NewString,
		now:           time.Now,
	}
}

func (s *Service) AttachSigner(signer photossvc.URLSigner) {
	s.signer = signer
}

// List returns the caller's conversations ordered by recency. Rows
// whose other participant no longer exists are dropped.
func (s *Service) List(ctx context.Context, userID string) ([]Overview, error) {
	if userID == "" {
		return nil, ErrValidation
	}

	conversations, err := s.conversations.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	items := make([]Overview, 0, len(conversations))
	for _, conv := range conversations {
		otherID := conv.OtherParticipant(userID)
		if otherID == "" {
			continue
		}

		other, err := s.users.GetByID(ctx, otherID)
		if err != nil {
			if errors.Is(err, pgrepo.ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("load other participant: %w", err)
		}

		row := Overview{Conversation: conv, Other: other}

		photo, err := s.photos.FirstByUser(ctx, otherID)
		if err != nil && !errors.Is(err, pgrepo.ErrPhotoNotFound) {
			return nil, fmt.Errorf("load other participant photo: %w", err)
		}
		if err == nil {
			url, err := photossvc.DisplayURL(ctx, s.signer, photo.URL)
			if err != nil {
				return nil, fmt.Errorf("resolve participant photo url: %w", err)
			}
			photo.URL = url
			row.OtherPhoto = &photo
		}

		last, ok, err := s.messages.LastByConversation(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("load last message: %w", err)
		}
		if ok {
			row.LastMessage = &last
		}

		items = append(items, row)
	}

	return items, nil
}

// Get opens a conversation for one of its participants.
func (s *Service) Get(ctx context.Context, userID, conversationID string) (Detail, error) {
	if userID == "" || conversationID == "" {
		return Detail{}, ErrValidation
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConversationNotFound) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return Detail{}, ErrNotParticipant
	}

	messages, err := s.messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return Detail{}, fmt.Errorf("list messages: %w", err)
	}

	participants := make([]Participant, 0, 2)
	for _, id := range []string{conv.ParticipantA, conv.ParticipantB} {
		p, err := s.loadParticipant(ctx, id)
		if err != nil {
			return Detail{}, err
		}
		participants = append(participants, p)
	}

	return Detail{
		Conversation: conv,
		Messages:     messages,
		Participants: participants,
	}, nil
}

// Send appends a message and moves the conversation's recency marker,
// both inside one transaction.
func (s *Service) Send(ctx context.Context, userID, conversationID, content string) (model.Message, error) {
	if userID == "" || conversationID == "" {
		return model.Message{}, ErrValidation
	}
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > MaxMessageRunes {
		return model.Message{}, ErrValidation
	}
	if s.runTx == nil {
		return model.Message{}, fmt.Errorf("transaction runner is not configured")
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConversationNotFound) {
			return model.Message{}, ErrNotFound
		}
		return model.Message{}, fmt.Errorf("load conversation: %w", err)
	}
	if !conv.HasParticipant(userID) {
		return model.Message{}, ErrNotParticipant
	}

	now := s.now().UTC()
	message := model.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		CreatedAt:      now,
	}

	err = s.runTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.messages.Insert(ctx, tx, message); err != nil {
			return err
		}
		return s.conversations.TouchLastMessageTime(ctx, tx, conversationID, now)
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("send message: %w", err)
	}

	return message, nil
}

func (s *Service) loadParticipant(ctx context.Context, userID string) (Participant, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, pgrepo.ErrUserNotFound) {
		return Participant{}, fmt.Errorf("load participant: %w", err)
	}

	photos, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return Participant{}, fmt.Errorf("load participant photos: %w", err)
	}
	for i := range photos {
		url, err := photossvc.DisplayURL(ctx, s.signer, photos[i].URL)
		if err != nil {
			return Participant{}, fmt.Errorf("resolve participant photo url: %w", err)
		}
		photos[i].URL = url
	}

	prompts, err := s.prompts.ListByUser(ctx, userID)
	if err != nil {
		return Participant{}, fmt.Errorf("load participant prompts: %w", err)
	}

	return Participant{
		User:    user,
		Photos:  photos,
		Prompts: prompts,
	}, nil
}
