package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	chatssvc "github.com/SketchTurnerrr/imago-server/internal/services/chats"
	likessvc "github.com/SketchTurnerrr/imago-server/internal/services/likes"
	matchessvc "github.com/SketchTurnerrr/imago-server/internal/services/matches"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
)

const (
	flowUserA  = "1a8c0b3e-6d44-4c29-9f51-3ab0de8cc001"
	flowUserB  = "1a8c0b3e-6d44-4c29-9f51-3ab0de8cc002"
	flowPhotoB = "1a8c0b3e-6d44-4c29-9f51-3ab0de8cc003"
)

// TestLikeToConversationFlow walks the whole pipeline: Anna likes one of
// Bohdan's photos, Bohdan reviews the incoming like and turns it into a
// match, and the two exchange messages in the conversation the match
// opened.
func TestLikeToConversationFlow(t *testing.T) {
	users := &flowUserStore{users: map[string]model.User{
		flowUserA: {ID: flowUserA, Name: "Anna"},
		flowUserB: {ID: flowUserB, Name: "Bohdan"},
	}}
	photos := &flowPhotoStore{photos: []model.Photo{
		{ID: flowPhotoB, UserID: flowUserB, URL: "https://cdn.example/bohdan-1.jpg"},
	}}
	prompts := &flowPromptStore{}
	likes := &flowLikeStore{}
	matches := &flowMatchStore{}
	conversations := &flowConversationStore{}
	messages := &flowMessageStore{}

	runTx := func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return fn(ctx, nil)
	}

	likeService := likessvc.NewService(likessvc.Dependencies{
		Likes:   likes,
		Users:   users,
		Photos:  photos,
		Prompts: prompts,
	})
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Users:         users,
		Likes:         likes,
		Matches:       matches,
		Conversations: conversations,
		Messages:      messages,
		RunTx:         runTx,
	})
	chatService := chatssvc.NewService(chatssvc.Dependencies{
		Conversations: conversations,
		Messages:      messages,
		Users:         users,
		Photos:        photos,
		Prompts:       prompts,
		RunTx:         runTx,
	})

	likesHandler := NewLikesHandler(likeService)
	matchesHandler := NewMatchesHandler(matchService)
	chatsHandler := NewChatsHandler(chatService)

	router := chi.NewRouter()
	router.Post("/v1/likes", likesHandler.Add)
	router.Get("/v1/likes/incoming", likesHandler.Incoming)
	router.Post("/v1/matches", matchesHandler.Create)
	router.Get("/v1/conversations", chatsHandler.List)
	router.Get("/v1/conversations/{id}", chatsHandler.Get)
	router.Post("/v1/conversations/{id}/messages", chatsHandler.Send)

	// Anna likes Bohdan's photo with a comment.
	rr := doJSON(t, router, http.MethodPost, "/v1/likes", flowUserA, map[string]any{
		"liked_user_id": flowUserB,
		"item_id":       flowPhotoB,
		"item_type":     "photo",
		"comment":       "great smile",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add like status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var like dto.LikeResponse
	decodeBody(t, rr, &like)

	// Bohdan sees the incoming like with Anna's card attached.
	rr = doJSON(t, router, http.MethodGet, "/v1/likes/incoming", flowUserB, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("incoming likes status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var incoming dto.IncomingLikesResponse
	decodeBody(t, rr, &incoming)
	if len(incoming.Likes) != 1 {
		t.Fatalf("expected one incoming like, got %d", len(incoming.Likes))
	}
	if incoming.Likes[0].Liker.User.ID != flowUserA {
		t.Fatalf("unexpected liker: %q", incoming.Likes[0].Liker.User.ID)
	}
	if incoming.Likes[0].Photo == nil || incoming.Likes[0].Photo.ID != flowPhotoB {
		t.Fatalf("liked photo missing from enrichment")
	}

	// Bohdan matches back, opening a conversation seeded with his reply.
	rr = doJSON(t, router, http.MethodPost, "/v1/matches", flowUserB, map[string]any{
		"receiver_id": flowUserA,
		"like_id":     like.ID,
		"comment":     "thanks, let's talk",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create match status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var created dto.CreateMatchResponse
	decodeBody(t, rr, &created)
	if len(matches.items) != 1 || matches.items[0].InitiatorID != flowUserB {
		t.Fatalf("match initiator must be the caller, got %+v", matches.items)
	}
	if matches.items[0].Status != enums.MatchStatusPending {
		t.Fatalf("new match must be pending, got %q", matches.items[0].Status)
	}

	// Anna's conversation list shows Bohdan and the seeded message.
	rr = doJSON(t, router, http.MethodGet, "/v1/conversations", flowUserA, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list conversations status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var overview dto.ConversationsResponse
	decodeBody(t, rr, &overview)
	if len(overview.Conversations) != 1 {
		t.Fatalf("expected one conversation, got %d", len(overview.Conversations))
	}
	if overview.Conversations[0].Other.ID != flowUserB {
		t.Fatalf("unexpected other participant: %q", overview.Conversations[0].Other.ID)
	}
	if overview.Conversations[0].LastMessage == nil ||
		overview.Conversations[0].LastMessage.Content != "thanks, let's talk" {
		t.Fatalf("seeded message missing from overview")
	}

	// Anna replies.
	rr = doJSON(t, router, http.MethodPost, "/v1/conversations/"+created.ConversationID+"/messages", flowUserA, map[string]any{
		"content": "hi Bohdan!",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("send message status: got %d, body %s", rr.Code, rr.Body.String())
	}

	// Bohdan opens the conversation and sees both messages in order.
	rr = doJSON(t, router, http.MethodGet, "/v1/conversations/"+created.ConversationID, flowUserB, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get conversation status: got %d, body %s", rr.Code, rr.Body.String())
	}
	var detail dto.ConversationDetailResponse
	decodeBody(t, rr, &detail)
	if len(detail.Messages) != 2 {
		t.Fatalf("expected two messages, got %d", len(detail.Messages))
	}
	if detail.Messages[0].SenderID != flowUserB || detail.Messages[1].SenderID != flowUserA {
		t.Fatalf("messages out of order: %+v", detail.Messages)
	}
	if len(detail.Participants) != 2 {
		t.Fatalf("expected both participant bundles, got %d", len(detail.Participants))
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, userID string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-" + userID,
	}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type flowUserStore struct {
	users map[string]model.User
}

func (s *flowUserStore) GetByID(_ context.Context, userID string) (model.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return u, nil
}

type flowPhotoStore struct {
	photos []model.Photo
}

func (s *flowPhotoStore) GetByID(_ context.Context, photoID string) (model.Photo, error) {
	for _, p := range s.photos {
		if p.ID == photoID {
			return p, nil
		}
	}
	return model.Photo{}, pgrepo.ErrPhotoNotFound
}

func (s *flowPhotoStore) FirstByUser(_ context.Context, userID string) (model.Photo, error) {
	for _, p := range s.photos {
		if p.UserID == userID {
			return p, nil
		}
	}
	return model.Photo{}, pgrepo.ErrPhotoNotFound
}

func (s *flowPhotoStore) ListByUser(_ context.Context, userID string) ([]model.Photo, error) {
	var out []model.Photo
	for _, p := range s.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type flowPromptStore struct{}

func (*flowPromptStore) GetByID(context.Context, string) (model.Prompt, error) {
	return model.Prompt{}, pgrepo.ErrPromptNotFound
}

func (*flowPromptStore) ListByUser(context.Context, string) ([]model.Prompt, error) {
	return nil, nil
}

type flowLikeStore struct {
	items []model.Like
}

func (s *flowLikeStore) Insert(_ context.Context, l model.Like) error {
	s.items = append(s.items, l)
	return nil
}

func (s *flowLikeStore) GetByID(_ context.Context, likeID string) (model.Like, error) {
	for _, l := range s.items {
		if l.ID == likeID {
			return l, nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (s *flowLikeStore) DeleteByLikerItem(_ context.Context, likerID, itemID string) (bool, error) {
	for i, l := range s.items {
		if l.LikerID == likerID && l.ItemID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *flowLikeStore) ListByLikedUser(_ context.Context, likedUserID string) ([]model.Like, error) {
	var out []model.Like
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].LikedUserID == likedUserID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

type flowMatchStore struct {
	items []model.Match
}

func (s *flowMatchStore) Insert(_ context.Context, _ pgx.Tx, m model.Match) error {
	s.items = append(s.items, m)
	return nil
}

type flowConversationStore struct {
	items []model.Conversation
}

func (s *flowConversationStore) Insert(_ context.Context, _ pgx.Tx, c model.Conversation) error {
	s.items = append(s.items, c)
	return nil
}

func (s *flowConversationStore) GetByID(_ context.Context, conversationID string) (model.Conversation, error) {
	for _, c := range s.items {
		if c.ID == conversationID {
			return c, nil
		}
	}
	return model.Conversation{}, pgrepo.ErrConversationNotFound
}

func (s *flowConversationStore) ListByParticipant(_ context.Context, userID string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, c := range s.items {
		if c.HasParticipant(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *flowConversationStore) TouchLastMessageTime(_ context.Context, _ pgx.Tx, conversationID string, at time.Time) error {
	for i := range s.items {
		if s.items[i].ID == conversationID {
			s.items[i].LastMessageTime = at
			return nil
		}
	}
	return pgrepo.ErrConversationNotFound
}

type flowMessageStore struct {
	items []model.Message
}

func (s *flowMessageStore) Insert(_ context.Context, _ pgx.Tx, m model.Message) error {
	s.items = append(s.items, m)
	return nil
}

func (s *flowMessageStore) ListByConversation(_ context.Context, conversationID string) ([]model.Message, error) {
	var out []model.Message
	for _, m := range s.items {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *flowMessageStore) LastByConversation(_ context.Context, conversationID string) (model.Message, bool, error) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].ConversationID == conversationID {
			return s.items[i], true, nil
		}
	}
	return model.Message{}, false, nil
}
