package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
	redisrepo "github.com/SketchTurnerrr/imago-server/internal/repo/redis"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	likessvc "github.com/SketchTurnerrr/imago-server/internal/services/likes"
	ratesvc "github.com/SketchTurnerrr/imago-server/internal/services/rate"
)

const (
	likerID     = "0d5f4f90-31cf-49ab-a1a6-5e8fb2c58001"
	likedUserID = "0d5f4f90-31cf-49ab-a1a6-5e8fb2c58002"
	likedItemID = "0d5f4f90-31cf-49ab-a1a6-5e8fb2c58003"
)

func newLikesRequest(t *testing.T, itemType string) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"liked_user_id": likedUserID,
		"item_id":       likedItemID,
		"item_type":     itemType,
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/likes", bytes.NewReader(body))
	return req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{
		UserID: likerID,
		SID:    "sid-liker",
	}))
}

func TestAddLikeReturnsTooFastWhenBudgetSpent(t *testing.T) {
	srv, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer srv.Close()

	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	defer func() { _ = client.Close() }()

	svc := likessvc.NewService(likessvc.Dependencies{
		Likes: likeStoreStub{},
		Users: userStoreStub{known: map[string]model.User{
			likerID: {ID: likerID, Name: "Anna"},
		}},
		Photos:  photoStoreStub{photo: model.Photo{ID: likedItemID, UserID: likedUserID}},
		Prompts: promptStoreStub{},
	})
	svc.AttachLimiter(ratesvc.NewLimiter(redisrepo.NewRateRepo(client), 1))
	h := NewLikesHandler(svc)

	rr := httptest.NewRecorder()
	h.Add(rr, newLikesRequest(t, string(enums.ItemTypePhoto)))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first like status: got %d want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.Add(rr, newLikesRequest(t, string(enums.ItemTypePhoto)))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second like status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}

	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "TOO_FAST" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "TOO_FAST")
	}
	if payload.RetryAfterSec < 1 {
		t.Fatalf("retry_after_sec must be at least 1, got %d", payload.RetryAfterSec)
	}
}

func TestAddLikeRejectsForeignItem(t *testing.T) {
	svc := likessvc.NewService(likessvc.Dependencies{
		Likes: likeStoreStub{},
		Users: userStoreStub{known: map[string]model.User{
			likerID: {ID: likerID, Name: "Anna"},
		}},
		Photos:  photoStoreStub{photo: model.Photo{ID: likedItemID, UserID: "0d5f4f90-31cf-49ab-a1a6-5e8fb2c58009"}},
		Prompts: promptStoreStub{},
	})
	h := NewLikesHandler(svc)

	rr := httptest.NewRecorder()
	h.Add(rr, newLikesRequest(t, string(enums.ItemTypePhoto)))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "ITEM_OWNERSHIP" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "ITEM_OWNERSHIP")
	}
}

func TestAddLikeRejectsNonUUIDIDs(t *testing.T) {
	svc := likessvc.NewService(likessvc.Dependencies{
		Likes:   likeStoreStub{},
		Users:   userStoreStub{},
		Photos:  photoStoreStub{},
		Prompts: promptStoreStub{},
	})
	h := NewLikesHandler(svc)

	body := []byte(`{"liked_user_id":"not-a-uuid","item_id":"also-not","item_type":"photo"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/likes", bytes.NewReader(body))
	req = req.WithContext(authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: likerID}))

	rr := httptest.NewRecorder()
	h.Add(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

type likeStoreStub struct{}

func (likeStoreStub) Insert(context.Context, model.Like) error { return nil }

func (likeStoreStub) GetByID(context.Context, string) (model.Like, error) {
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (likeStoreStub) DeleteByLikerItem(context.Context, string, string) (bool, error) {
	return false, nil
}

func (likeStoreStub) ListByLikedUser(context.Context, string) ([]model.Like, error) {
	return nil, nil
}

type userStoreStub struct {
	known map[string]model.User
}

func (s userStoreStub) GetByID(_ context.Context, userID string) (model.User, error) {
	u, ok := s.known[userID]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return u, nil
}

type photoStoreStub struct {
	photo model.Photo
}

func (s photoStoreStub) GetByID(context.Context, string) (model.Photo, error) {
	if s.photo.ID == "" {
		return model.Photo{}, pgrepo.ErrPhotoNotFound
	}
	return s.photo, nil
}

func (photoStoreStub) FirstByUser(context.Context, string) (model.Photo, error) {
	return model.Photo{}, pgrepo.ErrPhotoNotFound
}

type promptStoreStub struct{}

func (promptStoreStub) GetByID(context.Context, string) (model.Prompt, error) {
	return model.Prompt{}, pgrepo.ErrPromptNotFound
}
