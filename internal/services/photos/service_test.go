package photos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	pgrepo "github.com/SketchTurnerrr/imago-server/internal/repo/postgres"
)

type memoryPhotoStore struct {
	photos map[string]model.Photo
}

func newMemoryPhotoStore() *memoryPhotoStore {
	return &memoryPhotoStore{photos: map[string]model.Photo{}}
}

func (s *memoryPhotoStore) ListByUser(_ context.Context, userID string) ([]model.Photo, error) {
	out := []model.Photo{}
	for _, p := range s.photos {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *memoryPhotoStore) GetByID(_ context.Context, photoID string) (model.Photo, error) {
	p, ok := s.photos[photoID]
	if !ok {
		return model.Photo{}, pgrepo.ErrPhotoNotFound
	}
	return p, nil
}

func (s *memoryPhotoStore) Insert(_ context.Context, p model.Photo) error {
	s.photos[p.ID] = p
	return nil
}

func (s *memoryPhotoStore) Delete(_ context.Context, photoID string) (bool, error) {
	if _, ok := s.photos[photoID]; !ok {
		return false, nil
	}
	delete(s.photos, photoID)
	return true, nil
}

func (s *memoryPhotoStore) UpdateOrder(_ context.Context, _ pgx.Tx, photoID string, displayOrder int) error {
	p, ok := s.photos[photoID]
	if !ok {
		return pgrepo.ErrPhotoNotFound
	}
	p.DisplayOrder = displayOrder
	s.photos[photoID] = p
	return nil
}

type stubSigner struct{}

func (stubSigner) PresignGet(_ context.Context, objectKey string) (string, error) {
	return "https://signed.example/" + objectKey, nil
}

func newPhotoService(store *memoryPhotoStore) *Service {
	return NewService(Dependencies{
		Photos: store,
		RunTx: func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
			return fn(ctx, nil)
		},
	})
}

func TestAddPhotoAppendsAtEnd(t *testing.T) {
	store := newMemoryPhotoStore()
	svc := newPhotoService(store)

	first, err := svc.Add(context.Background(), "user-1", "key-a")
	if err != nil {
		t.Fatalf("add first photo: %v", err)
	}
	second, err := svc.Add(context.Background(), "user-1", "key-b")
	if err != nil {
		t.Fatalf("add second photo: %v", err)
	}

	if first.DisplayOrder != 0 || second.DisplayOrder != 1 {
		t.Fatalf("unexpected display orders: %d, %d", first.DisplayOrder, second.DisplayOrder)
	}
}

func TestAddPhotoEnforcesCap(t *testing.T) {
	store := newMemoryPhotoStore()
	svc := newPhotoService(store)

	for i := 0; i < MaxPhotosPerUser; i++ {
		if _, err := svc.Add(context.Background(), "user-1", fmt.Sprintf("key-%d", i)); err != nil {
			t.Fatalf("add photo %d: %v", i, err)
		}
	}

	if _, err := svc.Add(context.Background(), "user-1", "key-over"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation over cap, got %v", err)
	}
}

func TestListOwnSignsBareKeys(t *testing.T) {
	store := newMemoryPhotoStore()
	store.photos["p1"] = model.Photo{ID: "p1", UserID: "user-1", URL: "bare-key", DisplayOrder: 0}
	store.photos["p2"] = model.Photo{ID: "p2", UserID: "user-1", URL: "https://cdn.example/x.jpg", DisplayOrder: 1}
	svc := newPhotoService(store)
	svc.AttachSigner(stubSigner{})

	items, err := svc.ListOwn(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list own photos: %v", err)
	}
	if items[0].URL != "https://signed.example/bare-key" {
		t.Fatalf("bare key should be presigned, got %q", items[0].URL)
	}
	if items[1].URL != "https://cdn.example/x.jpg" {
		t.Fatalf("absolute url should pass through, got %q", items[1].URL)
	}
}

func TestRemovePhotoChecksOwnership(t *testing.T) {
	store := newMemoryPhotoStore()
	store.photos["p1"] = model.Photo{ID: "p1", UserID: "owner"}
	svc := newPhotoService(store)

	if err := svc.Remove(context.Background(), "intruder", "p1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Remove(context.Background(), "owner", "p1"); err != nil {
		t.Fatalf("owner remove: %v", err)
	}
	if err := svc.Remove(context.Background(), "owner", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReorderAppliesNewOrder(t *testing.T) {
	store := newMemoryPhotoStore()
	store.photos["p1"] = model.Photo{ID: "p1", UserID: "user-1", DisplayOrder: 0}
	store.photos["p2"] = model.Photo{ID: "p2", UserID: "user-1", DisplayOrder: 1}
	store.photos["p3"] = model.Photo{ID: "p3", UserID: "user-1", DisplayOrder: 2}
	svc := newPhotoService(store)

	if err := svc.Reorder(context.Background(), "user-1", []string{"p3", "p1", "p2"}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	items, _ := store.ListByUser(context.Background(), "user-1")
	got := []string{items[0].ID, items[1].ID, items[2].ID}
	want := []string{"p3", "p1", "p2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: %v", got)
		}
	}
}

func TestReorderRejectsForeignOrPartialSets(t *testing.T) {
	store := newMemoryPhotoStore()
	store.photos["p1"] = model.Photo{ID: "p1", UserID: "user-1"}
	store.photos["p2"] = model.Photo{ID: "p2", UserID: "user-1"}
	store.photos["x"] = model.Photo{ID: "x", UserID: "someone-else"}
	svc := newPhotoService(store)

	cases := [][]string{
		{"p1", "x"},
		{"p1"},
		{"p1", "p1"},
	}
	for _, ids := range cases {
		if err := svc.Reorder(context.Background(), "user-1", ids); !errors.Is(err, ErrValidation) {
			t.Fatalf("ids %v: expected ErrValidation, got %v", ids, err)
		}
	}
}
