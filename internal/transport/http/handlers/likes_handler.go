package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	likessvc "github.com/SketchTurnerrr/imago-server/internal/services/likes"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type LikesHandler struct {
	service *likessvc.Service
}

func NewLikesHandler(service *likessvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

func (h *LikesHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	var req dto.AddLikeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}
	if uuid.Validate(req.LikedUserID) != nil || uuid.Validate(req.ItemID) != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "liked_user_id and item_id must be uuids")
		return
	}

	like, err := h.service.Add(r.Context(), likessvc.AddInput{
		LikerID:     identity.UserID,
		LikedUserID: req.LikedUserID,
		ItemID:      req.ItemID,
		ItemType:    enums.ItemType(req.ItemType),
		Comment:     req.Comment,
	})
	if err != nil {
		if tooFast, ok := likessvc.IsTooFast(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many likes, slow down",
				RetryAfterSec: tooFast.RetryAfter(),
			})
			return
		}
		handleLikesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapLike(like))
}

// Remove withdraws the caller's like from one item. The item id comes
// as a query parameter because DELETE bodies are unreliable in the
// wild.
func (h *LikesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	itemID := r.URL.Query().Get("item_id")
	if uuid.Validate(itemID) != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "item_id must be a uuid")
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, itemID); err != nil {
		handleLikesError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LikesHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	items, err := h.service.ListForUser(r.Context(), identity.UserID)
	if err != nil {
		handleLikesError(w, err)
		return
	}

	likes := make([]dto.IncomingLikeResponse, 0, len(items))
	for _, item := range items {
		likes = append(likes, mapIncomingLike(item))
	}

	httperrors.Write(w, http.StatusOK, dto.IncomingLikesResponse{Likes: likes})
}

func (h *LikesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	likeID := chi.URLParam(r, "id")
	if uuid.Validate(likeID) != nil {
		writeBadRequest(w, "INVALID_LIKE_ID", "like id must be a uuid")
		return
	}

	item, err := h.service.GetByID(r.Context(), likeID)
	if err != nil {
		handleLikesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapIncomingLike(item))
}

func handleLikesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, likessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid like payload")
	case errors.Is(err, likessvc.ErrSelfLike):
		writeBadRequest(w, "SELF_LIKE", "cannot like your own content")
	case errors.Is(err, likessvc.ErrLikerNotFound):
		writeNotFound(w, "LIKER_NOT_FOUND", "liker profile not found")
	case errors.Is(err, likessvc.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, likessvc.ErrItemOwnership):
		writeForbidden(w, "ITEM_OWNERSHIP", "item does not belong to the liked user")
	case errors.Is(err, likessvc.ErrNotFound):
		writeNotFound(w, "LIKE_NOT_FOUND", "like not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func mapIncomingLike(item likessvc.IncomingLike) dto.IncomingLikeResponse {
	out := dto.IncomingLikeResponse{
		Like:  mapLike(item.Like),
		Liker: dto.LikerResponse{User: mapUser(item.Liker.User)},
	}
	if item.Liker.Photo != nil {
		photo := mapPhoto(*item.Liker.Photo)
		out.Liker.Photo = &photo
	}
	if item.Photo != nil {
		photo := mapPhoto(*item.Photo)
		out.Photo = &photo
	}
	if item.Prompt != nil {
		prompt := mapPrompt(*item.Prompt)
		out.Prompt = &prompt
	}
	return out
}
