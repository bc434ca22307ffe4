package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	matchessvc "github.com/SketchTurnerrr/imago-server/internal/services/matches"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.CreateMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}
	if uuid.Validate(req.ReceiverID) != nil || uuid.Validate(req.LikeID) != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "receiver_id and like_id must be uuids")
		return
	}

	result, err := h.service.Create(r.Context(), identity.UserID, matchessvc.CreateInput{
		ReceiverID: req.ReceiverID,
		LikeID:     req.LikeID,
		Comment:    req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match payload")
		case errors.Is(err, matchessvc.ErrSelfMatch):
			writeBadRequest(w, "SELF_MATCH", "cannot match with yourself")
		case errors.Is(err, matchessvc.ErrReceiverNotFound):
			writeNotFound(w, "RECEIVER_NOT_FOUND", "receiver profile not found")
		case errors.Is(err, matchessvc.ErrLikeNotFound):
			writeNotFound(w, "LIKE_NOT_FOUND", "like not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.CreateMatchResponse{
		MatchID:        result.MatchID,
		ConversationID: result.ConversationID,
	})
}
