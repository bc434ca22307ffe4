package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	photossvc "github.com/SketchTurnerrr/imago-server/internal/services/photos"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type PhotosHandler struct {
	service *photossvc.Service
}

func NewPhotosHandler(service *photossvc.Service) *PhotosHandler {
	return &PhotosHandler{service: service}
}

func (h *PhotosHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	photos, err := h.service.ListOwn(r.Context(), identity.UserID)
	if err != nil {
		handlePhotosError(w, err)
		return
	}
	if r.URL.Query().Get("single") == "true" && len(photos) > 1 {
		photos = photos[:1]
	}

	httperrors.Write(w, http.StatusOK, dto.PhotosResponse{Photos: mapPhotos(photos)})
}

func (h *PhotosHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	var req dto.AddPhotoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	photo, err := h.service.Add(r.Context(), identity.UserID, req.URL)
	if err != nil {
		handlePhotosError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapPhoto(photo))
}

func (h *PhotosHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	photoID := chi.URLParam(r, "id")
	if uuid.Validate(photoID) != nil {
		writeBadRequest(w, "INVALID_PHOTO_ID", "photo id must be a uuid")
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, photoID); err != nil {
		handlePhotosError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PhotosHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTOS_SERVICE_UNAVAILABLE", "photos service is unavailable")
		return
	}

	var req dto.ReorderPhotosRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}
	for _, id := range req.PhotoIDs {
		if uuid.Validate(id) != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "photo ids must be uuids")
			return
		}
	}

	if err := h.service.Reorder(r.Context(), identity.UserID, req.PhotoIDs); err != nil {
		handlePhotosError(w, err)
		return
	}

	photos, err := h.service.ListOwn(r.Context(), identity.UserID)
	if err != nil {
		handlePhotosError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotosResponse{Photos: mapPhotos(photos)})
}

func handlePhotosError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, photossvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo payload")
	case errors.Is(err, photossvc.ErrNotFound):
		writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
	case errors.Is(err, photossvc.ErrNotOwner):
		writeForbidden(w, "NOT_OWNER", "photo belongs to another profile")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
