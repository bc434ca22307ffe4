package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	profilessvc "github.com/SketchTurnerrr/imago-server/internal/services/profiles"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type DiscoveryHandler struct {
	service *profilessvc.Service
}

func NewDiscoveryHandler(service *profilessvc.Service) *DiscoveryHandler {
	return &DiscoveryHandler{service: service}
}

// Next serves the viewer's next candidate card.
func (h *DiscoveryHandler) Next(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	profile, err := h.service.GetRandom(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	profileID := chi.URLParam(r, "id")
	if uuid.Validate(profileID) != nil {
		writeBadRequest(w, "INVALID_PROFILE_ID", "profile id must be a uuid")
		return
	}

	profile, err := h.service.GetByID(r.Context(), profileID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}
