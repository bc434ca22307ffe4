package handlers

import (
	"errors"
	"net/http"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	profilessvc "github.com/SketchTurnerrr/imago-server/internal/services/profiles"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type MeHandler struct {
	service *profilessvc.Service
}

func NewMeHandler(service *profilessvc.Service) *MeHandler {
	return &MeHandler{service: service}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	profile, err := h.service.Me(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func (h *MeHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILES_SERVICE_UNAVAILABLE", "profiles service is unavailable")
		return
	}

	var req dto.UpdateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	input := profilessvc.UpdateInput{
		Name:           req.Name,
		DOB:            req.DOB,
		Denomination:   req.Denomination,
		Location:       req.Location,
		CustomLocation: req.CustomLocation,
		Onboarded:      req.Onboarded,
		Verified:       req.Verified,
	}
	if req.Gender != nil {
		gender := enums.Gender(*req.Gender)
		input.Gender = &gender
	}

	profile, err := h.service.Update(r.Context(), identity.UserID, input)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(profile))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
	case errors.Is(err, profilessvc.ErrNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, profilessvc.ErrGenderNotSet):
		writeBadRequest(w, "GENDER_NOT_SET", "set your gender to browse profiles")
	case errors.Is(err, profilessvc.ErrEmptyPool):
		writeNotFound(w, "EMPTY_POOL", "no more profiles available")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func mapProfile(profile profilessvc.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		User:    mapUser(profile.User),
		Photos:  mapPhotos(profile.Photos),
		Prompts: mapPrompts(profile.Prompts),
	}
}
