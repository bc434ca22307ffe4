package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	promptssvc "github.com/SketchTurnerrr/imago-server/internal/services/prompts"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type PromptsHandler struct {
	service *promptssvc.Service
}

func NewPromptsHandler(service *promptssvc.Service) *PromptsHandler {
	return &PromptsHandler{service: service}
}

func (h *PromptsHandler) Questions(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROMPTS_SERVICE_UNAVAILABLE", "prompts service is unavailable")
		return
	}
	httperrors.Write(w, http.StatusOK, dto.PromptQuestionsResponse{Questions: h.service.Questions()})
}

func (h *PromptsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROMPTS_SERVICE_UNAVAILABLE", "prompts service is unavailable")
		return
	}

	prompts, err := h.service.ListOwn(r.Context(), identity.UserID)
	if err != nil {
		handlePromptsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PromptsResponse{Prompts: mapPrompts(prompts)})
}

func (h *PromptsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROMPTS_SERVICE_UNAVAILABLE", "prompts service is unavailable")
		return
	}

	var req dto.CreatePromptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	prompt, err := h.service.Create(r.Context(), identity.UserID, req.Question, req.Answer)
	if err != nil {
		handlePromptsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapPrompt(prompt))
}

func (h *PromptsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROMPTS_SERVICE_UNAVAILABLE", "prompts service is unavailable")
		return
	}

	promptID := chi.URLParam(r, "id")
	if uuid.Validate(promptID) != nil {
		writeBadRequest(w, "INVALID_PROMPT_ID", "prompt id must be a uuid")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, promptID); err != nil {
		handlePromptsError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handlePromptsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, promptssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid prompt payload")
	case errors.Is(err, promptssvc.ErrUnknownQuestion):
		writeBadRequest(w, "UNKNOWN_QUESTION", "question is not in the catalog")
	case errors.Is(err, promptssvc.ErrLimitReached):
		writeBadRequest(w, "PROMPT_LIMIT_REACHED", "prompt limit reached")
	case errors.Is(err, promptssvc.ErrNotFound):
		writeNotFound(w, "PROMPT_NOT_FOUND", "prompt not found")
	case errors.Is(err, promptssvc.ErrNotOwner):
		writeForbidden(w, "NOT_OWNER", "prompt belongs to another profile")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
