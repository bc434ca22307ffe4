package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authsvc "github.com/SketchTurnerrr/imago-server/internal/services/auth"
	chatssvc "github.com/SketchTurnerrr/imago-server/internal/services/chats"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

type ChatsHandler struct {
	service *chatssvc.Service
}

func NewChatsHandler(service *chatssvc.Service) *ChatsHandler {
	return &ChatsHandler{service: service}
}

func (h *ChatsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHATS_SERVICE_UNAVAILABLE", "chats service is unavailable")
		return
	}

	items, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleChatsError(w, err)
		return
	}

	conversations := make([]dto.ConversationOverviewResponse, 0, len(items))
	for _, item := range items {
		row := dto.ConversationOverviewResponse{
			Conversation: mapConversation(item.Conversation),
			Other:        mapUser(item.Other),
		}
		if item.OtherPhoto != nil {
			photo := mapPhoto(*item.OtherPhoto)
			row.OtherPhoto = &photo
		}
		if item.LastMessage != nil {
			message := mapMessage(*item.LastMessage)
			row.LastMessage = &message
		}
		conversations = append(conversations, row)
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationsResponse{Conversations: conversations})
}

func (h *ChatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHATS_SERVICE_UNAVAILABLE", "chats service is unavailable")
		return
	}

	conversationID := chi.URLParam(r, "id")
	if uuid.Validate(conversationID) != nil {
		writeBadRequest(w, "INVALID_CONVERSATION_ID", "conversation id must be a uuid")
		return
	}

	detail, err := h.service.Get(r.Context(), identity.UserID, conversationID)
	if err != nil {
		handleChatsError(w, err)
		return
	}

	messages := make([]dto.MessageResponse, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		messages = append(messages, mapMessage(m))
	}

	participants := make([]dto.ParticipantResponse, 0, len(detail.Participants))
	for _, p := range detail.Participants {
		participants = append(participants, dto.ParticipantResponse{
			User:    mapUser(p.User),
			Photos:  mapPhotos(p.Photos),
			Prompts: mapPrompts(p.Prompts),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ConversationDetailResponse{
		Conversation: mapConversation(detail.Conversation),
		Messages:     messages,
		Participants: participants,
	})
}

func (h *ChatsHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CHATS_SERVICE_UNAVAILABLE", "chats service is unavailable")
		return
	}

	conversationID := chi.URLParam(r, "id")
	if uuid.Validate(conversationID) != nil {
		writeBadRequest(w, "INVALID_CONVERSATION_ID", "conversation id must be a uuid")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "request body is not valid json")
		return
	}

	message, err := h.service.Send(r.Context(), identity.UserID, conversationID, req.Content)
	if err != nil {
		handleChatsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapMessage(message))
}

func handleChatsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat payload")
	case errors.Is(err, chatssvc.ErrNotFound):
		writeNotFound(w, "CONVERSATION_NOT_FOUND", "conversation not found")
	case errors.Is(err, chatssvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "you are not part of this conversation")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
