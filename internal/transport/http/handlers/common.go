package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SketchTurnerrr/imago-server/internal/domain/model"
	"github.com/SketchTurnerrr/imago-server/internal/transport/http/dto"
	httperrors "github.com/SketchTurnerrr/imago-server/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

func mapUser(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		DOB:            u.DOB,
		Gender:         string(u.Gender),
		Denomination:   u.Denomination,
		Location:       u.Location,
		CustomLocation: u.CustomLocation,
		Onboarded:      u.Onboarded,
		Verified:       u.Verified,
		CreatedAt:      u.CreatedAt,
	}
}

func mapPhoto(p model.Photo) dto.PhotoResponse {
	return dto.PhotoResponse{
		ID:           p.ID,
		URL:          p.URL,
		DisplayOrder: p.DisplayOrder,
	}
}

func mapPhotos(photos []model.Photo) []dto.PhotoResponse {
	out := make([]dto.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, mapPhoto(p))
	}
	return out
}

func mapPrompt(p model.Prompt) dto.PromptResponse {
	return dto.PromptResponse{
		ID:       p.ID,
		Question: p.Question,
		Answer:   p.Answer,
	}
}

func mapPrompts(prompts []model.Prompt) []dto.PromptResponse {
	out := make([]dto.PromptResponse, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, mapPrompt(p))
	}
	return out
}

func mapLike(l model.Like) dto.LikeResponse {
	return dto.LikeResponse{
		ID:          l.ID,
		LikerID:     l.LikerID,
		LikedUserID: l.LikedUserID,
		ItemID:      l.ItemID,
		ItemType:    string(l.ItemType),
		Comment:     l.Comment,
		CreatedAt:   l.CreatedAt,
	}
}

func mapMessage(m model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func mapConversation(c model.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		ID:              c.ID,
		ParticipantA:    c.ParticipantA,
		ParticipantB:    c.ParticipantB,
		LastMessageTime: c.LastMessageTime,
	}
}
