package dto

import "time"

type ConversationResponse struct {
	ID              string    `json:"id"`
	ParticipantA    string    `json:"participant_a"`
	ParticipantB    string    `json:"participant_b"`
	LastMessageTime time.Time `json:"last_message_time"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationOverviewResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Other        UserResponse         `json:"other"`
	OtherPhoto   *PhotoResponse       `json:"other_photo,omitempty"`
	LastMessage  *MessageResponse     `json:"last_message,omitempty"`
}

type ConversationsResponse struct {
	Conversations []ConversationOverviewResponse `json:"conversations"`
}

type ParticipantResponse struct {
	User    UserResponse     `json:"user"`
	Photos  []PhotoResponse  `json:"photos"`
	Prompts []PromptResponse `json:"prompts"`
}

type ConversationDetailResponse struct {
	Conversation ConversationResponse  `json:"conversation"`
	Messages     []MessageResponse     `json:"messages"`
	Participants []ParticipantResponse `json:"participants"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}
