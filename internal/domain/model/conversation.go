package model

import "time"

// A conversation always has exactly two participants and only ever comes
// into existence through the match workflow.
type Conversation struct {
	ID              string    `json:"id"`
	ParticipantA    string    `json:"participant_a"`
	ParticipantB    string    `json:"participant_b"`
	LastMessageTime time.Time `json:"last_message_time"`
	CreatedAt       time.Time `json:"created_at"`
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not a participant or the conversation is degenerate.
func (c Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.ParticipantA:
		if c.ParticipantB == userID {
			return ""
		}
		return c.ParticipantB
	case c.ParticipantB:
		return c.ParticipantA
	default:
		return ""
	}
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}
