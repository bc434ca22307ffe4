package dto

type CreateMatchRequest struct {
	ReceiverID string `json:"receiver_id"`
	LikeID     string `json:"like_id"`
	Comment    string `json:"comment"`
}

type CreateMatchResponse struct {
	MatchID        string `json:"match_id"`
	ConversationID string `json:"conversation_id"`
}
