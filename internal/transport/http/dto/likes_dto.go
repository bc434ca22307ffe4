package dto

import "time"

type AddLikeRequest struct {
	LikedUserID string `json:"liked_user_id"`
	ItemID      string `json:"item_id"`
	ItemType    string `json:"item_type"`
	Comment     string `json:"comment"`
}

type LikeResponse struct {
	ID          string    `json:"id"`
	LikerID     string    `json:"liker_id"`
	LikedUserID string    `json:"liked_user_id"`
	ItemID      string    `json:"item_id"`
	ItemType    string    `json:"item_type"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type LikerResponse struct {
	User  UserResponse   `json:"user"`
	Photo *PhotoResponse `json:"photo,omitempty"`
}

type IncomingLikeResponse struct {
	Like   LikeResponse    `json:"like"`
	Liker  LikerResponse   `json:"liker"`
	Photo  *PhotoResponse  `json:"photo,omitempty"`
	Prompt *PromptResponse `json:"prompt,omitempty"`
}

type IncomingLikesResponse struct {
	Likes []IncomingLikeResponse `json:"likes"`
}
