package model

import (
	"time"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
)

type Like struct {
	ID          string         `json:"id"`
	LikerID     string         `json:"liker_id"`
	LikedUserID string         `json:"liked_user_id"`
	ItemID      string         `json:"item_id"`
	ItemType    enums.ItemType `json:"item_type"`
	Comment     string         `json:"comment,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
