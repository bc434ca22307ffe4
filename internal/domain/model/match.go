package model

import (
	"time"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
)

type Match struct {
	ID          string            `json:"id"`
	InitiatorID string            `json:"initiator_id"`
	ReceiverID  string            `json:"receiver_id"`
	LikeID      string            `json:"like_id"`
	Comment     string            `json:"comment,omitempty"`
	Status      enums.MatchStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
