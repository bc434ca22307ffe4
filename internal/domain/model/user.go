package model

import (
	"time"

	"github.com/SketchTurnerrr/imago-server/internal/domain/enums"
)

type User struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	DOB            string       `json:"dob"`
	Gender         enums.Gender `json:"gender"`
	Denomination   string       `json:"denomination"`
	Location       string       `json:"location"`
	CustomLocation string       `json:"custom_location"`
	Onboarded      bool         `json:"onboarded"`
	Verified       bool         `json:"verified"`
	RandomKey      float64      `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
