package dto

import "time"

type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DOB            string    `json:"dob,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Denomination   string    `json:"denomination,omitempty"`
	Location       string    `json:"location,omitempty"`
	CustomLocation string    `json:"custom_location,omitempty"`
	Onboarded      bool      `json:"onboarded"`
	Verified       bool      `json:"verified"`
	CreatedAt      time.Time `json:"created_at"`
}

type PhotoResponse struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
}

type PromptResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ProfileResponse struct {
	User    UserResponse     `json:"user"`
	Photos  []PhotoResponse  `json:"photos"`
	Prompts []PromptResponse `json:"prompts"`
}

type UpdateMeRequest struct {
	Name           *string `json:"name"`
	DOB            *string `json:"dob"`
	Gender         *string `json:"gender"`
	Denomination   *string `json:"denomination"`
	Location       *string `json:"location"`
	CustomLocation *string `json:"custom_location"`
	Onboarded      *bool   `json:"onboarded"`
	Verified       *bool   `json:"verified"`
}
