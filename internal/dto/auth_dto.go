package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ClientInfo is what the audit trail records about the caller.
type ClientInfo struct {
	IpAddress string
	UserAgent string
}

type UserBasic struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User       UserBasic `json:"user"`
	Message    string    `json:"message"`
	HasProfile bool      `json:"has_profile"`
}

// AuthTokens never leave the server as JSON; controllers turn them into cookies.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserWithProfile struct {
	Id        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"created_at"`
	Profile   *ProfileResponse `json:"profile"`
}
