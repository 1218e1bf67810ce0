package auth

import (
	"time"

	"github.com/angelmondragon/menuflow-backend/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterOwnerRequest creates a restaurant together with its first owner.
type RegisterOwnerRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8,max=128"`
	RestaurantName string `json:"restaurantName" validate:"required,min=2,max=120"`
	Slug           string `json:"slug" validate:"required,min=3,max=80,slug"`
}

// RefreshRequest exchanges a refresh token bound to the presented access token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LoginResponse contains the tokens and the authenticated user. RefreshToken
// is empty when refresh sessions are disabled.
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time      `json:"expiresAt"`
	User         *users.UserDTO `json:"user"`
}
