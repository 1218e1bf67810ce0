package auth

import (
	"github.com/angelmondragon/menuflow-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID       uuid.UUID
	Role         enums.UserRole
	RestaurantID *uuid.UUID
	JTI          string
}

// AccessTokenClaims represents the typed JWT issued to dashboard users.
type AccessTokenClaims struct {
	UserID       uuid.UUID      `json:"user_id"`
	Role         enums.UserRole `json:"role"`
	RestaurantID *uuid.UUID     `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}

// Payload rebuilds the mint payload from parsed claims, used when rotating sessions.
func (c *AccessTokenClaims) Payload(jti string) AccessTokenPayload {
	return AccessTokenPayload{
		UserID:       c.UserID,
		Role:         c.Role,
		RestaurantID: c.RestaurantID,
		JTI:          jti,
	}
}
