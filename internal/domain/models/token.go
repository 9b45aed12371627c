package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DriverClaims are the claims of an access token. Subject holds the driver id.
type DriverClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}
