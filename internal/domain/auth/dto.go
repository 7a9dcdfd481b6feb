package auth

import (
	"github.com/Gayasri72/Hotline-Backend/internal/domain/user"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest carries the refresh token to revoke
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokensResponse carries a freshly issued token pair
type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthResponse is the login/refresh response body
type AuthResponse struct {
	User   user.UserResponse `json:"user"`
	Tokens TokensResponse    `json:"tokens"`
}
