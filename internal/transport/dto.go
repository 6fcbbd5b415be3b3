package transport

import "github.com/victorgmp/SGPC-auth/internal/domain"

// Request fields are pointers so a missing field can be told apart from an
// empty one.

type SignRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type RefreshTokenRequest struct {
	UserID       *string `json:"userId"`
	RefreshToken *string `json:"refreshToken"`
}

type AuthResponse struct {
	RefreshToken string      `json:"refreshToken"`
	Token        string      `json:"token"`
	Auth         domain.Auth `json:"auth"`
}

type VerifyAccessTokenRequest struct {
	Token *string `json:"token"`
}

type GetByUserIDsRequest struct {
	UserIDs []string `json:"userIds"`
}

type DeleteByUserIDRequest struct {
	UserID *string `json:"userId"`
}

type RPCError struct {
	Error string `json:"error"`
}

// Event payloads.

type UserEvent struct {
	UserID string `json:"userId"`
}

type HealthzEvent struct {
	Service string `json:"service"`
}
