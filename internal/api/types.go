package api

import "time"

// ErrorResponse is the common error body for REST endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SessionTokenRequest asks for a websocket session token.
type SessionTokenRequest struct {
	AccessKey string `json:"access_key"`
}

// SessionTokenResponse carries the issued token.
type SessionTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
