package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"` // "caller"
	jwt.RegisteredClaims
}

// jwtSecret is set once at startup from configuration.
var jwtSecret []byte

// Configure installs the signing secret. Empty means auth is disabled and
// the websocket endpoint accepts unauthenticated connections.
func Configure(secret []byte) {
	jwtSecret = secret
}

// Enabled reports whether a signing secret was configured.
func Enabled() bool {
	return len(jwtSecret) > 0
}

// GenerateSessionToken generates a short-lived JWT for one caller. An
// emergency session should never outlive this.
func GenerateSessionToken(sessionID string) (string, error) {
	claims := &JWTClaims{
		SessionID: sessionID,
		Role:      "caller",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
