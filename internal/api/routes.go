package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lenslive/lens/internal/auth"
	"github.com/lenslive/lens/internal/config"
	"github.com/lenslive/lens/internal/websocket"
)

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, hub *websocket.Hub, cfg *config.Config, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "lens-server",
		})
	})

	// Prometheus scrape endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 routes
	v1 := e.Group("/api/v1")

	v1.POST("/session/token", func(c echo.Context) error {
		return issueSessionToken(c, cfg, logger)
	})

	// WebSocket endpoint, JWT-guarded when a secret is configured
	e.GET("/ws", func(c echo.Context) error {
		return websocketWithAuth(hub, c, logger)
	})
}

// issueSessionToken exchanges the shared access key for a short-lived
// websocket token.
func issueSessionToken(c echo.Context, cfg *config.Config, logger *zap.Logger) error {
	if !auth.Enabled() {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "auth_disabled",
			Message: "Token issuance is disabled on this deployment",
		})
	}

	var req SessionTokenRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind token request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.AccessKey), []byte(cfg.AccessKey)) != 1 {
		logger.Warn("Token request rejected: bad access key")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid access key",
		})
	}

	token, err := auth.GenerateSessionToken(uuid.NewString())
	if err != nil {
		logger.Error("Failed to generate session token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, SessionTokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(1 * time.Hour),
	})
}

// websocketWithAuth handles WebSocket connections with JWT authentication
func websocketWithAuth(hub *websocket.Hub, c echo.Context, logger *zap.Logger) error {
	if !auth.Enabled() {
		return websocket.HandleWebSocket(hub, c, logger)
	}

	// Browsers cannot set headers on websocket upgrades, so accept the token
	// from either the Authorization header or a query parameter.
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" && len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	if token == "" {
		logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	if claims.Role != "caller" {
		logger.Warn("WebSocket connection rejected: invalid role",
			zap.String("role", claims.Role))
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only caller tokens are allowed for WebSocket connections",
		})
	}

	logger.Info("WebSocket connection authenticated",
		zap.String("token_session_id", claims.SessionID))

	return websocket.HandleWebSocket(hub, c, logger)
}
