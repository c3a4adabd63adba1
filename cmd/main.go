package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lenslive/lens/adapters/live"
	"github.com/lenslive/lens/adapters/memory"
	"github.com/lenslive/lens/adapters/mongo"
	"github.com/lenslive/lens/domain/repositories"
	"github.com/lenslive/lens/internal/api"
	"github.com/lenslive/lens/internal/auth"
	"github.com/lenslive/lens/internal/config"
	"github.com/lenslive/lens/internal/guidance"
	"github.com/lenslive/lens/internal/session"
	"github.com/lenslive/lens/internal/websocket"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	auth.Configure([]byte(cfg.AuthSecret))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Upstream live dialer
	dialer, err := live.NewGeminiDialer(context.Background(), live.Options{
		APIKey:    cfg.GeminiAPIKey,
		ProjectID: cfg.ProjectID,
		Location:  cfg.Location,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create live dialer", zap.Error(err))
	}

	// Session archive: MongoDB when configured, in-memory otherwise
	var archive repositories.SessionArchive
	var mongoClient *mongo.Client
	if cfg.MongoURI != "" {
		mongoClient, err = mongo.NewClient(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		archive = mongo.NewSessionArchive(mongoClient, logger)
	} else {
		logger.Warn("MONGODB_URI not set, session records are kept in memory")
		archive = memory.NewSessionArchive()
	}

	controller := session.NewFailoverController(dialer, repositories.LiveConfig{
		Model:             cfg.Model,
		VoiceName:         cfg.VoiceName,
		SystemInstruction: guidance.SystemInstruction,
		InputSampleRateHz: config.InputSampleRateHz,
		ProactiveAudio:    true,
	}, archive, logger)

	// Initialize WebSocket hub
	hub := websocket.NewHub(controller, config.InputSampleRateHz, logger)
	go hub.Run()

	// Background archive pruning
	retention := websocket.NewArchiveRetentionService(archive, cfg.ArchiveRetention, logger)
	retention.Start()
	defer retention.Stop()

	// Initialize API routes
	api.InitRoutes(e, hub, cfg, logger)

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("model", cfg.Model))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if mongoClient != nil {
		if err := mongoClient.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB connection", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
