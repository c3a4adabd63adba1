package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Audio formats are fixed by the upstream live API contract.
const (
	InputSampleRateHz  = 16000
	OutputSampleRateHz = 24000
)

// Config is the process configuration, loaded once at startup.
type Config struct {
	Port string

	// Upstream live API. GeminiAPIKey selects the direct Gemini backend;
	// otherwise ProjectID and Location select Vertex AI.
	ProjectID    string
	Location     string
	Model        string
	GeminiAPIKey string
	VoiceName    string

	// Websocket auth. Empty AuthSecret disables auth entirely.
	AuthSecret string
	AccessKey  string

	// Session archive. Empty MongoURI keeps records in memory only.
	MongoURI         string
	MongoDatabase    string
	ArchiveRetention time.Duration
}

// Load reads configuration from the environment, with a .env file as
// convenience for local development.
func Load() (*Config, error) {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		ProjectID:     getEnv("PROJECT_ID", ""),
		Location:      getEnv("LOCATION", "us-central1"),
		Model:         getEnv("MODEL", "gemini-2.5-flash-native-audio-preview-12-2025"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		VoiceName:     getEnv("VOICE_NAME", "Aoede"),
		AuthSecret:    getEnv("AUTH_SECRET", ""),
		AccessKey:     getEnv("ACCESS_KEY", ""),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "lens"),
	}

	retentionHours, err := strconv.Atoi(getEnv("ARCHIVE_RETENTION_HOURS", "720"))
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_RETENTION_HOURS: %w", err)
	}
	cfg.ArchiveRetention = time.Duration(retentionHours) * time.Hour

	if cfg.GeminiAPIKey == "" && cfg.ProjectID == "" {
		return nil, fmt.Errorf("either GEMINI_API_KEY or PROJECT_ID must be set")
	}

	if cfg.AuthSecret != "" && cfg.AccessKey == "" {
		return nil, fmt.Errorf("AUTH_SECRET is set but ACCESS_KEY is not")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
