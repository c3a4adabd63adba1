package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Location != "us-central1" {
		t.Errorf("Expected default location us-central1, got %s", cfg.Location)
	}
	if cfg.Model == "" {
		t.Error("Expected a default model")
	}
	if cfg.VoiceName != "Aoede" {
		t.Errorf("Expected default voice Aoede, got %s", cfg.VoiceName)
	}
	if cfg.ArchiveRetention != 720*time.Hour {
		t.Errorf("Expected default retention 720h, got %s", cfg.ArchiveRetention)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PROJECT_ID", "")

	if _, err := Load(); err == nil {
		t.Error("Load should fail without an API key or project ID")
	}
}

func TestLoadVertexBackend(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PROJECT_ID", "my-project")
	t.Setenv("LOCATION", "europe-west4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ProjectID != "my-project" {
		t.Errorf("Expected project my-project, got %s", cfg.ProjectID)
	}
	if cfg.Location != "europe-west4" {
		t.Errorf("Expected location europe-west4, got %s", cfg.Location)
	}
}

func TestLoadRejectsBadRetention(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ARCHIVE_RETENTION_HOURS", "soon")

	if _, err := Load(); err == nil {
		t.Error("Load should reject a non-numeric retention")
	}
}

func TestLoadRequiresAccessKeyWithAuth(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("AUTH_SECRET", "secret")
	t.Setenv("ACCESS_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("Load should fail when AUTH_SECRET is set without ACCESS_KEY")
	}
}
