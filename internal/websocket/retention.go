package websocket

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lenslive/lens/domain/repositories"
)

// ArchiveRetentionService prunes old session records in the background.
type ArchiveRetentionService struct {
	archive  repositories.SessionArchive
	maxAge   time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewArchiveRetentionService creates a new retention service
func NewArchiveRetentionService(archive repositories.SessionArchive, maxAge time.Duration, logger *zap.Logger) *ArchiveRetentionService {
	return &ArchiveRetentionService{
		archive:  archive,
		maxAge:   maxAge,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the background pruning process
func (s *ArchiveRetentionService) Start() {
	go s.pruneLoop()
	s.logger.Info("Archive retention service started", zap.Duration("maxAge", s.maxAge))
}

// Stop gracefully stops the retention service
func (s *ArchiveRetentionService) Stop() {
	close(s.stopChan)
	s.logger.Info("Archive retention service stopped")
}

// pruneLoop runs the pruning process periodically
func (s *ArchiveRetentionService) pruneLoop() {
	// Run pruning every 30 minutes
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	// Run initial pruning after 1 minute
	initialTimer := time.NewTimer(1 * time.Minute)
	defer initialTimer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-initialTimer.C:
			s.runPrune()
			// Initial timer only runs once
		case <-ticker.C:
			s.runPrune()
		}
	}
}

// runPrune deletes records older than the retention window
func (s *ArchiveRetentionService) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := s.archive.Prune(ctx, time.Now().Add(-s.maxAge))
	if err != nil {
		s.logger.Error("Failed to prune session archive", zap.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("Session archive pruned", zap.Int64("deleted", deleted))
	}
}
