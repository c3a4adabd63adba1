package repositories

import (
	"context"
	"time"

	"github.com/lenslive/lens/domain/entities"
)

// SessionArchive persists finished guidance sessions for later review.
type SessionArchive interface {
	// Save stores the record of a closed session. Best effort: callers log a
	// failure but never fail the session over it.
	Save(ctx context.Context, record *entities.GuidanceSession) error

	// Prune deletes records older than the cutoff and reports how many went.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
}
