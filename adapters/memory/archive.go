package memory

import (
	"context"
	"sync"
	"time"

	"github.com/lenslive/lens/domain/entities"
)

// SessionArchive is an in-memory implementation of the session archive, used
// when no database is configured and in tests.
type SessionArchive struct {
	mu      sync.Mutex
	records map[string]*entities.GuidanceSession
}

// NewSessionArchive creates an empty in-memory archive.
func NewSessionArchive() *SessionArchive {
	return &SessionArchive{
		records: make(map[string]*entities.GuidanceSession),
	}
}

// Save implements repositories.SessionArchive
func (a *SessionArchive) Save(ctx context.Context, record *entities.GuidanceSession) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records[record.ID] = record
	return nil
}

// Prune implements repositories.SessionArchive
func (a *SessionArchive) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var deleted int64
	for id, record := range a.records {
		if record.EndedAt.Before(olderThan) {
			delete(a.records, id)
			deleted++
		}
	}
	return deleted, nil
}

// Get returns a stored record, or nil when absent.
func (a *SessionArchive) Get(id string) *entities.GuidanceSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.records[id]
}

// Len reports how many records are stored.
func (a *SessionArchive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}
