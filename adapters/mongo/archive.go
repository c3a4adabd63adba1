package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/lenslive/lens/domain/entities"
	"github.com/lenslive/lens/domain/repositories"
)

const archiveCollection = "guidance_sessions"

// SessionArchive is the MongoDB implementation of the session archive.
type SessionArchive struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewSessionArchive creates a MongoDB-backed session archive.
func NewSessionArchive(client *Client, logger *zap.Logger) repositories.SessionArchive {
	return &SessionArchive{
		collection: client.Database.Collection(archiveCollection),
		logger:     logger,
	}
}

// Save implements repositories.SessionArchive
func (a *SessionArchive) Save(ctx context.Context, record *entities.GuidanceSession) error {
	opts := options.Replace().SetUpsert(true)
	_, err := a.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts)
	if err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}
	return nil
}

// Prune implements repositories.SessionArchive
func (a *SessionArchive) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := a.collection.DeleteMany(ctx, bson.M{
		"ended_at": bson.M{"$lt": olderThan},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune session records: %w", err)
	}
	return result.DeletedCount, nil
}
