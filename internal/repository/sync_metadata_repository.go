package repository

import (
	"context"
	"fmt"
	"time"

	"phrasebook-sync-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type SyncMetadataRepository interface {
	Get(userID, deviceID string) (*domain.SyncMetadata, error)
	UpdateLastSync(userID, deviceID string, syncTime time.Time) error
}

type syncMetadataRepository struct {
	client *kivik.Client
	dbName string
}

func NewSyncMetadataRepository(client *kivik.Client, dbName string) SyncMetadataRepository {
	return &syncMetadataRepository{
		client: client,
		dbName: dbName,
	}
}

func metaDocID(userID, deviceID string) string {
	return fmt.Sprintf("syncmeta:%s:%s", userID, deviceID)
}

func (r *syncMetadataRepository) Get(userID, deviceID string) (*domain.SyncMetadata, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), metaDocID(userID, deviceID))

	var meta domain.SyncMetadata
	if err := row.ScanDoc(&meta); err != nil {
		return nil, fmt.Errorf("failed to find sync metadata: %w", err)
	}

	return &meta, nil
}

func (r *syncMetadataRepository) UpdateLastSync(userID, deviceID string, syncTime time.Time) error {
	db := r.client.DB(r.dbName)
	id := metaDocID(userID, deviceID)

	doc := map[string]interface{}{
		"user_id":        userID,
		"device_id":      deviceID,
		"last_sync_time": syncTime,
		"updated_at":     time.Now(),
	}

	var existing map[string]interface{}
	row := db.Get(context.Background(), id)
	if err := row.ScanDoc(&existing); err == nil {
		doc["_rev"] = existing["_rev"]
	}

	if _, err := db.Put(context.Background(), id, doc); err != nil {
		return fmt.Errorf("failed to update sync metadata: %w", err)
	}

	return nil
}
