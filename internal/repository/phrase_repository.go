package repository

import (
	"context"
	"fmt"

	"phrasebook-sync-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type PhraseRepository interface {
	Create(userID string, phrase *domain.Phrase) error
	FindByID(userID, id string) (*domain.Phrase, error)
	List(userID string) ([]*domain.Phrase, error)
	Update(userID string, phrase *domain.Phrase) error
	SaveAll(userID string, phrases []*domain.Phrase) error
}

// phraseDoc wraps a phrase with the owner for the CouchDB selector queries.
type phraseDoc struct {
	UserID string `json:"user_id"`
	domain.Phrase
}

type phraseRepository struct {
	client *kivik.Client
	dbName string
}

func NewPhraseRepository(client *kivik.Client, dbName string) PhraseRepository {
	return &phraseRepository{
		client: client,
		dbName: dbName,
	}
}

func docID(userID, phraseID string) string {
	return fmt.Sprintf("phrase:%s:%s", userID, phraseID)
}

func (r *phraseRepository) Create(userID string, phrase *domain.Phrase) error {
	db := r.client.DB(r.dbName)

	doc := &phraseDoc{UserID: userID, Phrase: *phrase}
	_, err := db.Put(context.Background(), docID(userID, phrase.ID), doc)
	if err != nil {
		return fmt.Errorf("failed to create phrase: %w", err)
	}

	return nil
}

func (r *phraseRepository) FindByID(userID, id string) (*domain.Phrase, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(context.Background(), docID(userID, id))

	var doc phraseDoc
	if err := row.ScanDoc(&doc); err != nil {
		return nil, fmt.Errorf("failed to find phrase: %w", err)
	}

	return &doc.Phrase, nil
}

// List returns the user's full collection, tombstones included. The sync
// engine needs the tombstones to keep deletions from being undone by a
// stale device copy.
func (r *phraseRepository) List(userID string) ([]*domain.Phrase, error) {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"user_id":    userID,
			"updated_at": map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(context.Background(), query)
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list phrases: %w", err)
	}
	defer rows.Close()

	var phrases []*domain.Phrase
	for rows.Next() {
		var doc phraseDoc
		if err := rows.ScanDoc(&doc); err != nil {
			continue
		}
		phrase := doc.Phrase
		phrases = append(phrases, &phrase)
	}

	return phrases, nil
}

func (r *phraseRepository) Update(userID string, phrase *domain.Phrase) error {
	db := r.client.DB(r.dbName)
	id := docID(userID, phrase.ID)

	var existingDoc map[string]interface{}
	row := db.Get(context.Background(), id)
	if err := row.ScanDoc(&existingDoc); err != nil {
		return fmt.Errorf("failed to fetch existing phrase for update: %w", err)
	}

	existingDoc["text"] = phrase.Text
	existingDoc["translation"] = phrase.Translation
	existingDoc["pronunciation"] = phrase.Pronunciation
	existingDoc["category"] = phrase.Category
	existingDoc["usage"] = phrase.Usage
	existingDoc["notes"] = phrase.Notes
	existingDoc["status"] = phrase.Status
	existingDoc["group"] = phrase.Group
	existingDoc["updated_at"] = phrase.UpdatedAt
	existingDoc["deleted"] = phrase.Deleted
	existingDoc["content_key"] = phrase.ContentKey

	if phrase.DeletedAt != nil {
		existingDoc["deleted_at"] = *phrase.DeletedAt
	} else {
		delete(existingDoc, "deleted_at")
	}

	_, err := db.Put(context.Background(), id, existingDoc)
	if err != nil {
		return fmt.Errorf("failed to update phrase: %w", err)
	}

	return nil
}

// SaveAll upserts a full merged collection. Each phrase is written as its
// own document; a failed write leaves the remaining documents at their
// previous revision, and the merge is convergent, so re-running the sync
// repairs a partial save.
func (r *phraseRepository) SaveAll(userID string, phrases []*domain.Phrase) error {
	db := r.client.DB(r.dbName)

	for _, phrase := range phrases {
		id := docID(userID, phrase.ID)

		doc := map[string]interface{}{
			"user_id":       userID,
			"id":            phrase.ID,
			"text":          phrase.Text,
			"translation":   phrase.Translation,
			"pronunciation": phrase.Pronunciation,
			"category":      phrase.Category,
			"usage":         phrase.Usage,
			"notes":         phrase.Notes,
			"status":        phrase.Status,
			"group":         phrase.Group,
			"updated_at":    phrase.UpdatedAt,
			"deleted":       phrase.Deleted,
			"content_key":   phrase.ContentKey,
		}
		if phrase.DeletedAt != nil {
			doc["deleted_at"] = *phrase.DeletedAt
		}

		var existing map[string]interface{}
		row := db.Get(context.Background(), id)
		if err := row.ScanDoc(&existing); err == nil {
			doc["_rev"] = existing["_rev"]
		}

		if _, err := db.Put(context.Background(), id, doc); err != nil {
			return fmt.Errorf("failed to save phrase %s: %w", phrase.ID, err)
		}
	}

	return nil
}
