package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

const keyPrefix = "lending:account:"

// DocumentStore is a Redis-backed implementation of
// port.AccountDocumentRepository. Each subject document is one JSON value.
type DocumentStore struct {
	client *redis.Client
}

// NewDocumentStore creates a store backed by the Redis server at addr.
func NewDocumentStore(addr string) *DocumentStore {
	return &DocumentStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewDocumentStoreWithClient wraps an existing client (used by tests).
func NewDocumentStoreWithClient(client *redis.Client) *DocumentStore {
	return &DocumentStore{client: client}
}

// Get loads and decodes the subject document. A document that does not
// conform to the schema is an error, never a silent default.
func (s *DocumentStore) Get(ctx context.Context, subjectID string) (model.AccountDocument, error) {
	raw, err := s.client.Get(ctx, keyPrefix+subjectID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.AccountDocument{}, fmt.Errorf("%w: subject %q", valueobject.ErrNotFound, subjectID)
		}
		return model.AccountDocument{}, fmt.Errorf("redis get: %w", err)
	}

	var doc model.AccountDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return model.AccountDocument{}, fmt.Errorf("decode document for subject %q: %w", subjectID, err)
	}
	return doc, nil
}

// Put encodes and overwrites the subject document.
func (s *DocumentStore) Put(ctx context.Context, doc model.AccountDocument) error {
	if doc.SubjectID == "" {
		return fmt.Errorf("%w: subject id is required", valueobject.ErrInvalidInput)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+doc.SubjectID, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *DocumentStore) Close() error {
	return s.client.Close()
}
