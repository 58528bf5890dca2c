package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// DocumentStore is a PostgreSQL-backed implementation of
// port.AccountDocumentRepository storing each subject document as one JSONB
// row with an optimistic version guard.
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore creates a store over the given pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

// EnsureSchema creates the document table if it does not exist.
func (s *DocumentStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS account_documents (
			subject_id TEXT PRIMARY KEY,
			version    INT NOT NULL,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Get loads and decodes the subject document.
func (s *DocumentStore) Get(ctx context.Context, subjectID string) (model.AccountDocument, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM account_documents WHERE subject_id = $1`,
		subjectID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AccountDocument{}, fmt.Errorf("%w: subject %q", valueobject.ErrNotFound, subjectID)
		}
		return model.AccountDocument{}, fmt.Errorf("query document: %w", err)
	}

	var doc model.AccountDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return model.AccountDocument{}, fmt.Errorf("decode document for subject %q: %w", subjectID, err)
	}
	return doc, nil
}

// Put upserts the subject document. The version guard rejects a write based
// on a stale read, surfacing lost-update races instead of absorbing them.
func (s *DocumentStore) Put(ctx context.Context, doc model.AccountDocument) error {
	if doc.SubjectID == "" {
		return fmt.Errorf("%w: subject id is required", valueobject.ErrInvalidInput)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO account_documents (subject_id, version, doc, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject_id) DO UPDATE SET
			version    = EXCLUDED.version,
			doc        = EXCLUDED.doc,
			updated_at = EXCLUDED.updated_at
		WHERE account_documents.version = EXCLUDED.version - 1
	`, doc.SubjectID, doc.Version, payload, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("optimistic locking conflict for subject %q", doc.SubjectID)
	}
	return nil
}
