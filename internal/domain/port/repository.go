package port

import (
	"context"

	"github.com/wingcash/lending-engine/internal/domain/event"
	"github.com/wingcash/lending-engine/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// AccountDocumentRepository persists and retrieves the per-subject account
// document. Get returns valueobject.ErrNotFound (possibly wrapped) when no
// document exists for the subject. Put overwrites the whole document; the
// engine performs read-modify-write as one unit per operation.
type AccountDocumentRepository interface {
	Get(ctx context.Context, subjectID string) (model.AccountDocument, error)
	Put(ctx context.Context, doc model.AccountDocument) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
