package observability

import (
	"context"
	"time"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/port"
)

// InstrumentedStore decorates an AccountDocumentRepository with Prometheus
// metrics.
type InstrumentedStore struct {
	next    port.AccountDocumentRepository
	metrics *StoreMetrics
}

// NewInstrumentedStore wraps the given repository.
func NewInstrumentedStore(next port.AccountDocumentRepository, metrics *StoreMetrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

// Get delegates and records the observation.
func (s *InstrumentedStore) Get(ctx context.Context, subjectID string) (model.AccountDocument, error) {
	start := time.Now()
	doc, err := s.next.Get(ctx, subjectID)
	s.metrics.Observe("get", time.Since(start).Seconds(), err)
	return doc, err
}

// Put delegates and records the observation.
func (s *InstrumentedStore) Put(ctx context.Context, doc model.AccountDocument) error {
	start := time.Now()
	err := s.next.Put(ctx, doc)
	s.metrics.Observe("put", time.Since(start).Seconds(), err)
	return err
}
