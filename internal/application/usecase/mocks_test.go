package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/wingcash/lending-engine/internal/domain/event"
	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// mockDocumentRepository is a function-field test double for
// port.AccountDocumentRepository. Unset functions fall back to an in-memory
// map so stateful flows can run against it directly.
type mockDocumentRepository struct {
	mu    sync.Mutex
	docs  map[string]model.AccountDocument
	puts  []model.AccountDocument
	getFn func(ctx context.Context, subjectID string) (model.AccountDocument, error)
	putFn func(ctx context.Context, doc model.AccountDocument) error
}

func newMockDocumentRepository() *mockDocumentRepository {
	return &mockDocumentRepository{docs: make(map[string]model.AccountDocument)}
}

func (m *mockDocumentRepository) Get(ctx context.Context, subjectID string) (model.AccountDocument, error) {
	if m.getFn != nil {
		return m.getFn(ctx, subjectID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[subjectID]
	if !ok {
		return model.AccountDocument{}, fmt.Errorf("%w: subject %q", valueobject.ErrNotFound, subjectID)
	}
	return doc.Clone(), nil
}

func (m *mockDocumentRepository) Put(ctx context.Context, doc model.AccountDocument) error {
	m.mu.Lock()
	m.puts = append(m.puts, doc.Clone())
	m.mu.Unlock()
	if m.putFn != nil {
		return m.putFn(ctx, doc)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.SubjectID] = doc.Clone()
	return nil
}

func (m *mockDocumentRepository) seed(doc model.AccountDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.SubjectID] = doc.Clone()
}

func (m *mockDocumentRepository) putCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.puts)
}

func (m *mockDocumentRepository) lastPut() model.AccountDocument {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts[len(m.puts)-1]
}

// mockEventPublisher records every published event.
type mockEventPublisher struct {
	mu        sync.Mutex
	events    []event.DomainEvent
	publishFn func(ctx context.Context, events ...event.DomainEvent) error
}

func newMockEventPublisher() *mockEventPublisher {
	return &mockEventPublisher{}
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, events...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *mockEventPublisher) published() []event.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *mockEventPublisher) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType())
	}
	return types
}
