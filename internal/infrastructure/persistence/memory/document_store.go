package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/wingcash/lending-engine/internal/domain/model"
	"github.com/wingcash/lending-engine/internal/domain/valueobject"
)

// DocumentStore is an in-memory implementation of
// port.AccountDocumentRepository. Documents are deep-copied on both read and
// write so callers never share state with the store.
type DocumentStore struct {
	mu   sync.RWMutex
	data map[string]model.AccountDocument
}

// NewDocumentStore constructs an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{data: make(map[string]model.AccountDocument)}
}

// Get loads the subject document.
func (s *DocumentStore) Get(_ context.Context, subjectID string) (model.AccountDocument, error) {
	s.mu.RLock()
	doc, ok := s.data[subjectID]
	s.mu.RUnlock()
	if !ok {
		return model.AccountDocument{}, fmt.Errorf("%w: subject %q", valueobject.ErrNotFound, subjectID)
	}
	return doc.Clone(), nil
}

// Put overwrites the subject document.
func (s *DocumentStore) Put(_ context.Context, doc model.AccountDocument) error {
	if doc.SubjectID == "" {
		return fmt.Errorf("%w: subject id is required", valueobject.ErrInvalidInput)
	}
	s.mu.Lock()
	s.data[doc.SubjectID] = doc.Clone()
	s.mu.Unlock()
	return nil
}
