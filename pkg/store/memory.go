package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps documents in a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Document
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prepare(doc, s.now())
	s.docs[doc.ID] = *doc
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if doc.IsExpired(s.now()) {
		return nil, ErrExpired
	}
	return &doc, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Cleanup(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, doc := range s.docs {
		if doc.IsExpired(now) {
			delete(s.docs, id)
		}
	}
	return nil
}

// Len returns the number of stored documents, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
