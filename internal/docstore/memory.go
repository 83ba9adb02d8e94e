package docstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Setting Unreachable simulates a document-store outage.
type MemoryStore struct {
	mu          sync.Mutex
	docs        map[string]Document
	Unreachable bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Document)}
}

func (s *MemoryStore) Put(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return ErrUnavailable
	}
	s.docs[doc.RelationalID] = doc
	return nil
}

func (s *MemoryStore) PutBatch(ctx context.Context, docs []Document) []error {
	errs := make([]error, len(docs))
	for i, doc := range docs {
		errs[i] = s.Put(ctx, doc)
	}
	return errs
}

func (s *MemoryStore) Get(ctx context.Context, relationalID string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return Document{}, ErrUnavailable
	}
	doc, ok := s.docs[relationalID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) List(ctx context.Context, sourceType string, limit int) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return nil, ErrUnavailable
	}
	var out []Document
	for _, doc := range s.docs {
		if sourceType != "" && doc.SourceType != sourceType {
			continue
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, relationalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return ErrUnavailable
	}
	delete(s.docs, relationalID)
	return nil
}

func (s *MemoryStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return 0, ErrUnavailable
	}
	deleted := 0
	for id, doc := range s.docs {
		if doc.CreatedAt.Before(cutoff) {
			delete(s.docs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Unreachable {
		return ErrUnavailable
	}
	return nil
}

// Len reports how many documents the store holds.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
