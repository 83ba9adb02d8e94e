package proclog

import (
	"context"
	"sync"
)

// MemoryRepo keeps entries in memory for tests and local development.
type MemoryRepo struct {
	mu      sync.Mutex
	entries []Entry
	Fail    bool
}

// NewMemoryRepo returns an empty repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Append(ctx context.Context, entry Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail {
		return context.DeadlineExceeded
	}
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of everything appended so far.
func (r *MemoryRepo) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
