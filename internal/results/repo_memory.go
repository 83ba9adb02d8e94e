package results

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores results in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]AnalysisResult
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]AnalysisResult)}
}

// Create stores the result.
func (r *MemoryRepo) Create(ctx context.Context, result AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if result.SyncStatus == "" {
		result.SyncStatus = SyncPending
	}
	r.byID[result.ID] = result
	return nil
}

// CreateBatch stores all results; batchSize is irrelevant in memory.
func (r *MemoryRepo) CreateBatch(ctx context.Context, batch []AnalysisResult, batchSize int) error {
	for _, result := range batch {
		if err := r.Create(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns a result by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return AnalysisResult{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.byID[id]
	if !ok {
		return AnalysisResult{}, ErrNotFound
	}
	return result, nil
}

// List returns results newest-first with source filtering and limit/offset.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var all []AnalysisResult
	for _, result := range r.byID {
		if filter.SourceType != "" && result.SourceType != filter.SourceType {
			continue
		}
		if filter.SourceID != "" && result.SourceID != filter.SourceID {
			continue
		}
		all = append(all, result)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []AnalysisResult{}, nil
	}
	end := len(all)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// UpdateSyncStatus marks the document-store sync state for one result.
func (r *MemoryRepo) UpdateSyncStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	result.SyncStatus = status
	result.UpdatedAt = time.Now().UTC()
	r.byID[id] = result
	return nil
}

// ListBySyncStatus returns results in the given sync state, oldest first.
func (r *MemoryRepo) ListBySyncStatus(ctx context.Context, status string, limit int) ([]AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []AnalysisResult
	for _, result := range r.byID {
		if result.SyncStatus == status {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SetMetadata replaces the metadata side-channel for one result.
func (r *MemoryRepo) SetMetadata(ctx context.Context, id string, metadata map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	result.Metadata = metadata
	result.UpdatedAt = time.Now().UTC()
	r.byID[id] = result
	return nil
}

// Delete removes a result and its children.
func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// DeleteOlderThan removes results created before cutoff and reports the count.
func (r *MemoryRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, result := range r.byID {
		if result.CreatedAt.Before(cutoff) {
			delete(r.byID, id)
			count++
		}
	}
	return count, nil
}
