package configs

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores configurations in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Configuration
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Configuration)}
}

// Create stores the configuration.
func (r *MemoryRepo) Create(ctx context.Context, cfg Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Name == cfg.Name {
			return ErrDuplicateName
		}
	}
	cfg.IsActive = false
	r.byID[cfg.ID] = cfg
	return nil
}

// GetByID returns a configuration by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Configuration, error) {
	if err := ctx.Err(); err != nil {
		return Configuration{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.byID[id]
	if !ok {
		return Configuration{}, ErrNotFound
	}
	return cfg, nil
}

// GetActive returns the single active configuration.
func (r *MemoryRepo) GetActive(ctx context.Context) (Configuration, error) {
	if err := ctx.Err(); err != nil {
		return Configuration{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cfg := range r.byID {
		if cfg.IsActive {
			return cfg, nil
		}
	}
	return Configuration{}, ErrNotFound
}

// List returns all configurations, newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Configuration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Configuration, 0, len(r.byID))
	for _, cfg := range r.byID {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Activate marks the given configuration active and all others inactive.
func (r *MemoryRepo) Activate(ctx context.Context, id string) (Configuration, error) {
	if err := ctx.Err(); err != nil {
		return Configuration{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.byID[id]
	if !ok {
		return Configuration{}, ErrNotFound
	}
	now := time.Now().UTC()
	for otherID, cfg := range r.byID {
		if cfg.IsActive {
			cfg.IsActive = false
			cfg.UpdatedAt = now
			r.byID[otherID] = cfg
		}
	}
	target.IsActive = true
	target.UpdatedAt = now
	r.byID[id] = target
	return target, nil
}
