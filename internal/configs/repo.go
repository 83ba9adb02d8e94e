package configs

import "context"

// Repo defines persistence operations for configurations.
type Repo interface {
	Create(ctx context.Context, cfg Configuration) error
	GetByID(ctx context.Context, id string) (Configuration, error)
	GetActive(ctx context.Context) (Configuration, error)
	List(ctx context.Context) ([]Configuration, error)
	// Activate marks the given configuration active and all others inactive
	// in one atomic operation.
	Activate(ctx context.Context, id string) (Configuration, error)
}
