package configs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// Service owns configuration lifecycle and the process-wide active register.
// Readers load the active configuration through an atomic pointer so analyze
// calls never observe a half-swapped configuration; activation requests are
// serialized by a mutex, last writer wins.
type Service struct {
	Repo Repo

	activateMu sync.Mutex
	active     atomic.Pointer[Configuration]
}

// NewService constructs a Service and primes the register from the repo.
func NewService(ctx context.Context, repo Repo, fallback Configuration) (*Service, error) {
	s := &Service{Repo: repo}

	active, err := repo.GetActive(ctx)
	if errors.Is(err, ErrNotFound) {
		// First boot: seed and activate the fallback built from env.
		fallback.ID = uuid.NewString()
		now := time.Now().UTC()
		fallback.CreatedAt = now
		fallback.UpdatedAt = now
		if err := repo.Create(ctx, fallback); err != nil {
			return nil, err
		}
		active, err = repo.Activate(ctx, fallback.ID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	s.active.Store(&active)
	return s, nil
}

// Active returns the currently active configuration.
func (s *Service) Active() Configuration {
	return *s.active.Load()
}

// Create stores a new inactive configuration.
func (s *Service) Create(ctx context.Context, cfg Configuration) (Configuration, error) {
	if err := cfg.Validate(); err != nil {
		return Configuration{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.ID = uuid.NewString()
	cfg.IsActive = false
	now := time.Now().UTC()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	if err := s.Repo.Create(ctx, cfg); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// Get returns one configuration.
func (s *Service) Get(ctx context.Context, id string) (Configuration, error) {
	return s.Repo.GetByID(ctx, id)
}

// List returns all configurations.
func (s *Service) List(ctx context.Context) ([]Configuration, error) {
	return s.Repo.List(ctx)
}

// Activate makes the given configuration the single active one and swaps the
// register. Concurrent activations are serialized; the last to commit wins.
func (s *Service) Activate(ctx context.Context, id string) (Configuration, error) {
	s.activateMu.Lock()
	defer s.activateMu.Unlock()

	activated, err := s.Repo.Activate(ctx, id)
	if err != nil {
		return Configuration{}, err
	}
	s.active.Store(&activated)
	telemetry.Info("configuration.activated", map[string]any{
		"configuration_id":   activated.ID,
		"configuration_name": activated.Name,
	})
	return activated, nil
}
