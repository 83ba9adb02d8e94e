package configs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const selectConfigColumns = `
SELECT id, name, is_active, positive_threshold, negative_threshold, max_text_length,
       enable_preprocessing, enable_entity_extraction, enable_intent_classification,
       enable_llm_enhancement, created_at, updated_at
FROM analysis_configurations`

// Create inserts a new configuration.
func (r *PGRepo) Create(ctx context.Context, cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO analysis_configurations (
	id, name, is_active, positive_threshold, negative_threshold, max_text_length,
	enable_preprocessing, enable_entity_extraction, enable_intent_classification,
	enable_llm_enhancement, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		cfg.ID,
		cfg.Name,
		false,
		cfg.PositiveThreshold,
		cfg.NegativeThreshold,
		cfg.MaxTextLength,
		cfg.EnablePreprocessing,
		cfg.EnableEntityExtraction,
		cfg.EnableIntentClassification,
		cfg.EnableLLMEnhancement,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateName
	}
	return err
}

// GetByID returns a configuration by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Configuration, error) {
	row := r.DB.QueryRowContext(ctx, selectConfigColumns+` WHERE id = $1 LIMIT 1`, id)
	cfg, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Configuration{}, ErrNotFound
		}
		return Configuration{}, err
	}
	return cfg, nil
}

// GetActive returns the single active configuration.
func (r *PGRepo) GetActive(ctx context.Context) (Configuration, error) {
	row := r.DB.QueryRowContext(ctx, selectConfigColumns+` WHERE is_active LIMIT 1`)
	cfg, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Configuration{}, ErrNotFound
		}
		return Configuration{}, err
	}
	return cfg, nil
}

// List returns all configurations, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Configuration, error) {
	rows, err := r.DB.QueryContext(ctx, selectConfigColumns+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Configuration
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

// Activate deactivates every other configuration and activates the given one
// inside one transaction, so no reader observes zero or two active rows.
func (r *PGRepo) Activate(ctx context.Context, id string) (Configuration, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Configuration{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
UPDATE analysis_configurations SET is_active = FALSE, updated_at = now() WHERE is_active`); err != nil {
		return Configuration{}, err
	}
	res, err := tx.ExecContext(ctx, `
UPDATE analysis_configurations SET is_active = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return Configuration{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Configuration{}, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return Configuration{}, err
	}
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConfig(row rowScanner) (Configuration, error) {
	var cfg Configuration
	err := row.Scan(
		&cfg.ID,
		&cfg.Name,
		&cfg.IsActive,
		&cfg.PositiveThreshold,
		&cfg.NegativeThreshold,
		&cfg.MaxTextLength,
		&cfg.EnablePreprocessing,
		&cfg.EnableEntityExtraction,
		&cfg.EnableIntentClassification,
		&cfg.EnableLLMEnhancement,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	return cfg, err
}
