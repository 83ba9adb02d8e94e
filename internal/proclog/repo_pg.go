package proclog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo appends log entries to the processing_logs table.
type PGRepo struct {
	DB *sql.DB
}

// NewPGRepo constructs a PGRepo.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Append(ctx context.Context, entry Entry) error {
	var contextJSON any
	if len(entry.Context) > 0 {
		raw, err := json.Marshal(entry.Context)
		if err != nil {
			return fmt.Errorf("marshal log context: %w", err)
		}
		contextJSON = raw
	}

	var resultID any
	if entry.AnalysisResultID != "" {
		resultID = entry.AnalysisResultID
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO processing_logs (id, level, message, source_type, result_id, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Level, entry.Message, entry.SourceType, resultID, contextJSON, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append processing log: %w", err)
	}
	return nil
}
