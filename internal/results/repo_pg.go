package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

const insertResultQuery = `
INSERT INTO analysis_results (
	id, text_content, processed_text, source_type, source_id,
	language, language_confidence, sentiment, sentiment_score, sentiment_confidence,
	word_count, sentence_count, readability_score, processing_time, configuration_id,
	truncated, llm_enhanced, sync_status, metadata, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

// Create inserts a result and its entities/intents as one transaction.
func (r *PGRepo) Create(ctx context.Context, result AnalysisResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertResultTx(ctx, tx, result); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateBatch inserts results in chunks of batchSize, each chunk one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, batch []AnalysisResult, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 100
	}
	for start := 0; start < len(batch); start += batchSize {
		end := start + batchSize
		if end > len(batch) {
			end = len(batch)
		}
		tx, err := r.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		for _, result := range batch[start:end] {
			if err := result.Validate(); err != nil {
				tx.Rollback()
				return fmt.Errorf("%w: %v", ErrInvalid, err)
			}
			if err := insertResultTx(ctx, tx, result); err != nil {
				tx.Rollback()
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func insertResultTx(ctx context.Context, tx *sql.Tx, result AnalysisResult) error {
	metadata, err := marshalJSONB(result.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, insertResultQuery,
		result.ID,
		result.TextContent,
		result.ProcessedText,
		result.SourceType,
		result.SourceID,
		result.Language,
		result.LanguageConfidence,
		result.Sentiment,
		result.SentimentScore,
		result.SentimentConfidence,
		result.WordCount,
		result.SentenceCount,
		result.ReadabilityScore,
		result.ProcessingTime,
		nullIfEmpty(result.ConfigurationID),
		result.Truncated,
		result.LLMEnhanced,
		defaultSyncStatus(result.SyncStatus),
		metadata,
		result.CreatedAt,
		result.UpdatedAt,
	)
	if err != nil {
		return err
	}

	for _, entity := range result.Entities {
		id := entity.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO analysis_entities (id, result_id, entity_text, entity_type, start_position, end_position, confidence_score)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, result.ID, entity.Text, string(entity.Type), entity.StartPosition, entity.EndPosition, entity.Confidence,
		); err != nil {
			return err
		}
	}
	for _, intent := range result.Intents {
		id := intent.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO analysis_intents (id, result_id, intent_type, confidence_score)
VALUES ($1, $2, $3, $4)`,
			id, result.ID, intent.Type, intent.Confidence,
		); err != nil {
			return err
		}
	}
	return nil
}

const selectResultColumns = `
SELECT id, text_content, processed_text, source_type, source_id,
       language, language_confidence, sentiment, sentiment_score, sentiment_confidence,
       word_count, sentence_count, readability_score, processing_time, configuration_id,
       truncated, llm_enhanced, sync_status, metadata, created_at, updated_at
FROM analysis_results`

// GetByID returns a result with its entities and intents.
func (r *PGRepo) GetByID(ctx context.Context, id string) (AnalysisResult, error) {
	row := r.DB.QueryRowContext(ctx, selectResultColumns+` WHERE id = $1 LIMIT 1`, id)
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AnalysisResult{}, ErrNotFound
		}
		return AnalysisResult{}, err
	}
	if err := r.loadChildren(ctx, &result); err != nil {
		return AnalysisResult{}, err
	}
	return result, nil
}

// List returns results newest-first, filtered by source when provided.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]AnalysisResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var where []string
	var args []any
	if filter.SourceType != "" {
		args = append(args, filter.SourceType)
		where = append(where, fmt.Sprintf("source_type = $%d", len(args)))
	}
	if filter.SourceID != "" {
		args = append(args, filter.SourceID)
		where = append(where, fmt.Sprintf("source_id = $%d", len(args)))
	}
	query := selectResultColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateSyncStatus marks the document-store sync state for one result.
func (r *PGRepo) UpdateSyncStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE analysis_results SET sync_status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySyncStatus returns results awaiting reconciliation, oldest first.
func (r *PGRepo) ListBySyncStatus(ctx context.Context, status string, limit int) ([]AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, selectResultColumns+`
 WHERE sync_status = $1 ORDER BY created_at ASC LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetMetadata replaces the metadata side-channel for one result.
func (r *PGRepo) SetMetadata(ctx context.Context, id string, metadata map[string]any) error {
	payload, err := marshalJSONB(metadata)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
UPDATE analysis_results SET metadata = $1::jsonb, updated_at = now() WHERE id = $2`, payload, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a result; entities and intents cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analysis_results WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes results created before cutoff and reports the count.
func (r *PGRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analysis_results WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *PGRepo) loadChildren(ctx context.Context, result *AnalysisResult) error {
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, entity_text, entity_type, start_position, end_position, confidence_score
FROM analysis_entities WHERE result_id = $1 ORDER BY start_position ASC`, result.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e Entity
		var entityType string
		if err := rows.Scan(&e.ID, &e.Text, &entityType, &e.StartPosition, &e.EndPosition, &e.Confidence); err != nil {
			return err
		}
		e.Type = EntityType(entityType)
		result.Entities = append(result.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	intentRows, err := r.DB.QueryContext(ctx, `
SELECT id, intent_type, confidence_score
FROM analysis_intents WHERE result_id = $1 ORDER BY confidence_score DESC`, result.ID)
	if err != nil {
		return err
	}
	defer intentRows.Close()
	for intentRows.Next() {
		var in Intent
		if err := intentRows.Scan(&in.ID, &in.Type, &in.Confidence); err != nil {
			return err
		}
		result.Intents = append(result.Intents, in)
	}
	return intentRows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (AnalysisResult, error) {
	var result AnalysisResult
	var readability sql.NullFloat64
	var configurationID sql.NullString
	var metadata sql.NullString
	err := row.Scan(
		&result.ID,
		&result.TextContent,
		&result.ProcessedText,
		&result.SourceType,
		&result.SourceID,
		&result.Language,
		&result.LanguageConfidence,
		&result.Sentiment,
		&result.SentimentScore,
		&result.SentimentConfidence,
		&result.WordCount,
		&result.SentenceCount,
		&readability,
		&result.ProcessingTime,
		&configurationID,
		&result.Truncated,
		&result.LLMEnhanced,
		&result.SyncStatus,
		&metadata,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		return AnalysisResult{}, err
	}
	if readability.Valid {
		result.ReadabilityScore = &readability.Float64
	}
	if configurationID.Valid {
		result.ConfigurationID = configurationID.String
	}
	if metadata.Valid {
		result.Metadata = map[string]any{}
		if err := json.Unmarshal([]byte(metadata.String), &result.Metadata); err != nil {
			result.Metadata = nil
		}
	}
	return result, nil
}

func marshalJSONB(value map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func defaultSyncStatus(s string) string {
	if s == "" {
		return SyncPending
	}
	return s
}
