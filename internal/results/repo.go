package results

import (
	"context"
	"time"
)

// Repo defines relational persistence operations for analysis results.
// The relational store is the system of record; document-store mirroring is
// layered on top by the hybrid persistence service.
type Repo interface {
	Create(ctx context.Context, result AnalysisResult) error
	CreateBatch(ctx context.Context, results []AnalysisResult, batchSize int) error
	GetByID(ctx context.Context, id string) (AnalysisResult, error)
	List(ctx context.Context, filter ListFilter) ([]AnalysisResult, error)
	UpdateSyncStatus(ctx context.Context, id, status string) error
	ListBySyncStatus(ctx context.Context, status string, limit int) ([]AnalysisResult, error)
	SetMetadata(ctx context.Context, id string, metadata map[string]any) error
	Delete(ctx context.Context, id string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ListFilter narrows List queries.
type ListFilter struct {
	SourceType string
	SourceID   string
	Limit      int
	Offset     int
}
