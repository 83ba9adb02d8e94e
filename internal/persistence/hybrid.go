package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/proclog"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// Service is the hybrid dual-store layer. The relational repo is the system
// of record: a write is successful once the relational commit lands. The
// document store is mirrored best-effort; a failed mirror marks the record
// sync_failed for the reconciler instead of rolling anything back.
type Service struct {
	Repo     results.Repo
	Docs     docstore.Store
	Logger   *proclog.Logger
	DocsOn   bool
	Timeout  time.Duration
	BulkSize int
}

// NewService constructs the hybrid layer. docs may be nil when the document
// store is disabled.
func NewService(repo results.Repo, docs docstore.Store, logger *proclog.Logger, timeout time.Duration, bulkSize int) *Service {
	return &Service{
		Repo:     repo,
		Docs:     docs,
		Logger:   logger,
		DocsOn:   docs != nil,
		Timeout:  timeout,
		BulkSize: bulkSize,
	}
}

// Save writes one result: relational commit first, then the document-store
// mirror. The returned result carries the final sync status.
func (s *Service) Save(ctx context.Context, result results.AnalysisResult) (results.AnalysisResult, error) {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now
	result.SyncStatus = results.SyncPending

	if err := result.Validate(); err != nil {
		return results.AnalysisResult{}, fmt.Errorf("%w: %v", results.ErrInvalid, err)
	}
	if err := s.Repo.Create(ctx, result); err != nil {
		return results.AnalysisResult{}, fmt.Errorf("relational create: %w", err)
	}

	result.SyncStatus = s.mirror(ctx, result)
	return result, nil
}

// mirror pushes one result to the document store and records the outcome on
// the relational row. Returns the resulting sync status.
func (s *Service) mirror(ctx context.Context, result results.AnalysisResult) string {
	if !s.DocsOn {
		// No document store configured: the relational store alone is
		// authoritative and the record is considered synced.
		s.markSync(ctx, result.ID, results.SyncSynced)
		return results.SyncSynced
	}

	docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.Docs.Put(docCtx, docstore.FromResult(result)); err != nil {
		metrics.IncDocSyncFailed()
		telemetry.Warn("persistence.doc_sync_failed", map[string]any{
			"resultId": result.ID,
			"error":    err.Error(),
		})
		if s.Logger != nil {
			s.Logger.Error("document store sync failed", result.SourceType, result.ID,
				map[string]any{"error": err.Error()})
		}
		s.markSync(ctx, result.ID, results.SyncFailed)
		return results.SyncFailed
	}

	s.markSync(ctx, result.ID, results.SyncSynced)
	s.setDocRef(ctx, result.ID)
	return results.SyncSynced
}

func (s *Service) markSync(ctx context.Context, id, status string) {
	if err := s.Repo.UpdateSyncStatus(detach(ctx), id, status); err != nil {
		telemetry.Error("persistence.sync_status_update_failed", map[string]any{
			"resultId": id,
			"status":   status,
			"error":    err.Error(),
		})
	}
}

// setDocRef records the cross-store reference on the metadata side channel.
func (s *Service) setDocRef(ctx context.Context, id string) {
	meta := map[string]any{"documentRef": docRef(id)}
	if err := s.Repo.SetMetadata(detach(ctx), id, meta); err != nil {
		telemetry.Warn("persistence.metadata_update_failed", map[string]any{
			"resultId": id,
			"error":    err.Error(),
		})
	}
}

func docRef(id string) string {
	return "analysis_results/" + id
}

// ItemOutcome is the per-item report of a bulk save.
type ItemOutcome struct {
	Result results.AnalysisResult
	Err    error
}

// SaveBulk writes many results: relational inserts in configured batches,
// then one aggregate document-store mirror. Failures are reported per item;
// there is no all-or-nothing rollback.
func (s *Service) SaveBulk(ctx context.Context, items []results.AnalysisResult) []ItemOutcome {
	outcomes := make([]ItemOutcome, len(items))

	valid := make([]results.AnalysisResult, 0, len(items))
	validIdx := make([]int, 0, len(items))
	now := time.Now().UTC()
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}
		item.UpdatedAt = now
		item.SyncStatus = results.SyncPending
		if err := item.Validate(); err != nil {
			outcomes[i] = ItemOutcome{Err: fmt.Errorf("%w: %v", results.ErrInvalid, err)}
			continue
		}
		outcomes[i] = ItemOutcome{Result: item}
		valid = append(valid, item)
		validIdx = append(validIdx, i)
	}

	if len(valid) == 0 {
		return outcomes
	}

	// Chunked commits: a failing chunk only fails its own items, chunks
	// already committed stay reported as successes.
	size := s.BulkSize
	if size <= 0 {
		size = 100
	}
	committed := make([]results.AnalysisResult, 0, len(valid))
	committedIdx := make([]int, 0, len(valid))
	for start := 0; start < len(valid); start += size {
		end := start + size
		if end > len(valid) {
			end = len(valid)
		}
		if err := s.Repo.CreateBatch(ctx, valid[start:end], size); err != nil {
			for _, i := range validIdx[start:end] {
				outcomes[i] = ItemOutcome{Err: fmt.Errorf("relational create: %w", err)}
			}
			continue
		}
		committed = append(committed, valid[start:end]...)
		committedIdx = append(committedIdx, validIdx[start:end]...)
	}
	if len(committed) == 0 {
		return outcomes
	}

	if !s.DocsOn {
		for _, i := range committedIdx {
			s.markSync(ctx, outcomes[i].Result.ID, results.SyncSynced)
			outcomes[i].Result.SyncStatus = results.SyncSynced
		}
		return outcomes
	}

	docs := make([]docstore.Document, len(committed))
	for j, item := range committed {
		docs[j] = docstore.FromResult(item)
	}
	docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	docErrs := s.Docs.PutBatch(docCtx, docs)
	for j, i := range committedIdx {
		if docErrs[j] != nil {
			metrics.IncDocSyncFailed()
			s.markSync(ctx, outcomes[i].Result.ID, results.SyncFailed)
			outcomes[i].Result.SyncStatus = results.SyncFailed
			continue
		}
		s.markSync(ctx, outcomes[i].Result.ID, results.SyncSynced)
		s.setDocRef(ctx, outcomes[i].Result.ID)
		outcomes[i].Result.SyncStatus = results.SyncSynced
	}
	return outcomes
}

// Get prefers the document store for reads and falls back transparently to
// the relational store on miss or outage. Absent in both stores is
// ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (results.AnalysisResult, error) {
	if s.DocsOn {
		docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		doc, err := s.Docs.Get(docCtx, id)
		cancel()
		if err == nil {
			return doc.ToResult(), nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			telemetry.Warn("persistence.doc_read_failed", map[string]any{
				"resultId": id,
				"error":    err.Error(),
			})
		}
	}
	return s.Repo.GetByID(ctx, id)
}

// List prefers the document store when the filter fits its query surface
// (source-id filtering and offsets exist only relationally) and falls back
// transparently on outage.
func (s *Service) List(ctx context.Context, filter results.ListFilter) ([]results.AnalysisResult, error) {
	if s.DocsOn && filter.SourceID == "" && filter.Offset == 0 {
		docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		docs, err := s.Docs.List(docCtx, filter.SourceType, filter.Limit)
		cancel()
		if err == nil {
			out := make([]results.AnalysisResult, len(docs))
			for i, doc := range docs {
				out[i] = doc.ToResult()
			}
			return out, nil
		}
		telemetry.Warn("persistence.doc_list_failed", map[string]any{
			"error": err.Error(),
		})
	}
	return s.Repo.List(ctx, filter)
}

// Delete removes one result from both stores. The relational delete is
// authoritative; a document-store failure is logged, not surfaced.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.DocsOn {
		docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()
		if err := s.Docs.Delete(docCtx, id); err != nil {
			telemetry.Warn("persistence.doc_delete_failed", map[string]any{
				"resultId": id,
				"error":    err.Error(),
			})
		}
	}
	return nil
}

// CleanupReport carries the per-store deletion counts of one retention run.
// The counts may legitimately differ when one store was behind.
type CleanupReport struct {
	RelationalDeleted int `json:"relationalDeleted"`
	DocumentsDeleted  int `json:"documentsDeleted"`
}

// Cleanup deletes results older than the cutoff from both stores.
func (s *Service) Cleanup(ctx context.Context, cutoff time.Time) (CleanupReport, error) {
	var report CleanupReport

	relDeleted, err := s.Repo.DeleteOlderThan(ctx, cutoff)
	report.RelationalDeleted = relDeleted
	if err != nil {
		return report, fmt.Errorf("relational cleanup: %w", err)
	}

	if s.DocsOn {
		docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		defer cancel()
		docDeleted, err := s.Docs.DeleteOlderThan(docCtx, cutoff)
		report.DocumentsDeleted = docDeleted
		if err != nil {
			telemetry.Warn("persistence.doc_cleanup_failed", map[string]any{
				"error": err.Error(),
			})
		}
	}
	return report, nil
}

// detach keeps the ctx values but drops its deadline so bookkeeping writes
// survive a caller that has already timed out.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
