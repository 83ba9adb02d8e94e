package persistence

import (
	"context"

	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// reconcileBatch caps how many failed rows one pass retries.
const reconcileBatch = 100

// Reconcile retries the document-store mirror for records stuck in
// sync_failed. It returns how many records were recovered; rows that fail
// again stay sync_failed for the next pass.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	if !s.DocsOn {
		return 0, nil
	}

	failed, err := s.Repo.ListBySyncStatus(ctx, results.SyncFailed, reconcileBatch)
	if err != nil {
		return 0, err
	}
	if len(failed) == 0 {
		return 0, nil
	}

	recovered := 0
	for _, r := range failed {
		if ctx.Err() != nil {
			break
		}
		docCtx, cancel := context.WithTimeout(ctx, s.Timeout)
		err := s.Docs.Put(docCtx, docstore.FromResult(r))
		cancel()
		if err != nil {
			continue
		}
		s.markSync(ctx, r.ID, results.SyncSynced)
		s.setDocRef(ctx, r.ID)
		metrics.IncDocSyncRecovered()
		recovered++
	}

	if recovered > 0 {
		telemetry.Info("persistence.reconciled", map[string]any{
			"failed":    len(failed),
			"recovered": recovered,
		})
	}
	return recovered, nil
}
