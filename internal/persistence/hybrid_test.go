package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ilhaam43/hr-copilot-sub001/internal/docstore"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

func newTestService(docs docstore.Store) (*Service, *results.MemoryRepo) {
	repo := results.NewMemoryRepo()
	return NewService(repo, docs, nil, time.Second, 10), repo
}

func validResult(text string) results.AnalysisResult {
	return results.AnalysisResult{
		TextContent: text,
		SourceType:  results.SourceGeneral,
		Sentiment:   results.SentimentNeutral,
		Language:    "en",
	}
}

func TestSaveSyncsDocumentStore(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, repo := newTestService(docs)

	saved, err := svc.Save(context.Background(), validResult("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.SyncStatus != results.SyncSynced {
		t.Fatalf("sync status = %q, want synced", saved.SyncStatus)
	}
	if docs.Len() != 1 {
		t.Fatalf("expected 1 mirrored document, got %d", docs.Len())
	}

	stored, err := repo.GetByID(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("relational row missing: %v", err)
	}
	if stored.Metadata["documentRef"] != "analysis_results/"+saved.ID {
		t.Fatalf("expected cross-store reference in metadata, got %v", stored.Metadata)
	}
}

func TestSaveSurvivesDocumentStoreOutage(t *testing.T) {
	docs := docstore.NewMemoryStore()
	docs.Unreachable = true
	svc, repo := newTestService(docs)

	saved, err := svc.Save(context.Background(), validResult("hello"))
	if err != nil {
		t.Fatalf("relational commit must win: %v", err)
	}
	if saved.SyncStatus != results.SyncFailed {
		t.Fatalf("sync status = %q, want sync_failed", saved.SyncStatus)
	}

	got, err := svc.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("read must fall back to relational: %v", err)
	}
	if got.TextContent != "hello" {
		t.Fatalf("got %+v", got)
	}

	stored, _ := repo.GetByID(context.Background(), saved.ID)
	if stored.SyncStatus != results.SyncFailed {
		t.Fatalf("relational row should be marked sync_failed, got %q", stored.SyncStatus)
	}
}

func TestSaveRejectsInvalidResult(t *testing.T) {
	svc, repo := newTestService(docstore.NewMemoryStore())

	bad := validResult("hello")
	bad.SentimentScore = 2
	if _, err := svc.Save(context.Background(), bad); !errors.Is(err, results.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if list, _ := repo.List(context.Background(), results.ListFilter{}); len(list) != 0 {
		t.Fatalf("nothing should be persisted, got %d rows", len(list))
	}
}

func TestGetPrefersDocumentStore(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, repo := newTestService(docs)

	saved, err := svc.Save(context.Background(), validResult("prefer docs"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Remove the relational row; the document read path should still serve it.
	if err := repo.Delete(context.Background(), saved.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("expected document-store hit, got %v", err)
	}
	if got.TextContent != "prefer docs" {
		t.Fatalf("got %+v", got)
	}
}

func TestListFallsBackOnDocumentStoreOutage(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, _ := newTestService(docs)

	if _, err := svc.Save(context.Background(), validResult("listed")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list, err := svc.List(context.Background(), results.ListFilter{Limit: 10})
	if err != nil || len(list) != 1 {
		t.Fatalf("document-store list: got (%d, %v), want 1 row", len(list), err)
	}

	docs.Unreachable = true
	list, err = svc.List(context.Background(), results.ListFilter{Limit: 10})
	if err != nil || len(list) != 1 {
		t.Fatalf("relational fallback: got (%d, %v), want 1 row", len(list), err)
	}
}

func TestGetMissingInBothStores(t *testing.T) {
	svc, _ := newTestService(docstore.NewMemoryStore())
	if _, err := svc.Get(context.Background(), "no-such-id"); !errors.Is(err, results.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveBulkReportsPerItem(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, _ := newTestService(docs)

	items := []results.AnalysisResult{
		validResult("first"),
		func() results.AnalysisResult {
			bad := validResult("second")
			bad.Sentiment = "bogus"
			return bad
		}(),
		validResult("third"),
	}
	outcomes := svc.SaveBulk(context.Background(), items)
	if len(outcomes) != 3 {
		t.Fatalf("expected index-aligned outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Fatalf("valid items must succeed: %+v", outcomes)
	}
	if !errors.Is(outcomes[1].Err, results.ErrInvalid) {
		t.Fatalf("invalid item must fail alone, got %v", outcomes[1].Err)
	}
	if docs.Len() != 2 {
		t.Fatalf("expected 2 mirrored documents, got %d", docs.Len())
	}
}

// chunkFailRepo fails CreateBatch for any chunk containing failText.
type chunkFailRepo struct {
	*results.MemoryRepo
	failText string
}

func (r *chunkFailRepo) CreateBatch(ctx context.Context, batch []results.AnalysisResult, batchSize int) error {
	for _, item := range batch {
		if item.TextContent == r.failText {
			return errors.New("chunk write refused")
		}
	}
	return r.MemoryRepo.CreateBatch(ctx, batch, batchSize)
}

func TestSaveBulkFailingChunkDoesNotFailCommittedOnes(t *testing.T) {
	docs := docstore.NewMemoryStore()
	repo := &chunkFailRepo{MemoryRepo: results.NewMemoryRepo(), failText: "poison"}
	svc := NewService(repo, docs, nil, time.Second, 2)

	items := []results.AnalysisResult{
		validResult("first"),
		validResult("second"),
		validResult("poison"),
		validResult("fourth"),
	}
	outcomes := svc.SaveBulk(context.Background(), items)

	// Chunk one (items 0,1) commits; chunk two (items 2,3) is refused.
	for _, i := range []int{0, 1} {
		if outcomes[i].Err != nil {
			t.Fatalf("committed item %d misreported as failed: %v", i, outcomes[i].Err)
		}
		if outcomes[i].Result.SyncStatus != results.SyncSynced {
			t.Fatalf("item %d sync status = %q", i, outcomes[i].Result.SyncStatus)
		}
	}
	for _, i := range []int{2, 3} {
		if outcomes[i].Err == nil {
			t.Fatalf("item %d in the refused chunk should fail", i)
		}
	}
	if docs.Len() != 2 {
		t.Fatalf("expected the committed chunk mirrored, got %d documents", docs.Len())
	}
}

func TestDeleteRemovesBothStores(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, repo := newTestService(docs)

	saved, _ := svc.Save(context.Background(), validResult("to delete"))
	if err := svc.Delete(context.Background(), saved.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), saved.ID); !errors.Is(err, results.ErrNotFound) {
		t.Fatalf("relational row should be gone, got %v", err)
	}
	if docs.Len() != 0 {
		t.Fatalf("document should be gone, got %d", docs.Len())
	}
}

func TestCleanupReportsPerStoreCounts(t *testing.T) {
	docs := docstore.NewMemoryStore()
	svc, repo := newTestService(docs)

	old := validResult("old")
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	if _, err := svc.Save(context.Background(), old); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Save(context.Background(), validResult("fresh")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report, err := svc.Cleanup(context.Background(), time.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.RelationalDeleted != 1 || report.DocumentsDeleted != 1 {
		t.Fatalf("got %+v, want one deletion per store", report)
	}
	if list, _ := repo.List(context.Background(), results.ListFilter{}); len(list) != 1 {
		t.Fatalf("expected the fresh row to survive, got %d", len(list))
	}
}

func TestReconcileRecoversFailedSyncs(t *testing.T) {
	docs := docstore.NewMemoryStore()
	docs.Unreachable = true
	svc, _ := newTestService(docs)

	saved, err := svc.Save(context.Background(), validResult("stuck"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.SyncStatus != results.SyncFailed {
		t.Fatalf("precondition: want sync_failed, got %q", saved.SyncStatus)
	}

	docs.Unreachable = false
	recovered, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recovered != 1 {
		t.Fatalf("recovered = %d, want 1", recovered)
	}
	if docs.Len() != 1 {
		t.Fatalf("document should now be mirrored")
	}

	again, err := svc.Reconcile(context.Background())
	if err != nil || again != 0 {
		t.Fatalf("second pass should find nothing, got (%d, %v)", again, err)
	}
}
