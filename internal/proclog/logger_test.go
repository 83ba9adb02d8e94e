package proclog

import "testing"

func TestLoggerAppendsEntries(t *testing.T) {
	repo := NewMemoryRepo()
	l := NewLogger(repo)

	l.Info("analysis completed", "feedback", "res-1", map[string]any{"durationMs": 12})
	l.Error("doc sync failed", "ticket", "res-2", nil)
	l.Close()

	entries := repo.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != LevelInfo || entries[0].AnalysisResultID != "res-1" {
		t.Fatalf("got %+v", entries[0])
	}
	if entries[0].ID == "" || entries[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp assigned, got %+v", entries[0])
	}
	if entries[1].Level != LevelError {
		t.Fatalf("got %+v", entries[1])
	}
}

func TestLoggerSwallowsRepoFailures(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Fail = true
	l := NewLogger(repo)

	l.Info("will be dropped", "", "", nil)
	l.Close()

	// Close returning without error is the contract: failed writes are
	// counted, never surfaced to the caller.
	if got := repo.Entries(); len(got) != 0 {
		t.Fatalf("expected no entries, got %d", len(got))
	}
}
