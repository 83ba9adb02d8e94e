package results

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateInsertsChildrenInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	result := AnalysisResult{
		ID:                  "result-1",
		TextContent:         "The payroll team in Jakarta was helpful.",
		ProcessedText:       "payroll team jakarta helpful",
		SourceType:          SourceFeedback,
		SourceID:            "emp-42",
		Language:            "en",
		LanguageConfidence:  0.9,
		Sentiment:           SentimentPositive,
		SentimentScore:      0.6,
		SentimentConfidence: 1,
		WordCount:           7,
		SentenceCount:       1,
		SyncStatus:          SyncPending,
		Entities: []Entity{
			{Text: "payroll", Type: EntityDepartment, StartPosition: 4, EndPosition: 11, Confidence: 0.85},
		},
		Intents: []Intent{
			{Type: "appreciation", Confidence: 0.7},
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO analysis_results").
		WithArgs(
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
			nil, // readability_score
			result.ProcessingTime,
			nil, // configuration_id
			result.Truncated,
			result.LLMEnhanced,
			SyncPending,
			nil, // metadata
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO analysis_entities").
		WithArgs(sqlmock.AnyArg(), result.ID, "payroll", "DEPARTMENT", 4, 11, 0.85).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO analysis_intents").
		WithArgs(sqlmock.AnyArg(), result.ID, "appreciation", 0.7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), result); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRejectsInvalidResultBeforeTouchingDB(t *testing.T) {
	repo, mock := newMockRepo(t)

	err := repo.Create(context.Background(), AnalysisResult{
		ID:             "result-bad",
		TextContent:    "text",
		Sentiment:      SentimentNeutral,
		SentimentScore: 2,
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, text_content").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateSyncStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE analysis_results SET sync_status").
		WithArgs(SyncSynced, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateSyncStatus(context.Background(), "missing", SyncSynced); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteOlderThanReportsCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	cutoff := time.Now().AddDate(0, 0, -90)
	mock.ExpectExec("DELETE FROM analysis_results WHERE created_at").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 deleted rows, got %d", n)
	}
}
