package configs

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

func configRows(cfg Configuration) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "is_active", "positive_threshold", "negative_threshold", "max_text_length",
		"enable_preprocessing", "enable_entity_extraction", "enable_intent_classification",
		"enable_llm_enhancement", "created_at", "updated_at",
	}).AddRow(
		cfg.ID, cfg.Name, cfg.IsActive, cfg.PositiveThreshold, cfg.NegativeThreshold, cfg.MaxTextLength,
		cfg.EnablePreprocessing, cfg.EnableEntityExtraction, cfg.EnableIntentClassification,
		cfg.EnableLLMEnhancement, cfg.CreatedAt, cfg.UpdatedAt,
	)
}

func TestPGRepoCreateInsertsInactive(t *testing.T) {
	repo, mock := newMockRepo(t)

	cfg := Configuration{
		ID:                "cfg-1",
		Name:              "strict",
		IsActive:          true, // must not be honored on insert
		PositiveThreshold: 0.3,
		NegativeThreshold: -0.3,
		MaxTextLength:     5000,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analysis_configurations").
		WithArgs(
			cfg.ID, cfg.Name, false, cfg.PositiveThreshold, cfg.NegativeThreshold, cfg.MaxTextLength,
			cfg.EnablePreprocessing, cfg.EnableEntityExtraction, cfg.EnableIntentClassification,
			cfg.EnableLLMEnhancement, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateMapsDuplicateName(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO analysis_configurations").
		WillReturnError(errors.New(`pq: duplicate key value violates unique constraint "analysis_configurations_name_key"`))

	err := repo.Create(context.Background(), Configuration{
		ID:                "cfg-dup",
		Name:              "default",
		PositiveThreshold: 0.1,
		NegativeThreshold: -0.1,
		MaxTextLength:     1000,
	})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestPGRepoGetActiveNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, name, is_active").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetActive(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoActivateSwapsInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)

	cfg := Configuration{
		ID:                "cfg-2",
		Name:              "lenient",
		IsActive:          true,
		PositiveThreshold: 0.05,
		NegativeThreshold: -0.05,
		MaxTextLength:     10000,
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE analysis_configurations SET is_active = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE analysis_configurations SET is_active = TRUE").
		WithArgs(cfg.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, name, is_active").
		WithArgs(cfg.ID).
		WillReturnRows(configRows(cfg))

	got, err := repo.Activate(context.Background(), cfg.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !got.IsActive || got.ID != cfg.ID {
		t.Fatalf("expected active %s back, got %+v", cfg.ID, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoActivateUnknownID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE analysis_configurations SET is_active = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE analysis_configurations SET is_active = TRUE").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.Activate(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
