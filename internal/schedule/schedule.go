package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ilhaam43/hr-copilot-sub001/internal/persistence"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// retentionSpec runs the age-based cleanup nightly, off peak.
const retentionSpec = "0 2 * * *"

// Scheduler owns the background jobs: retention cleanup and document-store
// reconciliation.
type Scheduler struct {
	cron    *cron.Cron
	persist *persistence.Service

	retentionDays     int
	reconcileInterval time.Duration
}

// New builds the scheduler. reconcileInterval must be at least one minute;
// retentionDays <= 0 disables cleanup.
func New(persist *persistence.Service, retentionDays int, reconcileInterval time.Duration) (*Scheduler, error) {
	if reconcileInterval < time.Minute {
		reconcileInterval = time.Minute
	}

	s := &Scheduler{
		cron:              cron.New(),
		persist:           persist,
		retentionDays:     retentionDays,
		reconcileInterval: reconcileInterval,
	}

	if retentionDays > 0 {
		if _, err := s.cron.AddFunc(retentionSpec, s.runRetention); err != nil {
			return nil, fmt.Errorf("schedule retention job: %w", err)
		}
	}
	spec := fmt.Sprintf("@every %s", reconcileInterval)
	if _, err := s.cron.AddFunc(spec, s.runReconcile); err != nil {
		return nil, fmt.Errorf("schedule reconcile job: %w", err)
	}
	return s, nil
}

// Start launches the job loop.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runRetention() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	report, err := s.persist.Cleanup(ctx, cutoff)
	if err != nil {
		telemetry.Error("schedule.retention_failed", map[string]any{"error": err.Error()})
		return
	}
	telemetry.Info("schedule.retention_done", map[string]any{
		"cutoff":            cutoff.Format(time.RFC3339),
		"relationalDeleted": report.RelationalDeleted,
		"documentsDeleted":  report.DocumentsDeleted,
	})
}

func (s *Scheduler) runReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	recovered, err := s.persist.Reconcile(ctx)
	if err != nil {
		telemetry.Error("schedule.reconcile_failed", map[string]any{"error": err.Error()})
		return
	}
	if recovered > 0 {
		telemetry.Info("schedule.reconcile_done", map[string]any{"recovered": recovered})
	}
}
