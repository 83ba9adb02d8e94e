package workerproc

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilhaam43/hr-copilot-sub001/internal/pipeline"
	"github.com/ilhaam43/hr-copilot-sub001/internal/queue"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// ErrUnrecoverable wraps failures that redelivery cannot fix; the worker
// deletes such messages instead of letting them cycle back.
type ErrUnrecoverable struct {
	Reason string
	Err    error
}

func (e ErrUnrecoverable) Error() string {
	return fmt.Sprintf("unrecoverable: %s: %v", e.Reason, e.Err)
}

func (e ErrUnrecoverable) Unwrap() error { return e.Err }

// Processor runs queued text events through the analysis pipeline.
type Processor struct {
	Orch *pipeline.Orchestrator
}

// NewProcessor constructs a Processor.
func NewProcessor(orch *pipeline.Orchestrator) *Processor {
	return &Processor{Orch: orch}
}

// ProcessEvent decodes one queue message body and analyzes it. Malformed
// payloads and validation failures are unrecoverable; transient errors are
// returned as-is so the message is redelivered.
func (p *Processor) ProcessEvent(ctx context.Context, body string) error {
	metrics.IncEventsReceived()

	evt, err := queue.DecodeEvent([]byte(body))
	if err != nil {
		metrics.IncEventsFailed()
		return ErrUnrecoverable{Reason: "decode", Err: err}
	}

	sourceID := evt.SourceID
	if sourceID == "" {
		sourceID = evt.SubjectRef
	}
	outcome, err := p.Orch.Analyze(ctx, pipeline.Input{
		Text:       evt.Text,
		SourceType: evt.SourceType,
		SourceID:   sourceID,
	})
	if err != nil {
		metrics.IncEventsFailed()
		if errors.Is(err, pipeline.ErrEmptyText) || errors.Is(err, results.ErrInvalid) {
			return ErrUnrecoverable{Reason: "validation", Err: err}
		}
		return fmt.Errorf("process text event: %w", err)
	}

	metrics.IncEventsProcessed()
	telemetry.Info("worker.event_processed", map[string]any{
		"analysisId": outcome.Result.ID,
		"sourceType": outcome.Result.SourceType,
		"sourceId":   outcome.Result.SourceID,
		"sentiment":  outcome.Result.Sentiment,
	})
	return nil
}
