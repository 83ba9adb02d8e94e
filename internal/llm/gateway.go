package llm

import (
	"context"
	"errors"
	"time"

	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// ErrUnavailable signals that the generative backend could not serve the
// call. Callers degrade the affected facet instead of failing the pipeline.
var ErrUnavailable = errors.New("llm backend unavailable")

// Options tunes a single generation call.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Completer is the raw backend: one prompt in, one completion out.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string, opts Options) (string, error)
	Ping(ctx context.Context) error
}

// Gateway wraps a Completer with availability probing, bounded retry with
// fixed backoff, and a per-request timeout. Availability is probed once at
// construction and holds for the process lifetime.
type Gateway struct {
	completer Completer
	available bool

	timeout time.Duration
	retries int
	backoff time.Duration
}

// NewGateway probes the backend and returns a gateway that remembers whether
// the backend answered. A nil completer yields a permanently unavailable
// gateway, which is a valid degraded configuration.
func NewGateway(completer Completer, timeout time.Duration, retries int, backoff time.Duration) *Gateway {
	g := &Gateway{
		completer: completer,
		timeout:   timeout,
		retries:   retries,
		backoff:   backoff,
	}
	if completer == nil {
		return g
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := completer.Ping(ctx); err != nil {
		telemetry.Warn("llm.probe_failed", map[string]any{"error": err.Error()})
		return g
	}
	g.available = true
	return g
}

// Available reports whether the construction-time probe succeeded.
func (g *Gateway) Available() bool {
	return g.available
}

// Generate runs one completion with retries. On exhaustion, backend absence,
// or caller cancellation it returns ErrUnavailable; it never panics and
// never blocks past the caller deadline plus the per-attempt timeout.
func (g *Gateway) Generate(ctx context.Context, systemPrompt, prompt string, opts Options) (string, error) {
	if !g.available {
		return "", ErrUnavailable
	}

	attempts := g.retries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ErrUnavailable
			case <-time.After(g.backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		out, err := g.completer.Complete(callCtx, systemPrompt, prompt, opts)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	telemetry.Warn("llm.generate_exhausted", map[string]any{
		"attempts": attempts,
		"error":    errString(lastErr),
	})
	return "", ErrUnavailable
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
