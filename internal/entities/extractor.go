package entities

import (
	"context"
	"errors"
	"sort"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// ErrMethodUnavailable marks an extraction method whose backend is absent.
// The chain skips it; zero entities is always a valid outcome.
var ErrMethodUnavailable = errors.New("entity method unavailable")

// Extractor is one extraction method. Returned spans index into the text
// passed in.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string) ([]results.Entity, error)
}

// Chain unions the hits of every available method, then resolves span
// overlaps by keeping the highest-confidence entity covering a range.
type Chain struct {
	extractors []Extractor
}

// NewChain builds the chain; extractors run in the given priority order.
func NewChain(extractors ...Extractor) *Chain {
	return &Chain{extractors: extractors}
}

// Extract runs the chain over the text. Method failures are absorbed and
// the surviving entities are returned sorted by start position.
func (c *Chain) Extract(ctx context.Context, text string) []results.Entity {
	var all []results.Entity
	for _, ex := range c.extractors {
		hits, err := ex.Extract(ctx, text)
		if err != nil {
			if !errors.Is(err, ErrMethodUnavailable) {
				telemetry.Warn("entities.method_failed", map[string]any{
					"method": ex.Name(),
					"error":  err.Error(),
				})
			}
			continue
		}
		for _, e := range hits {
			e.Type = results.NormalizeEntityType(e.Type)
			if e.Validate(len(text)) == nil {
				all = append(all, e)
			}
		}
	}
	return Dedupe(all)
}

// Dedupe resolves overlapping spans, keeping the highest-confidence entity
// for any covered offset range. Ties go to the earlier, then longer, span.
func Dedupe(entities []results.Entity) []results.Entity {
	if len(entities) == 0 {
		return nil
	}

	sorted := make([]results.Entity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.StartPosition != b.StartPosition {
			return a.StartPosition < b.StartPosition
		}
		return a.EndPosition-a.StartPosition > b.EndPosition-b.StartPosition
	})

	var kept []results.Entity
	for _, cand := range sorted {
		overlaps := false
		for _, k := range kept {
			if cand.StartPosition < k.EndPosition && k.StartPosition < cand.EndPosition {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, cand)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].StartPosition < kept[j].StartPosition
	})
	return kept
}
