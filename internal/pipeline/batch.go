package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
)

// BatchItem is the per-item outcome of a batch run, index-aligned with the
// input slice.
type BatchItem struct {
	Outcome Outcome
	Err     error
}

// AnalyzeBatch analyzes the items with a bounded worker pool, then persists
// the successful ones through the bulk path. The returned slice matches the
// input order regardless of completion order; a malformed item fails alone.
func (o *Orchestrator) AnalyzeBatch(ctx context.Context, items []Input) []BatchItem {
	out := make([]BatchItem, len(items))
	if len(items) == 0 {
		return out
	}

	start := time.Now()
	sem := make(chan struct{}, o.Workers)
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			metrics.IncAnalysisStarted()
			in := items[i]
			if in.SourceType == "" {
				in.SourceType = results.SourceBatch
			}
			outcome, err := o.run(ctx, in, time.Now())
			if err != nil {
				metrics.IncAnalysisFailed()
				out[i] = BatchItem{Err: err}
				return
			}
			out[i] = BatchItem{Outcome: outcome}
		}(i)
	}
	wg.Wait()

	toPersist := make([]results.AnalysisResult, 0, len(items))
	persistIdx := make([]int, 0, len(items))
	for i, item := range out {
		if item.Err == nil {
			toPersist = append(toPersist, item.Outcome.Result)
			persistIdx = append(persistIdx, i)
		}
	}
	if len(toPersist) == 0 {
		return out
	}

	outcomes := o.Persist.SaveBulk(ctx, toPersist)
	for j, i := range persistIdx {
		if outcomes[j].Err != nil {
			metrics.IncAnalysisFailed()
			out[i] = BatchItem{Err: outcomes[j].Err}
			continue
		}
		out[i].Outcome.Result = outcomes[j].Result
		o.finish(out[i].Outcome, time.Since(start))
	}
	return out
}
