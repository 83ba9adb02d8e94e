package sentiment

import (
	"context"
	"errors"
	"math"

	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
)

// ErrMethodUnavailable marks a scoring method whose backend is absent for
// this call. The ensemble skips it; it never fails the analysis.
var ErrMethodUnavailable = errors.New("sentiment method unavailable")

// Result is the combined output of the ensemble.
type Result struct {
	Label        string             `json:"label"`
	Score        float64            `json:"score"`
	Confidence   float64            `json:"confidence"`
	MethodScores map[string]float64 `json:"methodScores"`
}

// Scorer is one independent scoring method producing a score in [-1,1].
type Scorer interface {
	Name() string
	Score(ctx context.Context, text string) (float64, error)
}

// Analyzer averages the scores of whichever methods are available.
type Analyzer struct {
	scorers []Scorer
}

// NewAnalyzer builds the ensemble from the given methods.
func NewAnalyzer(scorers ...Scorer) *Analyzer {
	return &Analyzer{scorers: scorers}
}

// Analyze runs every method, averages the available scores, and derives the
// label from the thresholds. Boundary values are inclusive: score equal to
// posThreshold is positive, equal to negThreshold is negative. With zero
// available methods the result is neutral with zero confidence.
func (a *Analyzer) Analyze(ctx context.Context, text string, posThreshold, negThreshold float64) Result {
	methodScores := make(map[string]float64)
	sum := 0.0
	for _, s := range a.scorers {
		score, err := s.Score(ctx, text)
		if err != nil {
			if !errors.Is(err, ErrMethodUnavailable) {
				telemetry.Warn("sentiment.method_failed", map[string]any{
					"method": s.Name(),
					"error":  err.Error(),
				})
			}
			continue
		}
		methodScores[s.Name()] = score
		sum += score
	}

	if len(methodScores) == 0 {
		return Result{Label: "neutral", MethodScores: methodScores}
	}

	score := sum / float64(len(methodScores))
	return Result{
		Label:        Label(score, posThreshold, negThreshold),
		Score:        score,
		Confidence:   Confidence(score),
		MethodScores: methodScores,
	}
}

// Label classifies a score against inclusive thresholds.
func Label(score, posThreshold, negThreshold float64) string {
	switch {
	case score >= posThreshold:
		return "positive"
	case score <= negThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// Confidence maps score magnitude into [0,1].
func Confidence(score float64) float64 {
	return math.Min(math.Abs(score)*2, 1.0)
}
