package sentiment

import (
	"context"

	"github.com/ilhaam43/hr-copilot-sub001/internal/textproc"
)

// FrequencyScorer is the statistical method: it scores on the polarity
// balance of matched words rather than their magnitude, so a text with many
// mild complaints registers as strongly as one with a single harsh word.
type FrequencyScorer struct{}

func (FrequencyScorer) Name() string { return "frequency" }

func (FrequencyScorer) Score(ctx context.Context, text string) (float64, error) {
	tokens := textproc.Tokenize(textproc.Clean(text))
	if len(tokens) == 0 {
		return 0, nil
	}

	positive, negative := 0, 0
	for _, tok := range tokens {
		v, ok := valence[tok]
		if !ok {
			continue
		}
		if v > 0 {
			positive++
		} else if v < 0 {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0, nil
	}
	return float64(positive-negative) / float64(total), nil
}
