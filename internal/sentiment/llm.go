package sentiment

import (
	"context"
	"errors"

	"github.com/ilhaam43/hr-copilot-sub001/internal/llm"
)

const sentimentSystemPrompt = "You analyze the sentiment of workplace feedback. " +
	"Respond with JSON only: {\"score\": <-1..1>, \"label\": \"positive|negative|neutral\"}."

// LLMScorer asks the generative backend for a score. Backend absence or an
// unusable reply surfaces as ErrMethodUnavailable so the ensemble proceeds
// on the deterministic methods alone.
type LLMScorer struct {
	Gateway *llm.Gateway
}

func (LLMScorer) Name() string { return "llm" }

func (s LLMScorer) Score(ctx context.Context, text string) (float64, error) {
	if s.Gateway == nil || !s.Gateway.Available() {
		return 0, ErrMethodUnavailable
	}

	raw, err := s.Gateway.Generate(ctx, sentimentSystemPrompt,
		"Sentiment of the following text:\n"+text,
		llm.Options{MaxTokens: 60},
	)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return 0, ErrMethodUnavailable
		}
		return 0, err
	}

	parsed, ok := llm.ParseSentiment(raw)
	if !ok {
		return 0, ErrMethodUnavailable
	}
	return parsed.Score, nil
}
