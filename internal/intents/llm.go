package intents

import (
	"context"
	"strings"

	"github.com/ilhaam43/hr-copilot-sub001/internal/llm"
)

const intentSystemPrompt = "You classify the intent of workplace messages. " +
	"Respond with a JSON array only: [{\"intent\": \"<label>\", \"confidence\": 0.0}]. " +
	"Use only the labels you are given."

// GatewayClassifier implements the LLM pass over the shared gateway.
type GatewayClassifier struct {
	Gateway *llm.Gateway
}

func (g GatewayClassifier) Classify(ctx context.Context, text string, allowed []string) ([]Prediction, error) {
	if g.Gateway == nil || !g.Gateway.Available() {
		return nil, llm.ErrUnavailable
	}

	prompt := "Allowed labels: " + strings.Join(allowed, ", ") +
		"\nClassify the intent of the following text:\n" + text
	raw, err := g.Gateway.Generate(ctx, intentSystemPrompt, prompt, llm.Options{MaxTokens: 120})
	if err != nil {
		return nil, err
	}

	parsed := llm.ParseIntents(raw, allowed)
	out := make([]Prediction, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, Prediction{Intent: p.Intent, Confidence: p.Confidence})
	}
	return out, nil
}
