package entities

import (
	"context"
	"errors"
	"strings"

	"github.com/ilhaam43/hr-copilot-sub001/internal/llm"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

const entitySystemPrompt = "You extract named entities from workplace text. " +
	"Respond with a JSON array only: [{\"text\": \"...\", \"type\": \"PERSON|ORG|GPE|DATE|TIME|MONEY|PERCENT|EMAIL|PHONE|SKILL|DEPARTMENT|JOB_TITLE|EMPLOYEE_ID|OTHER\", \"confidence\": 0.0}]."

// LLMExtractor asks the generative backend for entities. The model returns
// surface strings; spans are resolved locally by first occurrence in the
// text, and guesses that do not occur verbatim are dropped.
type LLMExtractor struct {
	Gateway *llm.Gateway
}

func (LLMExtractor) Name() string { return "llm" }

func (e LLMExtractor) Extract(ctx context.Context, text string) ([]results.Entity, error) {
	if e.Gateway == nil || !e.Gateway.Available() {
		return nil, ErrMethodUnavailable
	}

	raw, err := e.Gateway.Generate(ctx, entitySystemPrompt,
		"Entities in the following text:\n"+text,
		llm.Options{MaxTokens: 300},
	)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			return nil, ErrMethodUnavailable
		}
		return nil, err
	}

	var out []results.Entity
	for _, guess := range llm.ParseEntities(raw) {
		start := strings.Index(text, guess.Text)
		if start < 0 {
			continue
		}
		out = append(out, results.Entity{
			Text:          guess.Text,
			Type:          results.NormalizeEntityType(results.EntityType(strings.ToUpper(guess.Type))),
			StartPosition: start,
			EndPosition:   start + len(guess.Text),
			Confidence:    guess.Confidence,
		})
	}
	return out, nil
}
