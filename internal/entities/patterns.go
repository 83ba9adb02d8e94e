package entities

import (
	"context"
	"regexp"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

type spanPattern struct {
	re         *regexp.Regexp
	entityType results.EntityType
	confidence float64
}

// Format-anchored patterns. These are the most reliable method in the chain
// so they carry the highest confidence.
var spanPatterns = []spanPattern{
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), results.EntityEmail, 0.95},
	{regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`), results.EntityPhone, 0.85},
	{regexp.MustCompile(`[$€£]\s?\d+(?:[.,]\d{3})*(?:[.,]\d{2})?|\b\d+(?:[.,]\d{3})*\s?(?:USD|EUR|IDR|dollars?|euros?)\b`), results.EntityMoney, 0.9},
	{regexp.MustCompile(`\b\d+(?:\.\d+)?\s?(?:%|percent\b)`), results.EntityPercent, 0.9},
	{regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s\d{1,2}(?:,?\s\d{4})?\b`), results.EntityDate, 0.85},
	{regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\s?(?:[AaPp][Mm])?\b`), results.EntityTime, 0.85},
}

// PatternExtractor finds format-anchored entities (emails, phone numbers,
// money, percentages, dates, times) by regular expression.
type PatternExtractor struct{}

func (PatternExtractor) Name() string { return "pattern" }

func (PatternExtractor) Extract(ctx context.Context, text string) ([]results.Entity, error) {
	var out []results.Entity
	for _, p := range spanPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, results.Entity{
				Text:          text[loc[0]:loc[1]],
				Type:          p.entityType,
				StartPosition: loc[0],
				EndPosition:   loc[1],
				Confidence:    p.confidence,
			})
		}
	}
	return out, nil
}
