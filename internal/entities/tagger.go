package entities

import (
	"context"
	"regexp"
	"strings"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

var (
	capSeqRe  = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)+\b`)
	acronymRe = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
	placeRe   = regexp.MustCompile(`(?i)\b(?:jakarta|singapore|london|berlin|indonesia|germany|india|bandung|surabaya)\b`)
)

var orgMarkers = []string{"inc", "ltd", "corp", "llc", "company", "department", "team", "group", "division"}

var knownPlaces = map[string]struct{}{
	"jakarta": {}, "singapore": {}, "london": {}, "berlin": {},
	"new york": {}, "indonesia": {}, "germany": {}, "india": {},
	"bandung": {}, "surabaya": {},
}

var acronymStoplist = map[string]struct{}{
	"OK": {}, "AM": {}, "PM": {}, "ASAP": {}, "FYI": {}, "EOD": {},
}

// LexicalTagger is the fallback tagger: it guesses PERSON, ORG and GPE
// entities from capitalization shape and a small place lexicon. Lower
// confidence than the pattern and rule methods, so overlap resolution
// favors those.
type LexicalTagger struct{}

func (LexicalTagger) Name() string { return "lexical" }

func (LexicalTagger) Extract(ctx context.Context, text string) ([]results.Entity, error) {
	var out []results.Entity

	for _, loc := range capSeqRe.FindAllStringIndex(text, -1) {
		span := text[loc[0]:loc[1]]
		lower := strings.ToLower(span)

		entityType := results.EntityPerson
		confidence := 0.5
		if _, ok := knownPlaces[lower]; ok {
			entityType = results.EntityGPE
			confidence = 0.7
		} else {
			for _, marker := range orgMarkers {
				if strings.Contains(lower, marker) {
					entityType = results.EntityOrg
					confidence = 0.6
					break
				}
			}
		}
		out = append(out, results.Entity{
			Text:          span,
			Type:          entityType,
			StartPosition: loc[0],
			EndPosition:   loc[1],
			Confidence:    confidence,
		})
	}

	for _, loc := range acronymRe.FindAllStringIndex(text, -1) {
		span := text[loc[0]:loc[1]]
		if _, skip := acronymStoplist[span]; skip {
			continue
		}
		out = append(out, results.Entity{
			Text:          span,
			Type:          results.EntityOrg,
			StartPosition: loc[0],
			EndPosition:   loc[1],
			Confidence:    0.5,
		})
	}

	for _, loc := range placeRe.FindAllStringIndex(text, -1) {
		out = append(out, results.Entity{
			Text:          text[loc[0]:loc[1]],
			Type:          results.EntityGPE,
			StartPosition: loc[0],
			EndPosition:   loc[1],
			Confidence:    0.65,
		})
	}

	return out, nil
}
