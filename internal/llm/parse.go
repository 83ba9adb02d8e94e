package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Model responses are requested as JSON but local models drift into prose or
// markdown fences. The parsers here first try strict JSON on the embedded
// payload, then fall back to keyword/regex heuristics so a malformed reply
// still yields a usable, lower-confidence result.

// SentimentResponse is the parsed shape of a sentiment completion.
type SentimentResponse struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// EntityResponse is one entity guess from a completion. Character offsets
// are resolved by the caller against its own text.
type EntityResponse struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// IntentResponse is one intent guess from a completion.
type IntentResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

var (
	fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	scoreRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// ParseSentiment extracts a score/label pair. The second return value is
// false only when neither JSON nor heuristics produced anything.
func ParseSentiment(raw string) (SentimentResponse, bool) {
	var resp SentimentResponse
	if payload := extractJSON(raw, '{', '}'); payload != "" {
		if err := json.Unmarshal([]byte(payload), &resp); err == nil && resp.Label != "" {
			resp.Label = strings.ToLower(resp.Label)
			resp.Score = clampScore(resp.Score)
			return resp, true
		}
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "positive"):
		resp.Label = "positive"
		resp.Score = 0.5
	case strings.Contains(lower, "negative"):
		resp.Label = "negative"
		resp.Score = -0.5
	case strings.Contains(lower, "neutral") || strings.Contains(lower, "mixed"):
		resp.Label = "neutral"
		resp.Score = 0
	default:
		return SentimentResponse{}, false
	}
	if m := scoreRe.FindString(lower); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v >= -1 && v <= 1 {
			resp.Score = v
		}
	}
	return resp, true
}

// ParseEntities extracts entity guesses. The heuristic pass looks for
// "TYPE: text" lines, the format models drift into when they abandon JSON.
func ParseEntities(raw string) []EntityResponse {
	if payload := extractJSON(raw, '[', ']'); payload != "" {
		var out []EntityResponse
		if err := json.Unmarshal([]byte(payload), &out); err == nil {
			kept := out[:0]
			for _, e := range out {
				if e.Text == "" {
					continue
				}
				e.Confidence = clampUnit(e.Confidence, 0.5)
				kept = append(kept, e)
			}
			return kept
		}
	}

	var out []EntityResponse
	lineRe := regexp.MustCompile(`(?m)^\s*[-*]?\s*([A-Z_]{2,}):\s*(.+?)\s*$`)
	for _, m := range lineRe.FindAllStringSubmatch(raw, -1) {
		out = append(out, EntityResponse{
			Text:       strings.Trim(m[2], `"' `),
			Type:       m[1],
			Confidence: 0.4,
		})
	}
	return out
}

// ParseIntents extracts intent guesses. The heuristic pass scans the raw
// reply for mentions of the allowed labels.
func ParseIntents(raw string, allowed []string) []IntentResponse {
	if payload := extractJSON(raw, '[', ']'); payload != "" {
		var out []IntentResponse
		if err := json.Unmarshal([]byte(payload), &out); err == nil {
			kept := out[:0]
			for _, it := range out {
				if it.Intent == "" {
					continue
				}
				it.Intent = strings.ToLower(it.Intent)
				it.Confidence = clampUnit(it.Confidence, 0.5)
				kept = append(kept, it)
			}
			return kept
		}
	}

	lower := strings.ToLower(raw)
	var out []IntentResponse
	for _, intent := range allowed {
		if strings.Contains(lower, strings.ToLower(intent)) {
			out = append(out, IntentResponse{Intent: strings.ToLower(intent), Confidence: 0.4})
		}
	}
	return out
}

// extractJSON returns the outermost open..close slice of the reply, after
// unwrapping a markdown fence if present.
func extractJSON(raw string, openCh, closeCh byte) string {
	if m := fenceRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}
	start := strings.IndexByte(raw, openCh)
	end := strings.LastIndexByte(raw, closeCh)
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampUnit(v, fallback float64) float64 {
	if v <= 0 || v > 1 {
		return fallback
	}
	return v
}
