package proclog

import "time"

// Levels for processing log entries.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Entry is one append-only audit record. Entries are never mutated after
// creation.
type Entry struct {
	ID               string         `json:"id,omitempty"`
	Level            string         `json:"level"`
	Message          string         `json:"message"`
	SourceType       string         `json:"sourceType,omitempty"`
	AnalysisResultID string         `json:"analysisResultId,omitempty"`
	Context          map[string]any `json:"context,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}
