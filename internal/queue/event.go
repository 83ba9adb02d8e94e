package queue

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TextEvent is the payload collaborating modules emit when text is created
// or updated. The pipeline consumes these asynchronously; it knows nothing
// about the emitting module.
type TextEvent struct {
	Text       string `json:"text"`
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
	SubjectRef string `json:"subjectRef,omitempty"`
	EmittedAt  string `json:"emittedAt,omitempty"`
	Version    int    `json:"version"`
}

// EncodeEvent returns the JSON representation of an event.
func EncodeEvent(evt TextEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// DecodeEvent parses a JSON payload into a TextEvent and checks the fields
// the pipeline cannot work without.
func DecodeEvent(payload []byte) (TextEvent, error) {
	var evt TextEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return TextEvent{}, fmt.Errorf("decode text event: %w", err)
	}
	if strings.TrimSpace(evt.Text) == "" {
		return TextEvent{}, fmt.Errorf("text event has no text")
	}
	return evt, nil
}
