package queue

import (
	"reflect"
	"testing"
)

func TestEventRoundTrip(t *testing.T) {
	evt := TextEvent{
		Text:       "The new overtime rule is confusing",
		SourceType: "feedback",
		SourceID:   "fb-99",
		SubjectRef: "employee:123",
		EmittedAt:  "2026-08-01T09:00:00Z",
		Version:    1,
	}

	payload, err := EncodeEvent(evt)
	if err != nil {
		t.Fatalf("encode event: %v", err)
	}
	got, err := DecodeEvent(payload)
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if !reflect.DeepEqual(got, evt) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, evt)
	}
}

func TestDecodeEventRejectsEmptyText(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{"sourceType":"note","text":"  "}`)); err == nil {
		t.Fatalf("expected error for empty text")
	}
}

func TestDecodeEventRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeEvent([]byte(`{not json`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
