package llm

import "testing"

func TestParseSentimentJSON(t *testing.T) {
	raw := "```json\n{\"score\": 0.72, \"label\": \"Positive\"}\n```"
	got, ok := ParseSentiment(raw)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if got.Label != "positive" || got.Score != 0.72 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseSentimentHeuristicFallback(t *testing.T) {
	got, ok := ParseSentiment("The overall tone of this message is clearly negative.")
	if !ok {
		t.Fatalf("expected heuristic fallback to succeed")
	}
	if got.Label != "negative" || got.Score >= 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseSentimentGarbage(t *testing.T) {
	if _, ok := ParseSentiment("zzz qqq 123"); ok {
		t.Fatalf("expected failure on unrelated text")
	}
}

func TestParseEntitiesJSON(t *testing.T) {
	raw := `[{"text":"HR","type":"DEPARTMENT","confidence":0.9},{"text":"","type":"ORG"}]`
	got := ParseEntities(raw)
	if len(got) != 1 {
		t.Fatalf("expected empty-text entity dropped, got %d", len(got))
	}
	if got[0].Text != "HR" || got[0].Type != "DEPARTMENT" || got[0].Confidence != 0.9 {
		t.Fatalf("got %+v", got[0])
	}
}

func TestParseEntitiesLineFallback(t *testing.T) {
	raw := "Here are the entities I found:\n- PERSON: Jane Smith\n- DEPARTMENT: Payroll\n"
	got := ParseEntities(raw)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %+v", got)
	}
	if got[0].Type != "PERSON" || got[0].Text != "Jane Smith" {
		t.Fatalf("got %+v", got[0])
	}
	if got[0].Confidence >= 0.5 {
		t.Fatalf("fallback confidence should be penalized, got %f", got[0].Confidence)
	}
}

func TestParseIntentsJSON(t *testing.T) {
	raw := `[{"intent":"Complaint","confidence":0.8},{"intent":"request","confidence":1.5}]`
	got := ParseIntents(raw, nil)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Intent != "complaint" || got[0].Confidence != 0.8 {
		t.Fatalf("got %+v", got[0])
	}
	if got[1].Confidence != 0.5 {
		t.Fatalf("out-of-range confidence should reset, got %f", got[1].Confidence)
	}
}

func TestParseIntentsKeywordFallback(t *testing.T) {
	raw := "This reads like an appreciation of the HR team."
	got := ParseIntents(raw, []string{"complaint", "appreciation", "request"})
	if len(got) != 1 || got[0].Intent != "appreciation" {
		t.Fatalf("got %+v", got)
	}
}
