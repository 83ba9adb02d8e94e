package entities

import (
	"context"
	"testing"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

func TestChainExampleScenario(t *testing.T) {
	text := "I am extremely happy with the new leave policy, thank you HR!"
	chain := NewChain(PatternExtractor{}, LexicalTagger{}, RuleExtractor{})

	got := chain.Extract(context.Background(), text)
	found := false
	for _, e := range got {
		if (e.Type == results.EntityOrg || e.Type == results.EntityDepartment) && e.Text == "HR" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an ORG or DEPARTMENT entity for HR, got %+v", got)
	}
}

func TestChainSpanInvariant(t *testing.T) {
	text := "Contact Jane Smith (jane.smith@corp.example) about the Q3 payroll run on 2025-06-30, budget $12,000."
	chain := NewChain(PatternExtractor{}, LexicalTagger{}, RuleExtractor{})

	for _, e := range chain.Extract(context.Background(), text) {
		if e.StartPosition < 0 || e.StartPosition >= e.EndPosition || e.EndPosition > len(text) {
			t.Fatalf("span invariant violated: %+v", e)
		}
		if text[e.StartPosition:e.EndPosition] != e.Text {
			t.Fatalf("span text mismatch: %+v", e)
		}
	}
}

func TestDedupeKeepsHighestConfidence(t *testing.T) {
	in := []results.Entity{
		{Text: "HR", Type: results.EntityOrg, StartPosition: 10, EndPosition: 12, Confidence: 0.5},
		{Text: "HR", Type: results.EntityDepartment, StartPosition: 10, EndPosition: 12, Confidence: 0.85},
		{Text: "Jane", Type: results.EntityPerson, StartPosition: 0, EndPosition: 4, Confidence: 0.5},
	}
	got := Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 entities after dedupe, got %+v", got)
	}
	if got[0].Type != results.EntityPerson {
		t.Fatalf("expected start-position ordering, got %+v", got)
	}
	if got[1].Type != results.EntityDepartment || got[1].Confidence != 0.85 {
		t.Fatalf("expected the higher-confidence overlap kept, got %+v", got[1])
	}
}

func TestDedupePartialOverlap(t *testing.T) {
	in := []results.Entity{
		{Text: "New York", Type: results.EntityGPE, StartPosition: 0, EndPosition: 8, Confidence: 0.7},
		{Text: "York Times", Type: results.EntityOrg, StartPosition: 4, EndPosition: 14, Confidence: 0.6},
	}
	got := Dedupe(in)
	if len(got) != 1 || got[0].Type != results.EntityGPE {
		t.Fatalf("expected the higher-confidence span to win, got %+v", got)
	}
}

func TestPatternExtractorTypes(t *testing.T) {
	text := "Reach me at dev@corp.example or +62 811 2345 6789 before 10:30 AM; raise was 7.5%."
	got, err := PatternExtractor{}.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[results.EntityType]bool{
		results.EntityEmail:   false,
		results.EntityPhone:   false,
		results.EntityTime:    false,
		results.EntityPercent: false,
	}
	for _, e := range got {
		if _, ok := want[e.Type]; ok {
			want[e.Type] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("missing %s in %+v", typ, got)
		}
	}
}

func TestRuleExtractorEmployeeID(t *testing.T) {
	got, err := RuleExtractor{}.Extract(context.Background(), "Ticket opened by EMP-00412 from Payroll")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var haveID, haveDept bool
	for _, e := range got {
		if e.Type == results.EntityEmployeeID && e.Text == "EMP-00412" {
			haveID = true
		}
		if e.Type == results.EntityDepartment {
			haveDept = true
		}
	}
	if !haveID || !haveDept {
		t.Fatalf("expected EMPLOYEE_ID and DEPARTMENT, got %+v", got)
	}
}

func TestChainEmptyText(t *testing.T) {
	chain := NewChain(PatternExtractor{}, LexicalTagger{}, RuleExtractor{})
	if got := chain.Extract(context.Background(), ""); len(got) != 0 {
		t.Fatalf("expected no entities for empty text, got %+v", got)
	}
}
