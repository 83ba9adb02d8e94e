package textproc

import (
	"strings"
	"testing"
)

func TestPreprocessStripsMarkupAndContacts(t *testing.T) {
	in := `<p>Contact John at john.doe@example.com or +1 (555) 123-4567.</p> See https://intranet.example.com/policy`
	got := Preprocess(in, Options{})
	if strings.Contains(got, "@") || strings.Contains(got, "http") || strings.Contains(got, "555") {
		t.Fatalf("expected contacts and links removed, got %q", got)
	}
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("expected html stripped, got %q", got)
	}
}

func TestPreprocessEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t  "} {
		if got := Preprocess(in, DefaultOptions()); got != "" {
			t.Fatalf("Preprocess(%q) = %q, want empty", in, got)
		}
	}
}

func TestPreprocessRemovesStopwords(t *testing.T) {
	got := Preprocess("the policy is very good", Options{RemoveStopwords: true})
	if strings.Contains(" "+got+" ", " the ") || strings.Contains(" "+got+" ", " is ") {
		t.Fatalf("stopwords survived: %q", got)
	}
	if !strings.Contains(got, "policy") {
		t.Fatalf("content word dropped: %q", got)
	}
}

func TestPreprocessIsDeterministic(t *testing.T) {
	in := "Employees were discussing the updated leave policies yesterday!"
	a := Preprocess(in, DefaultOptions())
	b := Preprocess(in, DefaultOptions())
	if a != b {
		t.Fatalf("expected identical output, got %q vs %q", a, b)
	}
}

func TestLemmatize(t *testing.T) {
	cases := map[string]string{
		"policies":  "policy",
		"discussed": "discuss",
		"meetings":  "meeting",
		"process":   "process",
		"hr":        "hr",
	}
	for in, want := range cases {
		if got := Lemmatize(in); got != want {
			t.Errorf("Lemmatize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSentenceCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"no terminator here", 1},
		{"One. Two! Three?", 3},
		{"Ellipsis... counts once. Right?", 3},
	}
	for _, tc := range cases {
		if got := SentenceCount(tc.in); got != tc.want {
			t.Errorf("SentenceCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestReadabilityScoreBounds(t *testing.T) {
	texts := []string{
		"Short and plain. Easy words here.",
		"Notwithstanding organizational restructuring initiatives, comprehensive remuneration harmonization considerations predominated.",
	}
	for _, txt := range texts {
		score := ReadabilityScore(txt)
		if score < 0 || score > 100 {
			t.Fatalf("score %f out of range for %q", score, txt)
		}
	}
	if ReadabilityScore("") != 0 {
		t.Fatalf("empty text should score 0")
	}
}
