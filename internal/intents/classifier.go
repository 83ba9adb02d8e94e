package intents

import (
	"context"
	"sort"
	"strings"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/textproc"
)

// IntentUnknown is the designated intent for out-of-vocabulary labels.
const IntentUnknown = "unknown"

// maxIntents caps how many intents one result carries.
const maxIntents = 3

// DefaultVocabulary is the shipped intent set; a deployment may narrow or
// extend it through the classifier constructor.
var DefaultVocabulary = []string{
	"complaint", "appreciation", "request", "question", "resignation",
	"grievance", "suggestion", IntentUnknown,
}

// Keyword sets per intent. Confidence of a rule-based hit is the fraction
// of the set found in the text.
var intentKeywords = map[string][]string{
	"complaint":    {"complain", "complaint", "unfair", "unacceptable", "problem", "issue", "bad", "terrible", "disappointed", "frustrated"},
	"appreciation": {"thank", "thanks", "appreciate", "grateful", "happy", "great", "excellent", "love", "wonderful"},
	"request":      {"request", "please", "need", "want", "require", "apply", "submit", "approve"},
	"question":     {"how", "what", "when", "where", "why", "who", "question", "clarify", "explain"},
	"resignation":  {"resign", "resignation", "quit", "leaving", "notice", "last day"},
	"grievance":    {"grievance", "harassment", "discrimination", "bully", "report", "violation", "misconduct"},
	"suggestion":   {"suggest", "suggestion", "propose", "idea", "improve", "recommend", "consider"},
}

// Classifier combines rule-based keyword matching with an optional
// LLM-backed pass, constrained to a fixed vocabulary.
type Classifier struct {
	vocabulary map[string]struct{}
	llm        LLMClassifier
	useLLM     bool
}

// LLMClassifier is the optional second pass.
type LLMClassifier interface {
	Classify(ctx context.Context, text string, allowed []string) ([]Prediction, error)
}

// Prediction is one intent guess before vocabulary enforcement.
type Prediction struct {
	Intent     string
	Confidence float64
}

// NewClassifier builds a classifier over the given vocabulary. A nil or
// empty vocabulary falls back to DefaultVocabulary; llm may be nil.
func NewClassifier(vocabulary []string, llm LLMClassifier) *Classifier {
	if len(vocabulary) == 0 {
		vocabulary = DefaultVocabulary
	}
	vocab := make(map[string]struct{}, len(vocabulary)+1)
	for _, v := range vocabulary {
		vocab[strings.ToLower(v)] = struct{}{}
	}
	vocab[IntentUnknown] = struct{}{}
	return &Classifier{
		vocabulary: vocab,
		llm:        llm,
		useLLM:     llm != nil,
	}
}

// Vocabulary returns the allowed intent labels, sorted.
func (c *Classifier) Vocabulary() []string {
	out := make([]string, 0, len(c.vocabulary))
	for v := range c.vocabulary {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Classify returns up to three intents sorted by descending confidence.
// LLM labels outside the vocabulary are coerced to unknown with a penalized
// confidence; the vocabulary is never expanded at runtime.
func (c *Classifier) Classify(ctx context.Context, text string) []results.Intent {
	merged := make(map[string]float64)

	lower := strings.ToLower(text)
	tokens := make(map[string]struct{})
	for _, tok := range textproc.Tokenize(textproc.Clean(text)) {
		tokens[tok] = struct{}{}
	}

	for intent, keywords := range intentKeywords {
		if _, allowed := c.vocabulary[intent]; !allowed {
			continue
		}
		matched := 0
		for _, kw := range keywords {
			if strings.Contains(kw, " ") {
				if strings.Contains(lower, kw) {
					matched++
				}
			} else if _, ok := tokens[kw]; ok {
				matched++
			}
		}
		if matched > 0 {
			merged[intent] = float64(matched) / float64(len(keywords))
		}
	}

	if c.useLLM {
		if preds, err := c.llm.Classify(ctx, text, c.Vocabulary()); err == nil {
			for _, p := range preds {
				intent := strings.ToLower(p.Intent)
				confidence := p.Confidence
				if _, ok := c.vocabulary[intent]; !ok {
					intent = IntentUnknown
					confidence -= 0.2
					if confidence < 0.3 {
						confidence = 0.3
					}
				}
				if confidence > merged[intent] {
					merged[intent] = confidence
				}
			}
		}
	}

	out := make([]results.Intent, 0, len(merged))
	for intent, confidence := range merged {
		out = append(out, results.Intent{Type: intent, Confidence: confidence})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Type < out[j].Type
	})
	if len(out) > maxIntents {
		out = out[:maxIntents]
	}
	return out
}
