package sentiment

import (
	"context"

	"github.com/ilhaam43/hr-copilot-sub001/internal/textproc"
)

// Valence lexicon tuned for workplace feedback text. Values are in [-1,1].
var valence = map[string]float64{
	"happy": 0.8, "glad": 0.6, "great": 0.8, "good": 0.6, "excellent": 0.9,
	"amazing": 0.9, "love": 0.8, "like": 0.4, "helpful": 0.6, "thank": 0.6,
	"thanks": 0.6, "appreciate": 0.7, "satisfied": 0.6, "fair": 0.4,
	"supportive": 0.6, "smooth": 0.5, "easy": 0.4, "clear": 0.4,
	"improved": 0.5, "improvement": 0.4, "prompt": 0.4, "friendly": 0.6,
	"best": 0.8, "pleased": 0.6, "wonderful": 0.9, "grateful": 0.7,

	"sad": -0.6, "bad": -0.6, "terrible": -0.9, "awful": -0.9,
	"horrible": -0.9, "hate": -0.8, "angry": -0.7, "upset": -0.6,
	"unfair": -0.7, "slow": -0.4, "confusing": -0.5, "broken": -0.6,
	"late": -0.4, "delay": -0.5, "delayed": -0.5, "problem": -0.5,
	"issue": -0.4, "complaint": -0.5, "disappointed": -0.7, "worst": -0.9,
	"frustrating": -0.7, "frustrated": -0.7, "unacceptable": -0.8,
	"poor": -0.6, "wrong": -0.5, "missing": -0.4, "ignored": -0.6,
	"stress": -0.5, "stressful": -0.6, "overworked": -0.6, "unhappy": -0.7,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "cannot": {},
	"can't": {}, "don't": {}, "doesn't": {}, "didn't": {}, "won't": {},
	"isn't": {}, "wasn't": {}, "aren't": {}, "without": {},
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "really": 1.3, "so": 1.2,
	"incredibly": 1.5, "totally": 1.3, "absolutely": 1.4, "quite": 1.1,
}

// negationWindow is how many tokens a negation reaches forward.
const negationWindow = 3

// LexiconScorer scores text by averaging the valence of matched words, with
// negation flipping and intensifiers amplifying the following hit.
type LexiconScorer struct{}

func (LexiconScorer) Name() string { return "lexicon" }

func (LexiconScorer) Score(ctx context.Context, text string) (float64, error) {
	tokens := textproc.Tokenize(textproc.Clean(text))
	if len(tokens) == 0 {
		return 0, nil
	}

	sum := 0.0
	hits := 0
	negateUntil := -1
	boost := 1.0
	for i, tok := range tokens {
		if _, ok := negations[tok]; ok {
			negateUntil = i + negationWindow
			continue
		}
		if m, ok := intensifiers[tok]; ok {
			boost = m
			continue
		}

		v, ok := valence[tok]
		if !ok {
			boost = 1.0
			continue
		}
		v *= boost
		boost = 1.0
		if i <= negateUntil {
			v = -v
		}
		sum += v
		hits++
	}

	if hits == 0 {
		return 0, nil
	}
	return clamp(sum / float64(hits)), nil
}

func clamp(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
