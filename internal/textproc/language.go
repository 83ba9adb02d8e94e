package textproc

import "strings"

// Function-word profiles per language. Detection works by counting which
// profile covers the most tokens; it is coarse but has no external
// dependency, so the detector is always available.
var languageProfiles = map[string]map[string]struct{}{
	"en": {
		"the": {}, "and": {}, "is": {}, "are": {}, "was": {}, "of": {},
		"to": {}, "in": {}, "it": {}, "that": {}, "with": {}, "for": {},
		"you": {}, "not": {}, "this": {}, "have": {}, "i": {}, "am": {},
	},
	"es": {
		"el": {}, "la": {}, "los": {}, "las": {}, "es": {}, "de": {},
		"que": {}, "en": {}, "un": {}, "una": {}, "con": {}, "por": {},
		"para": {}, "está": {}, "muy": {}, "gracias": {},
	},
	"fr": {
		"le": {}, "la": {}, "les": {}, "est": {}, "de": {}, "des": {},
		"que": {}, "en": {}, "un": {}, "une": {}, "avec": {}, "pour": {},
		"pas": {}, "je": {}, "vous": {}, "merci": {},
	},
	"de": {
		"der": {}, "die": {}, "das": {}, "ist": {}, "und": {}, "von": {},
		"zu": {}, "mit": {}, "ein": {}, "eine": {}, "nicht": {}, "ich": {},
		"für": {}, "auf": {}, "sie": {}, "danke": {},
	},
	"id": {
		"yang": {}, "dan": {}, "di": {}, "dengan": {}, "untuk": {},
		"ini": {}, "itu": {}, "saya": {}, "tidak": {}, "adalah": {},
		"dari": {}, "akan": {}, "pada": {}, "sudah": {}, "terima": {},
		"kasih": {},
	},
}

// DetectLanguage returns an ISO 639-1 code and a confidence in [0,1].
// Empty or unrecognizable text yields ("unknown", 0.0); the detector
// soft-fails, it never errors.
func DetectLanguage(text string) (string, float64) {
	tokens := Tokenize(strings.ToLower(Clean(text)))
	if len(tokens) == 0 {
		return "unknown", 0.0
	}

	bestLang := "unknown"
	bestHits := 0
	for lang, profile := range languageProfiles {
		hits := 0
		for _, tok := range tokens {
			if _, ok := profile[tok]; ok {
				hits++
			}
		}
		if hits > bestHits || (hits == bestHits && hits > 0 && lang < bestLang) {
			bestLang = lang
			bestHits = hits
		}
	}
	if bestHits == 0 {
		return "unknown", 0.0
	}

	confidence := float64(bestHits) / float64(len(tokens)) * 2
	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0.1 {
		confidence = 0.1
	}
	return bestLang, confidence
}
