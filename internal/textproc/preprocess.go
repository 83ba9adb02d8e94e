package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	urlRe     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe   = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Options controls the optional preprocessing stages.
type Options struct {
	RemoveStopwords bool
	Lemmatize       bool
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{RemoveStopwords: true, Lemmatize: true}
}

// Preprocess normalizes raw text for downstream analyzers. It strips markup,
// URLs, emails and phone numbers, collapses whitespace, drops most
// punctuation, then tokenizes with optional stopword removal and
// lemmatization. It never fails: empty or whitespace-only input yields "".
func Preprocess(text string, opts Options) string {
	cleaned := Clean(text)
	if cleaned == "" {
		return ""
	}

	tokens := Tokenize(cleaned)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if opts.RemoveStopwords && IsStopword(tok) {
			continue
		}
		if opts.Lemmatize {
			tok = Lemmatize(tok)
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

// Clean lowercases and removes markup, links, contact details and
// punctuation, collapsing runs of whitespace to single spaces.
func Clean(text string) string {
	t := strings.ToLower(text)
	t = htmlTagRe.ReplaceAllString(t, " ")
	t = urlRe.ReplaceAllString(t, " ")
	t = emailRe.ReplaceAllString(t, " ")
	t = phoneRe.ReplaceAllString(t, " ")

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '\'':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " "))
}

// Tokenize splits cleaned text into word tokens.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Lemmatize applies light suffix stripping. It is intentionally crude; the
// analyzers only need stable normalized token forms, not linguistic lemmas.
func Lemmatize(word string) string {
	w := strings.Trim(word, "'")
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case len(w) > 5 && strings.HasSuffix(w, "ing"):
		return w[:len(w)-3]
	case len(w) > 4 && strings.HasSuffix(w, "ed"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss"):
		return w[:len(w)-1]
	default:
		return w
	}
}
