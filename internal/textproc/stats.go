package textproc

import "strings"

// WordCount counts whitespace-delimited words in the raw text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// SentenceCount counts sentence terminators, treating runs as one boundary.
// Text with words but no terminator counts as one sentence.
func SentenceCount(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	count := 0
	inBoundary := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inBoundary {
				count++
				inBoundary = true
			}
		default:
			inBoundary = false
		}
	}
	if count == 0 {
		return 1
	}
	return count
}

// ReadabilityScore computes a Flesch reading-ease estimate clamped to
// [0,100]. Syllables are approximated by vowel groups.
func ReadabilityScore(text string) float64 {
	words := strings.Fields(text)
	sentences := SentenceCount(text)
	if len(words) == 0 || sentences == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += syllableCount(w)
	}

	score := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func syllableCount(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range w {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(w, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}
