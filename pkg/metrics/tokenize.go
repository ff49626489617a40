package metrics

import (
	"strings"
	"unicode"
)

// tokenize lowercases text and splits it into word tokens, dropping
// punctuation.
func tokenize(text string) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// ngramCounts counts n-grams of tokens joined with a separator byte.
func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	if len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], "\x00")]++
	}
	return counts
}

// clippedOverlap sums candidate n-gram counts clipped by reference counts.
func clippedOverlap(candidate, reference map[string]int) int {
	overlap := 0
	for gram, count := range candidate {
		if refCount, ok := reference[gram]; ok {
			if count < refCount {
				overlap += count
			} else {
				overlap += refCount
			}
		}
	}
	return overlap
}

func total(counts map[string]int) int {
	sum := 0
	for _, c := range counts {
		sum += c
	}
	return sum
}

// sentences splits text on terminal punctuation, keeping non-empty parts.
func sentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
