package metrics

import (
	"context"
	"math"
	"strings"

	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

// ROUGE scores unigram, bigram, and longest-common-subsequence F1 of the
// summary against the reference.
type ROUGE struct{}

func (ROUGE) Name() string { return registry.ROUGE }

func (ROUGE) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	candidate := tokenize(in.Summary)
	reference := tokenize(in.Reference)

	rouge1 := rougeN(candidate, reference, 1)
	rouge2 := rougeN(candidate, reference, 2)
	rougeL := rougeLCS(candidate, reference)

	return core.MetricResult{
		Score: rouge1,
		Scores: map[string]float64{
			"rouge1": rouge1,
			"rouge2": rouge2,
			"rougeL": rougeL,
		},
	}, nil
}

func rougeN(candidate, reference []string, n int) float64 {
	candGrams := ngramCounts(candidate, n)
	refGrams := ngramCounts(reference, n)
	candTotal := total(candGrams)
	refTotal := total(refGrams)
	if candTotal == 0 || refTotal == 0 {
		return 0
	}
	overlap := clippedOverlap(candGrams, refGrams)
	return f1(float64(overlap)/float64(candTotal), float64(overlap)/float64(refTotal))
}

func rougeLCS(candidate, reference []string) float64 {
	if len(candidate) == 0 || len(reference) == 0 {
		return 0
	}
	lcs := lcsLength(candidate, reference)
	return f1(float64(lcs)/float64(len(candidate)), float64(lcs)/float64(len(reference)))
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// BLEU scores smoothed BLEU-4 precision of the summary against the
// reference, with the standard brevity penalty.
type BLEU struct{}

func (BLEU) Name() string { return registry.BLEU }

func (BLEU) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	candidate := tokenize(in.Summary)
	reference := tokenize(in.Reference)
	if len(candidate) == 0 || len(reference) == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"bleu": 0}}, nil
	}

	const maxOrder = 4
	logSum := 0.0
	precisions := make(map[string]float64, maxOrder+1)
	for n := 1; n <= maxOrder; n++ {
		candGrams := ngramCounts(candidate, n)
		refGrams := ngramCounts(reference, n)
		// Add-one smoothing keeps short candidates scoreable.
		p := (float64(clippedOverlap(candGrams, refGrams)) + 1) / (float64(total(candGrams)) + 1)
		precisions["precision"+orderSuffix(n)] = p
		logSum += math.Log(p)
	}

	brevity := 1.0
	if len(candidate) < len(reference) {
		brevity = math.Exp(1 - float64(len(reference))/float64(len(candidate)))
	}
	bleu := brevity * math.Exp(logSum/maxOrder)

	scores := map[string]float64{"bleu": bleu, "brevity_penalty": brevity}
	for k, v := range precisions {
		scores[k] = v
	}
	return core.MetricResult{Score: bleu, Scores: scores}, nil
}

func orderSuffix(n int) string {
	return string(rune('0' + n))
}

// METEOR scores a recall-weighted unigram F-mean with a fragmentation
// penalty, the classical exact-match variant.
type METEOR struct{}

func (METEOR) Name() string { return registry.METEOR }

func (METEOR) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	candidate := tokenize(in.Summary)
	reference := tokenize(in.Reference)
	if len(candidate) == 0 || len(reference) == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"meteor": 0}}, nil
	}

	matched, chunks := alignUnigrams(candidate, reference)
	if matched == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"meteor": 0}}, nil
	}

	precision := float64(matched) / float64(len(candidate))
	recall := float64(matched) / float64(len(reference))
	fMean := 10 * precision * recall / (recall + 9*precision)
	penalty := 0.5 * math.Pow(float64(chunks)/float64(matched), 3)
	meteor := fMean * (1 - penalty)

	return core.MetricResult{
		Score: meteor,
		Scores: map[string]float64{
			"meteor":    meteor,
			"precision": precision,
			"recall":    recall,
		},
	}, nil
}

// alignUnigrams matches candidate tokens to reference tokens left to right
// and counts contiguous matched chunks.
func alignUnigrams(candidate, reference []string) (matched, chunks int) {
	used := make([]bool, len(reference))
	lastMatch := -2
	for _, token := range candidate {
		pos := -1
		for j, ref := range reference {
			if !used[j] && ref == token {
				pos = j
				break
			}
		}
		if pos < 0 {
			continue
		}
		used[pos] = true
		matched++
		if pos != lastMatch+1 {
			chunks++
		}
		lastMatch = pos
	}
	return matched, chunks
}

// ChrF scores a character n-gram F-score (n=1..6, beta=2) of the summary
// against the reference.
type ChrF struct{}

func (ChrF) Name() string { return registry.ChrF }

func (ChrF) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	candidate := charTokens(in.Summary)
	reference := charTokens(in.Reference)
	if len(candidate) == 0 || len(reference) == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"chrf": 0}}, nil
	}

	const maxOrder = 6
	const beta = 2.0
	var sumP, sumR float64
	orders := 0
	for n := 1; n <= maxOrder; n++ {
		candGrams := ngramCounts(candidate, n)
		refGrams := ngramCounts(reference, n)
		candTotal := total(candGrams)
		refTotal := total(refGrams)
		if candTotal == 0 || refTotal == 0 {
			continue
		}
		overlap := clippedOverlap(candGrams, refGrams)
		sumP += float64(overlap) / float64(candTotal)
		sumR += float64(overlap) / float64(refTotal)
		orders++
	}
	if orders == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"chrf": 0}}, nil
	}

	precision := sumP / float64(orders)
	recall := sumR / float64(orders)
	var chrf float64
	if precision+recall > 0 {
		chrf = (1 + beta*beta) * precision * recall / (beta*beta*precision + recall)
	}
	return core.MetricResult{
		Score: chrf,
		Scores: map[string]float64{
			"chrf":      chrf,
			"precision": precision,
			"recall":    recall,
		},
	}, nil
}

// charTokens returns single-character tokens with whitespace collapsed.
func charTokens(text string) []string {
	collapsed := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	tokens := make([]string, 0, len(collapsed))
	for _, r := range collapsed {
		tokens = append(tokens, string(r))
	}
	return tokens
}

// Levenshtein scores normalized edit similarity of the summary against the
// reference: 1 - distance/maxLength.
type Levenshtein struct{}

func (Levenshtein) Name() string { return registry.Levenshtein }

func (Levenshtein) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	a := []rune(strings.TrimSpace(strings.ToLower(in.Summary)))
	b := []rune(strings.TrimSpace(strings.ToLower(in.Reference)))
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return core.MetricResult{Score: 1, Scores: map[string]float64{"levenshtein": 1}}, nil
	}

	distance := editDistance(a, b)
	similarity := 1 - float64(distance)/float64(longest)
	return core.MetricResult{
		Score: similarity,
		Scores: map[string]float64{
			"levenshtein": similarity,
			"distance":    float64(distance),
		},
	}, nil
}

func editDistance(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
