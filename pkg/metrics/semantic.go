package metrics

import (
	"context"
	"fmt"
	"math"

	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

// skippedNoEmbedder is the result for embedding-backed metrics when no
// embedder is configured; like missing remote credentials this is a
// signaled condition, not a failure.
func skippedNoEmbedder(metric string) core.MetricResult {
	return core.MetricResult{
		Metric:      metric,
		Status:      core.StatusSkipped,
		Explanation: "embedding capability not configured: set SUMEVAL_API_KEY",
	}
}

// BERTScore scores sentence-level embedding similarity of the summary
// against the reference: greedy cosine matching in both directions yields
// precision, recall, and F1.
type BERTScore struct {
	Embedder core.Embedder
}

func (BERTScore) Name() string { return registry.BERTScore }

func (s BERTScore) Score(ctx context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	if s.Embedder == nil {
		return skippedNoEmbedder(s.Name()), nil
	}
	precision, recall, err := matchSentences(ctx, s.Embedder, in.Summary, in.Reference)
	if err != nil {
		return core.MetricResult{}, err
	}
	score := f1(precision, recall)
	return core.MetricResult{
		Score: score,
		Scores: map[string]float64{
			"precision": precision,
			"recall":    recall,
			"f1":        score,
		},
	}, nil
}

// BERTScoreRecall measures how much of the source document the summary
// recalls: mean best cosine similarity over source sentences.
type BERTScoreRecall struct {
	Embedder core.Embedder
}

func (BERTScoreRecall) Name() string { return registry.BERTScoreRecall }

func (s BERTScoreRecall) Score(ctx context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	if s.Embedder == nil {
		return skippedNoEmbedder(s.Name()), nil
	}
	_, recall, err := matchSentences(ctx, s.Embedder, in.Summary, in.Source)
	if err != nil {
		return core.MetricResult{}, err
	}
	return core.MetricResult{
		Score:  recall,
		Scores: map[string]float64{"recall": recall},
	}, nil
}

// SemanticCoverage is the fraction of source sentences whose best summary
// match clears a similarity threshold.
type SemanticCoverage struct {
	Embedder  core.Embedder
	Threshold float64
}

func (SemanticCoverage) Name() string { return registry.SemanticCoverage }

func (s SemanticCoverage) Score(ctx context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	if s.Embedder == nil {
		return skippedNoEmbedder(s.Name()), nil
	}
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = 0.7
	}

	summarySentences := sentences(in.Summary)
	sourceSentences := sentences(in.Source)
	if len(summarySentences) == 0 || len(sourceSentences) == 0 {
		return core.MetricResult{Score: 0, Scores: map[string]float64{"semantic_coverage": 0}}, nil
	}

	summaryVecs, sourceVecs, err := embedPair(ctx, s.Embedder, summarySentences, sourceSentences)
	if err != nil {
		return core.MetricResult{}, err
	}

	covered := 0
	for _, src := range sourceVecs {
		if bestCosine(src, summaryVecs) >= threshold {
			covered++
		}
	}
	coverage := float64(covered) / float64(len(sourceVecs))
	return core.MetricResult{
		Score: coverage,
		Scores: map[string]float64{
			"semantic_coverage": coverage,
			"total_sentences":   float64(len(sourceVecs)),
			"covered":           float64(covered),
		},
	}, nil
}

// matchSentences embeds both texts sentence-wise and returns greedy-match
// precision (candidate against other) and recall (other against candidate).
func matchSentences(ctx context.Context, embedder core.Embedder, candidate, other string) (precision, recall float64, err error) {
	candSentences := sentences(candidate)
	otherSentences := sentences(other)
	if len(candSentences) == 0 || len(otherSentences) == 0 {
		return 0, 0, nil
	}

	candVecs, otherVecs, err := embedPair(ctx, embedder, candSentences, otherSentences)
	if err != nil {
		return 0, 0, err
	}

	for _, v := range candVecs {
		precision += bestCosine(v, otherVecs)
	}
	precision /= float64(len(candVecs))
	for _, v := range otherVecs {
		recall += bestCosine(v, candVecs)
	}
	recall /= float64(len(otherVecs))
	return precision, recall, nil
}

// embedPair embeds both sentence lists in one call.
func embedPair(ctx context.Context, embedder core.Embedder, a, b []string) ([][]float64, [][]float64, error) {
	vectors, err := embedder.Embed(ctx, append(append([]string{}, a...), b...))
	if err != nil {
		return nil, nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(a)+len(b) {
		return nil, nil, fmt.Errorf("embed: expected %d vectors, got %d", len(a)+len(b), len(vectors))
	}
	return vectors[:len(a)], vectors[len(a):], nil
}

func bestCosine(v []float64, candidates [][]float64) float64 {
	best := 0.0
	for _, c := range candidates {
		if sim := cosine(v, c); sim > best {
			best = sim
		}
	}
	return best
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
