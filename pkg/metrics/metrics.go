// Package metrics provides the local scoring collaborators for the built-in
// catalog. Each scorer is a pure function of its inputs; embedding-backed
// scorers go through the Embedder contract instead of local model weights.
package metrics

import "sumeval/pkg/core"

// Defaults returns the local collaborators keyed by metric name. A nil
// embedder leaves the embedding-backed metrics registered but reporting
// skipped.
func Defaults(embedder core.Embedder) map[string]core.LocalScorer {
	scorers := []core.LocalScorer{
		ROUGE{},
		BLEU{},
		METEOR{},
		ChrF{},
		Levenshtein{},
		EntityCoverage{},
		Perplexity{},
		BERTScore{Embedder: embedder},
		BERTScoreRecall{Embedder: embedder},
		SemanticCoverage{Embedder: embedder},
	}
	byName := make(map[string]core.LocalScorer, len(scorers))
	for _, s := range scorers {
		byName[s.Name()] = s
	}
	return byName
}
