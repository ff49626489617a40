package metrics

import (
	"context"
	"math"
	"regexp"
	"strings"

	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

var entityPattern = regexp.MustCompile(`\b(?:[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*|\d[\d,.]*%?)\b`)

// sentence openers that look like entities but are ordinary words.
var entityStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true,
	"in": true, "on": true, "at": true, "recent": true, "recently": true,
	"however": true, "meanwhile": true, "according": true,
}

// EntityCoverage measures the fraction of named entities and figures in the
// source document that the summary mentions.
type EntityCoverage struct{}

func (EntityCoverage) Name() string { return registry.EntityCoverage }

func (EntityCoverage) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	entities := extractEntities(in.Source)
	if len(entities) == 0 {
		return core.MetricResult{
			Score:       1,
			Scores:      map[string]float64{"entity_coverage": 1, "total_entities": 0},
			Explanation: "no entities detected in source",
		}, nil
	}

	summary := strings.ToLower(in.Summary)
	covered := 0
	for entity := range entities {
		if strings.Contains(summary, entity) {
			covered++
		}
	}
	coverage := float64(covered) / float64(len(entities))
	return core.MetricResult{
		Score: coverage,
		Scores: map[string]float64{
			"entity_coverage": coverage,
			"total_entities":  float64(len(entities)),
			"covered":         float64(covered),
		},
	}, nil
}

func extractEntities(text string) map[string]bool {
	entities := make(map[string]bool)
	for _, match := range entityPattern.FindAllString(text, -1) {
		normalized := strings.ToLower(strings.TrimSpace(match))
		if entityStopwords[normalized] || len(normalized) < 2 {
			continue
		}
		entities[normalized] = true
	}
	return entities
}

// Perplexity is a fluency stand-in: unigram log-perplexity of the summary,
// mapped onto 0-1. A real LM-backed collaborator plugs in through the same
// LocalScorer contract.
type Perplexity struct{}

func (Perplexity) Name() string { return registry.Perplexity }

func (Perplexity) Score(_ context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	tokens := tokenize(in.Summary)
	if len(tokens) == 0 {
		// Symbol-only text has no tokens to score; Inf would not survive
		// JSON encoding downstream.
		return core.MetricResult{
			Status:      core.StatusSkipped,
			Explanation: "no scorable tokens in summary",
		}, nil
	}

	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	vocab := float64(len(counts))
	n := float64(len(tokens))

	logSum := 0.0
	for _, t := range tokens {
		// Add-one smoothed unigram probability.
		p := (counts[t] + 1) / (n + vocab)
		logSum += math.Log(p)
	}
	perplexity := math.Exp(-logSum / n)
	fluency := 1 / (1 + math.Log(perplexity))

	return core.MetricResult{
		Score: fluency,
		Scores: map[string]float64{
			"fluency":    fluency,
			"perplexity": perplexity,
		},
	}, nil
}
