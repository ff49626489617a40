package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/registry"
)

func TestMetricsSourceAndReference(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	names := rec.Metrics(true, true, false)

	require.Equal(t, []string{
		registry.EntityCoverage,
		registry.SemanticCoverage,
		registry.BERTScoreRecall,
		registry.Perplexity,
		registry.FactCheckerAPI,
		registry.ROUGE,
		registry.BLEU,
		registry.METEOR,
		registry.ChrF,
		registry.Levenshtein,
		registry.BERTScore,
	}, names)
}

func TestMetricsSourceOnly(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	names := rec.Metrics(true, false, false)

	require.Equal(t, []string{
		registry.EntityCoverage,
		registry.SemanticCoverage,
		registry.BERTScoreRecall,
		registry.Perplexity,
		registry.FactCheckerAPI,
	}, names)
}

func TestMetricsReferenceOnly(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	names := rec.Metrics(false, true, false)

	require.Equal(t, []string{
		registry.ROUGE,
		registry.BLEU,
		registry.METEOR,
		registry.ChrF,
		registry.Levenshtein,
		registry.BERTScore,
	}, names)
}

func TestMetricsNeither(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	names := rec.Metrics(false, false, false)

	require.Equal(t, []string{registry.Perplexity}, names)
}

func TestQuickSetOnePerCategory(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	names := rec.Metrics(true, true, true)

	require.Equal(t, []string{
		registry.ROUGE,
		registry.BERTScore,
		registry.EntityCoverage,
		registry.Perplexity,
		registry.FactCheckerAPI,
		registry.LLMFaithfulness,
	}, names)
}

// A scenario with more inputs never recommends fewer metrics.
func TestRicherInputsNeverShrinkTheSet(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}

	both := len(rec.Metrics(true, true, false))
	sourceOnly := len(rec.Metrics(true, false, false))
	referenceOnly := len(rec.Metrics(false, true, false))
	neither := len(rec.Metrics(false, false, false))

	require.GreaterOrEqual(t, both, sourceOnly)
	require.GreaterOrEqual(t, both, referenceOnly)
	require.GreaterOrEqual(t, sourceOnly, neither)
	require.GreaterOrEqual(t, referenceOnly, neither)
}

func TestRecommendationsAreDeterministic(t *testing.T) {
	rec := Recommender{Registry: registry.Default()}
	first := rec.Metrics(true, true, false)
	second := rec.Metrics(true, true, false)
	require.Equal(t, first, second)
}
