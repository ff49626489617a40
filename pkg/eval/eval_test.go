package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/core"
	"sumeval/pkg/model"
	"sumeval/pkg/registry"
)

func newClient(t *testing.T, completion core.CompletionClient) *Client {
	t.Helper()
	t.Setenv(model.EnvAPIKey, "")
	client, err := New(context.Background(), Config{
		Completion: completion,
		NoCache:    true,
	})
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestListMetrics(t *testing.T) {
	client := newClient(t, nil)
	require.Len(t, client.ListMetrics(), 17)

	info, err := client.MetricInfo(registry.ROUGE)
	require.NoError(t, err)
	require.Equal(t, core.KindLocal, info.Kind)

	_, err = client.MetricInfo("nope")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRunMetric(t *testing.T) {
	client := newClient(t, nil)
	result, err := client.RunMetric(context.Background(), registry.ROUGE, "the cat slept", "", "the cat slept")
	require.NoError(t, err)
	require.Equal(t, core.StatusOK, result.Status)
	require.Equal(t, 1.0, result.Score)
}

func TestRunMetricsReturnsEveryRequested(t *testing.T) {
	client := newClient(t, nil)
	names := []string{registry.ROUGE, registry.LLMFluency}

	response, err := client.RunMetrics(context.Background(), names, "the cat slept", "", "the cat slept")
	require.NoError(t, err)
	require.Len(t, response.Results, 2)
	require.Equal(t, core.StatusOK, response.Results[registry.ROUGE].Status)
	// No completion client configured, so the judge metric is skipped.
	require.Equal(t, core.StatusSkipped, response.Results[registry.LLMFluency].Status)
	require.Equal(t, core.ScenarioReferenceOnly, response.Scenario)
}

func TestRunMetricsEmptySummary(t *testing.T) {
	client := newClient(t, nil)
	_, err := client.RunMetrics(context.Background(), []string{registry.ROUGE}, "  ", "", "ref")
	require.ErrorIs(t, err, core.ErrEmptySummary)
}

func TestEvaluateSummaryUsesRecommendedSet(t *testing.T) {
	client := newClient(t, nil)

	response, err := client.EvaluateSummary(context.Background(), "the cat slept", "", "the cat slept on the mat")
	require.NoError(t, err)

	// Reference-only scenario: the conformance set.
	expected := client.Recommended(false, true, false)
	require.Len(t, response.Results, len(expected))
	for _, name := range expected {
		_, ok := response.Results[name]
		require.True(t, ok, name)
	}
}

// The scenario reflects the inputs actually present, not the metric
// selection: requesting a conformance metric without a reference yields a
// source-only scenario with a skipped cell.
func TestScenarioIndependentOfRequestedMetrics(t *testing.T) {
	client := newClient(t, nil)

	response, err := client.RunMetrics(context.Background(), []string{registry.ROUGE}, "the cat slept", "the cat slept on the mat", "")
	require.NoError(t, err)
	require.Equal(t, core.ScenarioSourceOnly, response.Scenario)
	require.Equal(t, core.StatusSkipped, response.Results[registry.ROUGE].Status)
}

func TestRunMetricIsIdempotent(t *testing.T) {
	client := newClient(t, nil)

	first, err := client.RunMetric(context.Background(), registry.BLEU, "the cat slept", "", "the cat slept on the mat")
	require.NoError(t, err)
	second, err := client.RunMetric(context.Background(), registry.BLEU, "the cat slept", "", "the cat slept on the mat")
	require.NoError(t, err)

	require.Equal(t, first.Status, second.Status)
	require.Equal(t, first.Score, second.Score)
}

func TestCustomJudge(t *testing.T) {
	client := newClient(t, model.MockCompletion{Response: "Score: 9\nExplanation: faithful"})

	result, err := client.CustomJudge(context.Background(), "Rate {PREDICTED_TEXT} against {PROMPT}", "cats sleep", "cats nap", "")
	require.NoError(t, err)
	require.Equal(t, registry.CustomJudge, result.Metric)
	require.Equal(t, 9.0, result.Score)
	require.Equal(t, "faithful", result.Explanation)
}

func TestJudgeColumns(t *testing.T) {
	client := newClient(t, nil)

	explained := client.JudgeColumns([]string{registry.ROUGE, registry.LLMFluency}, true)
	require.Equal(t, map[string]bool{
		registry.LLMFluency:  true,
		registry.CustomJudge: true,
	}, explained)
}

func TestBatchRunnerSharesDispatcher(t *testing.T) {
	client := newClient(t, nil)
	runner := client.BatchRunner(2, nil)
	require.NotNil(t, runner.Dispatcher)
	require.Equal(t, 2, runner.Workers)
}
