// Package aggregate merges per-metric results into one evaluation response.
package aggregate

import "sumeval/pkg/core"

// DetectScenario reports which optional inputs are actually present,
// independent of what the caller requested. This lets callers distinguish a
// metric skipped by recommender choice from one skipped for missing input.
func DetectScenario(in core.EvaluationInputs) core.Scenario {
	switch {
	case in.HasSource() && in.HasReference():
		return core.ScenarioSourceAndReference
	case in.HasSource():
		return core.ScenarioSourceOnly
	case in.HasReference():
		return core.ScenarioReferenceOnly
	default:
		return core.ScenarioNeither
	}
}

// Merge assembles the results of one evaluation request. Later results for
// the same metric name overwrite earlier ones.
func Merge(in core.EvaluationInputs, results []core.MetricResult) core.EvaluationResponse {
	response := core.EvaluationResponse{
		Scenario: DetectScenario(in),
		Results:  make(map[string]core.MetricResult, len(results)),
	}
	for _, r := range results {
		if r.Metric == "" {
			continue
		}
		response.Results[r.Metric] = r
	}
	return response
}

// FailedRow builds an all-failed response for a row that could not produce
// any result, keeping the batch output index-aligned.
func FailedRow(in core.EvaluationInputs, metrics []string, reason string) core.EvaluationResponse {
	response := core.EvaluationResponse{
		Scenario: DetectScenario(in),
		Results:  make(map[string]core.MetricResult, len(metrics)),
	}
	for _, name := range metrics {
		response.Results[name] = core.MetricResult{
			Metric: name,
			Status: core.StatusFailed,
			Err:    reason,
		}
	}
	return response
}
