package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/core"
)

func sampleReport() Report {
	rows := []core.EvaluationInputs{
		{ID: "1", Summary: "a", Reference: "b"},
		{ID: "2", Summary: "c"},
	}
	responses := []core.EvaluationResponse{
		{
			Scenario: core.ScenarioReferenceOnly,
			Results: map[string]core.MetricResult{
				"rouge":       {Metric: "rouge", Status: core.StatusOK, Score: 0.4219},
				"llm_fluency": {Metric: "llm_fluency", Status: core.StatusOK, Score: 0.8, Explanation: "reads well"},
			},
		},
		{
			Scenario: core.ScenarioNeither,
			Results: map[string]core.MetricResult{
				"rouge":       {Metric: "rouge", Status: core.StatusSkipped},
				"llm_fluency": {Metric: "llm_fluency", Status: core.StatusFailed, Err: "boom"},
			},
		},
	}
	return New([]string{"rouge", "llm_fluency"}, map[string]bool{"llm_fluency": true}, rows, responses)
}

func TestHeaderAndRecordLayout(t *testing.T) {
	report := sampleReport()

	require.Equal(t, []string{"id", "scenario", "rouge", "llm_fluency", "llm_fluency_explanation"}, report.header())
	require.Equal(t, []string{"1", "reference-only", "0.4219", "0.8000", "reads well"}, report.record(0))
	require.Equal(t, []string{"2", "neither", "skipped", "failed", "boom"}, report.record(1))
}

func TestCSVReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVReporter{Writer: &buf}.Report(sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "llm_fluency_explanation", records[0][4])
	require.Equal(t, "0.4219", records[1][2])
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONReporter{Writer: &buf}.Report(sampleReport()))

	var rows []struct {
		ID       string                       `json:"id"`
		Scenario string                       `json:"scenario"`
		Results  map[string]core.MetricResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "reference-only", rows[0].Scenario)
	require.Equal(t, 0.4219, rows[0].Results["rouge"].Score)
}

func TestMarkdownReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarkdownReporter{Writer: &buf}.Report(sampleReport()))

	out := buf.String()
	require.Contains(t, out, "| id ")
	require.Contains(t, out, "0.4219")
	require.Contains(t, out, "reads well")
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TableReporter{Writer: &buf}.Report(sampleReport()))

	out := strings.ToLower(buf.String())
	require.Contains(t, out, "rouge")
	require.Contains(t, out, "skipped")
}
