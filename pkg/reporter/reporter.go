// Package reporter renders batch results as a table with one score column
// per metric and an explanation column per judge-style metric.
package reporter

import (
	"fmt"

	"sumeval/pkg/core"
)

const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Reporter writes a batch report.
type Reporter interface {
	Report(report Report) error
}

// Report pairs batch rows with the column layout used to render them.
type Report struct {
	// Metrics are the score columns, in selection order.
	Metrics []string
	// Explained marks metrics that also get an explanation column.
	Explained map[string]bool
	Rows      []core.EvaluationInputs
	Responses []core.EvaluationResponse
}

// New builds a report. rows and responses are index-aligned.
func New(metrics []string, explained map[string]bool, rows []core.EvaluationInputs, responses []core.EvaluationResponse) Report {
	if explained == nil {
		explained = map[string]bool{}
	}
	return Report{Metrics: metrics, Explained: explained, Rows: rows, Responses: responses}
}

// header returns the flat column list: id, scenario, then per metric a score
// column and, for judge-style metrics, an explanation column.
func (r Report) header() []string {
	columns := []string{"id", "scenario"}
	for _, m := range r.Metrics {
		columns = append(columns, m)
		if r.Explained[m] {
			columns = append(columns, m+"_explanation")
		}
	}
	return columns
}

// record renders one row in header order.
func (r Report) record(i int) []string {
	response := r.Responses[i]
	record := []string{r.Rows[i].ID, string(response.Scenario)}
	for _, m := range r.Metrics {
		result, ok := response.Results[m]
		record = append(record, scoreCell(result, ok))
		if r.Explained[m] {
			record = append(record, explanationCell(result))
		}
	}
	return record
}

func scoreCell(result core.MetricResult, ok bool) string {
	if !ok {
		return ""
	}
	switch result.Status {
	case core.StatusOK:
		return fmt.Sprintf("%.4f", result.Score)
	case core.StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

func explanationCell(result core.MetricResult) string {
	if result.Explanation != "" {
		return result.Explanation
	}
	return result.Err
}
