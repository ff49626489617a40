package reporter

import (
	"encoding/json"
	"io"

	"sumeval/pkg/core"
)

type JSONReporter struct {
	Writer io.Writer
	Pretty bool
}

type jsonRow struct {
	ID       string                       `json:"id"`
	Scenario core.Scenario                `json:"scenario"`
	Results  map[string]core.MetricResult `json:"results"`
}

func (r JSONReporter) Report(report Report) error {
	rows := make([]jsonRow, 0, len(report.Responses))
	for i, response := range report.Responses {
		rows = append(rows, jsonRow{
			ID:       report.Rows[i].ID,
			Scenario: response.Scenario,
			Results:  response.Results,
		})
	}
	encoder := json.NewEncoder(r.Writer)
	if r.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(rows)
}
