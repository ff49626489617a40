package reporter

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

type TableReporter struct {
	Writer io.Writer
}

func (r TableReporter) Report(report Report) error {
	table := tablewriter.NewWriter(r.Writer)
	table.Header(report.header())
	for i := range report.Responses {
		table.Append(report.record(i))
	}
	table.Render()
	return nil
}
