package reporter

import (
	"encoding/csv"
	"io"
)

type CSVReporter struct {
	Writer io.Writer
}

func (r CSVReporter) Report(report Report) error {
	writer := csv.NewWriter(r.Writer)
	if err := writer.Write(report.header()); err != nil {
		return err
	}
	for i := range report.Responses {
		if err := writer.Write(report.record(i)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
