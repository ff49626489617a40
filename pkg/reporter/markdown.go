package reporter

import (
	"fmt"
	"io"
	"strings"
)

type MarkdownReporter struct {
	Writer io.Writer
}

func (r MarkdownReporter) Report(report Report) error {
	header := report.header()
	if _, err := fmt.Fprintf(r.Writer, "| %s |\n", strings.Join(header, " | ")); err != nil {
		return err
	}
	separators := make([]string, len(header))
	for i := range separators {
		separators[i] = "---"
	}
	if _, err := fmt.Fprintf(r.Writer, "| %s |\n", strings.Join(separators, " | ")); err != nil {
		return err
	}
	for i := range report.Responses {
		cells := report.record(i)
		for j, cell := range cells {
			cells[j] = strings.ReplaceAll(cell, "|", "\\|")
		}
		if _, err := fmt.Fprintf(r.Writer, "| %s |\n", strings.Join(cells, " | ")); err != nil {
			return err
		}
	}
	return nil
}
