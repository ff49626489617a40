// Package runlog writes a JSON artifact per batch run so results survive
// beyond the terminal output.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sumeval/pkg/core"
)

// Log is the on-disk record of one batch run.
type Log struct {
	Version     int                       `json:"version"`
	StartedAt   time.Time                 `json:"started_at"`
	FinishedAt  time.Time                 `json:"finished_at"`
	Metrics     []string                  `json:"metrics"`
	CustomJudge bool                      `json:"custom_judge"`
	TotalRows   int                       `json:"total_rows"`
	FailedCells int                       `json:"failed_cells"`
	Rows        []core.EvaluationResponse `json:"rows"`
}

// FromRun assembles a log from batch output.
func FromRun(metrics []string, customJudge bool, responses []core.EvaluationResponse, started, finished time.Time) Log {
	failed := 0
	for _, response := range responses {
		for _, result := range response.Results {
			if result.Status == core.StatusFailed {
				failed++
			}
		}
	}
	return Log{
		Version:     1,
		StartedAt:   started,
		FinishedAt:  finished,
		Metrics:     metrics,
		CustomJudge: customJudge,
		TotalRows:   len(responses),
		FailedCells: failed,
		Rows:        responses,
	}
}

// Write stores the log under dir with a timestamped name and returns the
// path.
func Write(dir string, log Log) (string, error) {
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("run-%s.json", log.StartedAt.UTC().Format("2006-01-02T15-04-05"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(log); err != nil {
		return "", err
	}
	return path, nil
}
