// Package batch runs a metric set across many evaluation rows with a
// bounded worker pool, isolating failures per (row, metric) cell.
package batch

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"sumeval/pkg/aggregate"
	"sumeval/pkg/core"
	"sumeval/pkg/dispatch"
	"sumeval/pkg/judge"
	"sumeval/pkg/registry"
)

// Job is one batch: rows, the metric selection applied uniformly to every
// row, and an optional custom judge template.
type Job struct {
	Rows          []core.EvaluationInputs
	Metrics       []string
	JudgeTemplate string
}

// Runner executes batch jobs. Output order always matches input row order
// regardless of worker completion order.
type Runner struct {
	Dispatcher *dispatch.Dispatcher
	Judge      *judge.Engine
	Workers    int
	Progress   func(completed, total int)
	Logger     *zap.Logger
}

// Run evaluates every row of the job. The returned slice is index-aligned
// with job.Rows and always has the same length, even when every cell failed.
// A per-cell failure never aborts the batch; the returned error reports
// invocation errors (unknown metric), cancellation, and remote authorization
// problems, with the result slice intact alongside it.
func (r *Runner) Run(ctx context.Context, job Job) ([]core.EvaluationResponse, error) {
	// Unknown metric names are a caller mistake; fail before any work.
	for _, name := range job.Metrics {
		if !r.Dispatcher.Registry().Has(name) {
			return nil, dispatch.ErrUnknownMetric
		}
	}

	responses := make([]core.EvaluationResponse, len(job.Rows))
	if len(job.Rows) == 0 {
		return responses, nil
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(job.Rows) {
		workers = len(job.Rows)
	}

	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		completed atomic.Int64
		firstErr  atomic.Pointer[error]
		wg        sync.WaitGroup
	)
	recordErr := func(err error) {
		if err == nil {
			return
		}
		e := err
		firstErr.CompareAndSwap(nil, &e)
	}

	indexes := make(chan int)
	go func() {
		defer close(indexes)
		for i := range job.Rows {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				responses[i] = r.runRow(ctx, job, job.Rows[i], recordErr, logger)
				done := completed.Add(1)
				if r.Progress != nil {
					r.Progress(int(done), len(job.Rows))
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return responses, err
	}
	if errPtr := firstErr.Load(); errPtr != nil {
		return responses, *errPtr
	}
	return responses, nil
}

func (r *Runner) runRow(ctx context.Context, job Job, row core.EvaluationInputs, recordErr func(error), logger *zap.Logger) core.EvaluationResponse {
	columns := job.Metrics
	if job.JudgeTemplate != "" {
		columns = append(append([]string{}, job.Metrics...), registry.CustomJudge)
	}

	// A malformed row still yields a full row of failed cells rather than
	// shrinking the output.
	if err := row.Validate(); err != nil {
		return aggregate.FailedRow(row, columns, err.Error())
	}

	results := make([]core.MetricResult, 0, len(columns))
	for _, name := range job.Metrics {
		if ctx.Err() != nil {
			break
		}
		result, err := r.Dispatcher.Run(ctx, name, row)
		if err != nil && ctx.Err() == nil {
			recordErr(err)
			if result.Metric == "" {
				result = core.MetricResult{Metric: name, Status: core.StatusFailed, Err: err.Error()}
			}
		}
		if result.Metric != "" {
			results = append(results, result)
		}
		if result.Status == core.StatusFailed {
			logger.Debug("metric failed",
				zap.String("row", row.ID),
				zap.String("metric", name),
				zap.String("error", result.Err))
		}
	}

	if job.JudgeTemplate != "" && ctx.Err() == nil && r.Judge != nil {
		result, err := r.Judge.Evaluate(ctx, job.JudgeTemplate, row)
		if err != nil && ctx.Err() == nil {
			recordErr(err)
		}
		if result.Metric != "" {
			results = append(results, result)
		}
	}

	response := aggregate.Merge(row, results)

	// Cancellation mid-row leaves cells undispatched; pad them so a
	// cancelled batch still carries every requested column.
	if err := ctx.Err(); err != nil {
		for _, name := range columns {
			if _, ok := response.Results[name]; !ok {
				response.Results[name] = core.MetricResult{
					Metric: name,
					Status: core.StatusFailed,
					Err:    "not dispatched: " + err.Error(),
				}
			}
		}
	}
	return response
}
