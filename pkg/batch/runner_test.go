package batch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/core"
	"sumeval/pkg/dispatch"
	"sumeval/pkg/judge"
	"sumeval/pkg/metrics"
	"sumeval/pkg/model"
	"sumeval/pkg/registry"
)

func newRunner(workers int, client core.CompletionClient) *Runner {
	engine := &judge.Engine{
		Client: client,
		Policy: judge.Policy{Timeout: time.Second, MaxRetries: 0, Backoff: time.Millisecond},
	}
	dispatcher := dispatch.New(dispatch.Config{
		Registry: registry.Default(),
		Locals:   metrics.Defaults(nil),
		Judge:    engine,
	})
	return &Runner{Dispatcher: dispatcher, Judge: engine, Workers: workers}
}

func rows(n int) []core.EvaluationInputs {
	out := make([]core.EvaluationInputs, n)
	for i := range out {
		out[i] = core.EvaluationInputs{
			Summary:   "The cat slept on the warm mat.",
			Reference: "The cat slept on the mat.",
		}
	}
	return out
}

func TestRunLenMatchesRows(t *testing.T) {
	r := newRunner(4, nil)
	job := Job{Rows: rows(7), Metrics: []string{registry.ROUGE, registry.Levenshtein}}

	responses, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, responses, 7)
	for _, response := range responses {
		require.Len(t, response.Results, 2)
		require.Equal(t, core.StatusOK, response.Results[registry.ROUGE].Status)
	}
}

func TestRunZeroRows(t *testing.T) {
	r := newRunner(4, nil)
	responses, err := r.Run(context.Background(), Job{Metrics: []string{registry.ROUGE}})
	require.NoError(t, err)
	require.Empty(t, responses)
	require.NotNil(t, responses)
}

func TestRunUnknownMetricFailsBeforeWork(t *testing.T) {
	r := newRunner(1, nil)
	_, err := r.Run(context.Background(), Job{Rows: rows(2), Metrics: []string{"nope"}})
	require.ErrorIs(t, err, dispatch.ErrUnknownMetric)
}

func TestRunPreservesRowOrder(t *testing.T) {
	r := newRunner(4, nil)

	// Distinct references give each row a distinct levenshtein score, so a
	// shuffled result would be visible.
	job := Job{
		Rows: []core.EvaluationInputs{
			{ID: "a", Summary: "aaaa", Reference: "aaaa"},
			{ID: "b", Summary: "aaaa", Reference: "aabb"},
			{ID: "c", Summary: "aaaa", Reference: "bbbb"},
		},
		Metrics: []string{registry.Levenshtein},
	}

	responses, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	require.Equal(t, 1.0, responses[0].Results[registry.Levenshtein].Score)
	require.InDelta(t, 0.5, responses[1].Results[registry.Levenshtein].Score, 1e-9)
	require.Equal(t, 0.0, responses[2].Results[registry.Levenshtein].Score)
}

// slowScorer finishes early rows last, so any index mix-up between worker
// completion order and output order would show.
type slowScorer struct{}

func (slowScorer) Name() string { return registry.Perplexity }

func (slowScorer) Score(ctx context.Context, in core.EvaluationInputs) (core.MetricResult, error) {
	delay := time.Duration(20-len(in.ID)*5) * time.Millisecond
	select {
	case <-ctx.Done():
		return core.MetricResult{}, ctx.Err()
	case <-time.After(delay):
	}
	return core.MetricResult{Score: float64(len(in.ID))}, nil
}

func TestRunOrderSurvivesUnevenLatency(t *testing.T) {
	dispatcher := dispatch.New(dispatch.Config{
		Registry: registry.Default(),
		Locals:   map[string]core.LocalScorer{registry.Perplexity: slowScorer{}},
	})
	r := &Runner{Dispatcher: dispatcher, Workers: 3}

	job := Job{
		Rows: []core.EvaluationInputs{
			{ID: "a", Summary: "one"},
			{ID: "bb", Summary: "two"},
			{ID: "ccc", Summary: "three"},
		},
		Metrics: []string{registry.Perplexity},
	}

	responses, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	require.Equal(t, 1.0, responses[0].Results[registry.Perplexity].Score)
	require.Equal(t, 2.0, responses[1].Results[registry.Perplexity].Score)
	require.Equal(t, 3.0, responses[2].Results[registry.Perplexity].Score)
}

func TestRunMalformedRowFailsEveryCell(t *testing.T) {
	r := newRunner(2, model.MockCompletion{Response: "Score: 8"})
	job := Job{
		Rows: []core.EvaluationInputs{
			{Summary: "The cat slept.", Reference: "The cat slept."},
			{Summary: "   ", Reference: "The cat slept."},
		},
		Metrics:       []string{registry.ROUGE},
		JudgeTemplate: "Rate: {PREDICTED_TEXT}",
	}

	responses, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	bad := responses[1]
	require.Len(t, bad.Results, 2)
	require.Equal(t, core.StatusFailed, bad.Results[registry.ROUGE].Status)
	require.Equal(t, core.StatusFailed, bad.Results[registry.CustomJudge].Status)

	good := responses[0]
	require.Equal(t, core.StatusOK, good.Results[registry.ROUGE].Status)
	require.Equal(t, core.StatusOK, good.Results[registry.CustomJudge].Status)
}

func TestRunCustomJudgeColumn(t *testing.T) {
	r := newRunner(2, model.MockCompletion{Response: "Score: 7\nExplanation: fine"})
	job := Job{
		Rows:          rows(3),
		Metrics:       []string{registry.ROUGE},
		JudgeTemplate: "Rate: {PREDICTED_TEXT}",
	}

	responses, err := r.Run(context.Background(), job)
	require.NoError(t, err)
	for _, response := range responses {
		judgeResult := response.Results[registry.CustomJudge]
		require.Equal(t, core.StatusOK, judgeResult.Status)
		require.Equal(t, 7.0, judgeResult.Score)
		require.Equal(t, "fine", judgeResult.Explanation)
	}
}

func TestRunProgressReachesTotal(t *testing.T) {
	r := newRunner(3, nil)
	var maxCompleted, lastTotal atomic.Int64
	r.Progress = func(completed, total int) {
		for {
			prev := maxCompleted.Load()
			if int64(completed) <= prev || maxCompleted.CompareAndSwap(prev, int64(completed)) {
				break
			}
		}
		lastTotal.Store(int64(total))
	}

	_, err := r.Run(context.Background(), Job{Rows: rows(5), Metrics: []string{registry.ROUGE}})
	require.NoError(t, err)
	require.Equal(t, int64(5), maxCompleted.Load())
	require.Equal(t, int64(5), lastTotal.Load())
}

func TestRunAuthFailureSurfacesOnceWithFullOutput(t *testing.T) {
	r := newRunner(2, model.MockCompletion{
		Err: &core.CompletionError{Provider: "test", StatusCode: 401, Err: errors.New("bad key")},
	})
	job := Job{Rows: rows(3), Metrics: []string{registry.LLMFluency}}

	responses, err := r.Run(context.Background(), job)
	require.Error(t, err)
	require.Len(t, responses, 3)
	for _, response := range responses {
		require.Equal(t, core.StatusFailed, response.Results[registry.LLMFluency].Status)
	}
}

// cancellingScorer cancels the run while scoring, leaving the rest of its
// row undispatched.
type cancellingScorer struct{ cancel context.CancelFunc }

func (cancellingScorer) Name() string { return registry.ROUGE }

func (s cancellingScorer) Score(context.Context, core.EvaluationInputs) (core.MetricResult, error) {
	s.cancel()
	return core.MetricResult{Score: 1}, nil
}

func TestRunCancelledMidRowPadsUndispatchedCells(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := &judge.Engine{
		Client: model.MockCompletion{Response: "Score: 8"},
		Policy: judge.Policy{Timeout: time.Second},
	}
	dispatcher := dispatch.New(dispatch.Config{
		Registry: registry.Default(),
		Locals: map[string]core.LocalScorer{
			registry.ROUGE:       cancellingScorer{cancel: cancel},
			registry.Levenshtein: metrics.Levenshtein{},
		},
		Judge: engine,
	})
	r := &Runner{Dispatcher: dispatcher, Judge: engine, Workers: 1}

	job := Job{
		Rows:          []core.EvaluationInputs{{Summary: "x", Reference: "x"}},
		Metrics:       []string{registry.ROUGE, registry.Levenshtein},
		JudgeTemplate: "Rate: {PREDICTED_TEXT}",
	}

	responses, err := r.Run(ctx, job)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, responses, 1)

	// Every requested column is present: the dispatched one intact, the
	// undispatched ones as failed cells naming the cancellation.
	results := responses[0].Results
	require.Len(t, results, 3)
	require.Equal(t, core.StatusOK, results[registry.ROUGE].Status)
	require.Equal(t, core.StatusFailed, results[registry.Levenshtein].Status)
	require.Contains(t, results[registry.Levenshtein].Err, "not dispatched")
	require.Equal(t, core.StatusFailed, results[registry.CustomJudge].Status)
	require.Contains(t, results[registry.CustomJudge].Err, context.Canceled.Error())
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRunner(2, nil)
	responses, err := r.Run(ctx, Job{Rows: rows(4), Metrics: []string{registry.ROUGE}})
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, responses, 4)
}
