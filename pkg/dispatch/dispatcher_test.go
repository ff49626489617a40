package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/core"
	"sumeval/pkg/judge"
	"sumeval/pkg/model"
	"sumeval/pkg/registry"
)

type stubScorer struct {
	name   string
	result core.MetricResult
	err    error
	panics bool
}

func (s stubScorer) Name() string { return s.name }

func (s stubScorer) Score(_ context.Context, _ core.EvaluationInputs) (core.MetricResult, error) {
	if s.panics {
		panic("index out of range")
	}
	return s.result, s.err
}

func newDispatcher(locals map[string]core.LocalScorer, client core.CompletionClient) *Dispatcher {
	return New(Config{
		Registry: registry.Default(),
		Locals:   locals,
		Judge: &judge.Engine{
			Client: client,
			Policy: judge.Policy{Timeout: time.Second, MaxRetries: 1, Backoff: time.Millisecond},
		},
	})
}

func TestRunUnknownMetric(t *testing.T) {
	d := newDispatcher(nil, nil)
	_, err := d.Run(context.Background(), "no_such_metric", core.EvaluationInputs{Summary: "x"})
	require.ErrorIs(t, err, ErrUnknownMetric)
}

func TestRunEmptySummary(t *testing.T) {
	d := newDispatcher(nil, nil)
	_, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "   "})
	require.ErrorIs(t, err, core.ErrEmptySummary)
}

func TestRunSkipsOnMissingRequiredInput(t *testing.T) {
	d := newDispatcher(map[string]core.LocalScorer{
		registry.ROUGE: stubScorer{name: registry.ROUGE, result: core.MetricResult{Score: 1}},
	}, nil)

	// rouge needs a reference; none given.
	result, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "x"})
	require.NoError(t, err)
	require.Equal(t, core.StatusSkipped, result.Status)
	require.Contains(t, result.Explanation, "reference")
}

func TestRunExecutesWhenInputsSatisfied(t *testing.T) {
	d := newDispatcher(map[string]core.LocalScorer{
		registry.ROUGE: stubScorer{name: registry.ROUGE, result: core.MetricResult{Score: 0.5}},
	}, nil)

	result, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "x", Reference: "y"})
	require.NoError(t, err)
	require.Equal(t, core.StatusOK, result.Status)
	require.Equal(t, registry.ROUGE, result.Metric)
	require.Equal(t, 0.5, result.Score)
}

func TestRunLocalErrorBecomesFailedResult(t *testing.T) {
	d := newDispatcher(map[string]core.LocalScorer{
		registry.ROUGE: stubScorer{name: registry.ROUGE, err: errors.New("bad tokenization")},
	}, nil)

	result, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "x", Reference: "y"})
	require.NoError(t, err)
	require.Equal(t, core.StatusFailed, result.Status)
	require.Contains(t, result.Err, "bad tokenization")
}

func TestRunLocalPanicIsContained(t *testing.T) {
	d := newDispatcher(map[string]core.LocalScorer{
		registry.ROUGE: stubScorer{name: registry.ROUGE, panics: true},
	}, nil)

	result, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "x", Reference: "y"})
	require.NoError(t, err)
	require.Equal(t, core.StatusFailed, result.Status)
	require.Contains(t, result.Err, "panic")
}

func TestRunLocalWithoutCollaboratorFails(t *testing.T) {
	d := newDispatcher(nil, nil)
	result, err := d.Run(context.Background(), registry.ROUGE, core.EvaluationInputs{Summary: "x", Reference: "y"})
	require.NoError(t, err)
	require.Equal(t, core.StatusFailed, result.Status)
}

func TestRunRemoteWithoutClientSkips(t *testing.T) {
	d := newDispatcher(nil, nil)
	result, err := d.Run(context.Background(), registry.LLMFluency, core.EvaluationInputs{Summary: "x"})
	require.NoError(t, err)
	require.Equal(t, core.StatusSkipped, result.Status)
	require.Contains(t, result.Explanation, "SUMEVAL_API_KEY")
}

func TestRunRemoteSuccess(t *testing.T) {
	d := newDispatcher(nil, model.MockCompletion{Response: "Score: 8\nExplanation: good"})
	result, err := d.Run(context.Background(), registry.LLMFluency, core.EvaluationInputs{Summary: "x"})
	require.NoError(t, err)
	require.Equal(t, core.StatusOK, result.Status)
	require.InDelta(t, 0.8, result.Score, 1e-9)
}

func TestRunRemoteAuthFailureEscalates(t *testing.T) {
	d := newDispatcher(nil, model.MockCompletion{
		Err: &core.CompletionError{Provider: "test", StatusCode: 401, Err: errors.New("bad key")},
	})
	result, err := d.Run(context.Background(), registry.LLMFluency, core.EvaluationInputs{Summary: "x"})
	require.Error(t, err)
	require.Equal(t, core.StatusFailed, result.Status)
}

func TestRunRemoteTransientExhaustionIsFailedResult(t *testing.T) {
	d := newDispatcher(nil, model.MockCompletion{
		Err: &core.CompletionError{Provider: "test", StatusCode: 503, Err: errors.New("down")},
	})
	result, err := d.Run(context.Background(), registry.LLMFluency, core.EvaluationInputs{Summary: "x"})
	require.NoError(t, err)
	require.Equal(t, core.StatusFailed, result.Status)
	require.NotEmpty(t, result.Err)
}

func TestRunRemoteCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newDispatcher(nil, model.MockCompletion{Delay: time.Second, Response: "Score: 8"})
	_, err := d.Run(ctx, registry.LLMFluency, core.EvaluationInputs{Summary: "x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRemoteMissingSourceSkipsBeforeCalling(t *testing.T) {
	d := newDispatcher(nil, model.MockCompletion{
		Err: &core.CompletionError{Provider: "test", StatusCode: 401, Err: errors.New("bad key")},
	})

	// llm_faithfulness needs a source; the skip decision must come before
	// any remote call, so no auth error surfaces.
	result, err := d.Run(context.Background(), registry.LLMFaithfulness, core.EvaluationInputs{Summary: "x"})
	require.NoError(t, err)
	require.Equal(t, core.StatusSkipped, result.Status)
}
