// Package judge runs metrics whose score comes from a remote LLM completion
// capability: the built-in judge metrics and user-supplied judge templates.
package judge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"sumeval/pkg/core"
	"sumeval/pkg/registry"
)

// Policy bounds a remote judge call. Retries apply to transient failures
// only; authorization failures are reported immediately.
type Policy struct {
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// DefaultPolicy matches the original judge defaults: 60s per attempt,
// 2 retries, 500ms initial backoff doubled per attempt.
func DefaultPolicy() Policy {
	return Policy{Timeout: 60 * time.Second, MaxRetries: 2, Backoff: 500 * time.Millisecond}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Timeout <= 0 {
		p.Timeout = d.Timeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.Backoff <= 0 {
		p.Backoff = d.Backoff
	}
	return p
}

// Engine invokes the remote completion capability and turns free-text
// verdicts into MetricResults. A nil Client means no credentials were
// configured; every evaluation then reports skipped.
type Engine struct {
	Client core.CompletionClient
	Policy Policy
	Logger *zap.Logger
}

// SkippedNoCredentials is the result recorded for remote metrics when no
// completion client is configured.
func SkippedNoCredentials(metric string) core.MetricResult {
	return core.MetricResult{
		Metric:      metric,
		Status:      core.StatusSkipped,
		Explanation: "remote capability not configured: set SUMEVAL_API_KEY and SUMEVAL_API_ADDRESS",
	}
}

// Complete sends a prompt under the engine's timeout/retry policy.
func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	if e.Client == nil {
		return "", errors.New("judge: no completion client configured")
	}

	policy := e.Policy.withDefaults()
	attempts := policy.MaxRetries + 1
	backoff := policy.Backoff

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		response, err := e.Client.Complete(attemptCtx, prompt)
		cancel()
		if err == nil {
			return response, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var ce *core.CompletionError
		switch {
		case errors.As(err, &ce) && ce.AuthFailure():
			return "", err
		case errors.Is(err, context.DeadlineExceeded):
			// Attempt timeout; the parent context is still live.
		case errors.As(err, &ce) && ce.Transient():
		default:
			return "", err
		}

		lastErr = err
		if e.Logger != nil {
			e.Logger.Warn("judge call failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		}
		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return "", fmt.Errorf("judge: request failed after %d attempts: %w", attempts, lastErr)
}

// Evaluate runs a user-supplied judge template. The score is an integer in
// [1,10]; out-of-range scores are clamped and the clamping is noted in the
// explanation. An unparsable score is a failed result, never a default.
// The returned error is non-nil only for conditions the caller must see:
// authorization failures and cancellation.
func (e *Engine) Evaluate(ctx context.Context, template string, in core.EvaluationInputs) (core.MetricResult, error) {
	const metric = registry.CustomJudge

	if e.Client == nil {
		return SkippedNoCredentials(metric), nil
	}

	prompt := Fill(template, in)
	response, err := e.Complete(ctx, prompt)
	if err != nil {
		return e.failedResult(metric, err), e.escalate(ctx, err)
	}

	raw, explanation, err := parseVerdict(response)
	if err != nil {
		return core.MetricResult{
			Metric:      metric,
			Status:      core.StatusFailed,
			Explanation: "could not parse a numeric score from the judge response",
			Err:         err.Error(),
		}, nil
	}

	score := math.Round(raw)
	if score < 1 || score > 10 {
		clamped := math.Min(10, math.Max(1, score))
		note := fmt.Sprintf("score %g clamped to %g", score, clamped)
		if explanation != "" {
			explanation = explanation + " (" + note + ")"
		} else {
			explanation = note
		}
		score = clamped
	}

	return core.MetricResult{
		Metric:      metric,
		Status:      core.StatusOK,
		Score:       score,
		Scores:      map[string]float64{"raw_score": raw},
		Explanation: explanation,
	}, nil
}

// RunBuiltin runs one of the built-in judge metrics. Raw 1-10 verdicts are
// normalized to 0-1 with the raw value preserved in the score map.
func (e *Engine) RunBuiltin(ctx context.Context, metric string, in core.EvaluationInputs) (core.MetricResult, error) {
	template, ok := BuiltinPrompt(metric)
	if !ok {
		return core.MetricResult{
			Metric: metric,
			Status: core.StatusFailed,
			Err:    fmt.Sprintf("no judge prompt registered for metric %q", metric),
		}, nil
	}

	if e.Client == nil {
		return SkippedNoCredentials(metric), nil
	}

	response, err := e.Complete(ctx, Fill(template, in))
	if err != nil {
		return e.failedResult(metric, err), e.escalate(ctx, err)
	}

	raw, explanation, err := parseVerdict(response)
	if err != nil {
		return core.MetricResult{
			Metric:      metric,
			Status:      core.StatusFailed,
			Explanation: "could not parse a numeric score from the judge response",
			Err:         err.Error(),
		}, nil
	}

	clamped := math.Min(10, math.Max(1, raw))
	if explanation == "" {
		explanation = "no explanation provided"
	}
	if clamped != raw {
		explanation = fmt.Sprintf("%s (score %g clamped to %g)", explanation, raw, clamped)
	}

	return core.MetricResult{
		Metric:      metric,
		Status:      core.StatusOK,
		Score:       clamped / 10,
		Scores:      map[string]float64{"raw_score": clamped},
		Explanation: explanation,
	}, nil
}

func (e *Engine) failedResult(metric string, err error) core.MetricResult {
	reason := "remote call failed"
	var ce *core.CompletionError
	if errors.As(err, &ce) && ce.AuthFailure() {
		reason = "remote authorization failed; check SUMEVAL_API_KEY"
	}
	return core.MetricResult{
		Metric:      metric,
		Status:      core.StatusFailed,
		Explanation: reason,
		Err:         err.Error(),
	}
}

// escalate surfaces auth failures and cancellation to the caller; transient
// exhaustion stays contained in the result.
func (e *Engine) escalate(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var ce *core.CompletionError
	if errors.As(err, &ce) && ce.AuthFailure() {
		return fmt.Errorf("remote authorization failed: %w", err)
	}
	return nil
}
