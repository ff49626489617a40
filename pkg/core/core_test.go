package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, EvaluationInputs{Summary: "text"}.Validate())
	require.ErrorIs(t, EvaluationInputs{}.Validate(), ErrEmptySummary)
	require.ErrorIs(t, EvaluationInputs{Summary: " \n\t"}.Validate(), ErrEmptySummary)
}

func TestHasSourceHasReference(t *testing.T) {
	in := EvaluationInputs{Summary: "s", Source: "  ", Reference: "ref"}
	require.False(t, in.HasSource())
	require.True(t, in.HasReference())
}

func TestCompletionErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		auth      bool
		transient bool
	}{
		{400, false, false},
		{401, true, false},
		{403, true, false},
		{404, false, false},
		{429, false, true},
		{500, false, true},
		{503, false, true},
	}
	for _, tt := range tests {
		e := &CompletionError{Provider: "p", StatusCode: tt.status, Err: errors.New("x")}
		require.Equal(t, tt.auth, e.AuthFailure(), "status %d", tt.status)
		require.Equal(t, tt.transient, e.Transient(), "status %d", tt.status)
	}
}

func TestCompletionErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	e := &CompletionError{Provider: "p", Err: inner}
	wrapped := fmt.Errorf("judge: %w", e)

	var ce *CompletionError
	require.True(t, errors.As(wrapped, &ce))
	require.ErrorIs(t, wrapped, inner)
}

func TestRateLimiterBurstThenRefill(t *testing.T) {
	limiter, stop, err := NewRateLimiter(1000, 2)
	require.NoError(t, err)
	defer stop()

	ctx := context.Background()
	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))

	// The bucket refills at 1000 rps, so the third token arrives quickly.
	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, limiter.Wait(waitCtx))
}

func TestRateLimiterHonorsCancellation(t *testing.T) {
	limiter, stop, err := NewRateLimiter(0.001, 1)
	require.NoError(t, err)
	defer stop()

	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
}

func TestRateLimiterRejectsZeroRate(t *testing.T) {
	_, _, err := NewRateLimiter(0, 1)
	require.Error(t, err)
}
