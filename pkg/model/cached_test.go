package model

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sumeval/pkg/cache"
)

type countingClient struct {
	calls atomic.Int32
}

func (c *countingClient) Name() string { return "counting" }

func (c *countingClient) Complete(_ context.Context, _ string) (string, error) {
	c.calls.Add(1)
	return "Score: 8", nil
}

func TestCachedCompletionHitsOnce(t *testing.T) {
	store, err := cache.New(t.TempDir(), time.Hour)
	require.NoError(t, err)

	client := &countingClient{}
	cached := CachedCompletion{Client: client, Cache: store}

	first, err := cached.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	second, err := cached.Complete(context.Background(), "prompt")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), client.calls.Load())
}
