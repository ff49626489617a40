package model

import (
	"context"

	"sumeval/pkg/cache"
	"sumeval/pkg/core"
)

// CachedCompletion wraps a completion client with the on-disk cache.
type CachedCompletion struct {
	Client core.CompletionClient
	Cache  *cache.Cache
}

func (c CachedCompletion) Name() string {
	if c.Client == nil {
		return ""
	}
	return c.Client.Name()
}

func (c CachedCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	if c.Cache != nil {
		if response, ok := c.Cache.Get(c.Name(), prompt); ok {
			return response, nil
		}
	}
	response, err := c.Client.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if c.Cache != nil {
		_ = c.Cache.Set(c.Name(), prompt, response)
	}
	return response, nil
}
