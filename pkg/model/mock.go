package model

import (
	"context"
	"time"
)

// MockCompletion returns a fixed response. Useful for tests and dry runs.
type MockCompletion struct {
	NameValue string
	Response  string
	Err       error
	Delay     time.Duration
}

func (m MockCompletion) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

func (m MockCompletion) Complete(ctx context.Context, _ string) (string, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
