package core

import (
	"context"
	"fmt"
)

// CompletionClient is the remote LLM completion capability used by judge
// metrics. Implementations own their transport; callers bound each call with
// the supplied context.
type CompletionClient interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Embedder produces one vector per input text. Used by embedding-backed
// scoring collaborators.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// CompletionError carries the HTTP status of a failed remote call so the
// dispatcher can distinguish auth problems from transient ones.
type CompletionError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// AuthFailure reports whether the remote service rejected our credentials.
// Auth failures are never retried.
func (e *CompletionError) AuthFailure() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// Transient reports whether the failure is worth retrying: rate limits and
// server-side errors.
func (e *CompletionError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
