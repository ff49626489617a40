package core

import "context"

// LocalScorer is a local scoring collaborator: a synchronous, already
// implemented procedure that computes one metric's raw score.
type LocalScorer interface {
	Name() string
	Score(ctx context.Context, in EvaluationInputs) (MetricResult, error)
}

// SerialScorer marks a local collaborator whose underlying implementation is
// not safe for concurrent use. The dispatcher serializes access to it.
type SerialScorer interface {
	LocalScorer
	SerialOnly() bool
}
