package core

import (
	"errors"
	"strings"
)

// EvaluationInputs is the input triple a metric scores against. Summary is
// required; source and reference are optional and drive metric selection.
type EvaluationInputs struct {
	ID        string `json:"id,omitempty"`
	Summary   string `json:"summary"`
	Source    string `json:"source,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// ErrEmptySummary signals a request with nothing to evaluate.
var ErrEmptySummary = errors.New("evaluation inputs: summary must not be empty")

// Validate fails fast on inputs that cannot produce a meaningful evaluation.
func (in EvaluationInputs) Validate() error {
	if strings.TrimSpace(in.Summary) == "" {
		return ErrEmptySummary
	}
	return nil
}

func (in EvaluationInputs) HasSource() bool {
	return strings.TrimSpace(in.Source) != ""
}

func (in EvaluationInputs) HasReference() bool {
	return strings.TrimSpace(in.Reference) != ""
}
