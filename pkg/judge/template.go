package judge

import (
	"strings"

	"sumeval/pkg/core"
)

// Recognized template placeholders. Substitution is literal: no nesting, no
// escaping. A placeholder whose input is absent fills as the empty string.
const (
	PlaceholderSource    = "{PROMPT}"
	PlaceholderSummary   = "{PREDICTED_TEXT}"
	PlaceholderReference = "{REFERENCE_TEXT}"
)

// Fill substitutes the recognized placeholders into template. Placeholders
// absent from the template are simply not substituted.
func Fill(template string, in core.EvaluationInputs) string {
	replacer := strings.NewReplacer(
		PlaceholderSource, in.Source,
		PlaceholderSummary, in.Summary,
		PlaceholderReference, in.Reference,
	)
	return replacer.Replace(template)
}
