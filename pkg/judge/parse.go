package judge

import (
	"fmt"
	"strconv"
	"strings"
)

// parseVerdict extracts the numeric score and trailing explanation from a
// judge response. The judge prompts ask for "Score:" and "Explanation:"
// lines; "[RESULT]" and "Feedback:" variants are accepted because some
// models answer in Prometheus style.
func parseVerdict(response string) (float64, string, error) {
	var (
		score       float64
		scoreFound  bool
		explanation string
	)

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Score:") || strings.HasPrefix(line, "[RESULT]"):
			text := strings.TrimPrefix(line, "Score:")
			text = strings.TrimPrefix(text, "[RESULT]")
			text = strings.NewReplacer("[", "", "]", "").Replace(text)
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			// Keep only the leading number; models sometimes append "/10".
			if idx := strings.IndexAny(text, "/ "); idx > 0 {
				text = text[:idx]
			}
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				continue
			}
			score = value
			scoreFound = true
		case strings.HasPrefix(line, "Explanation:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "Explanation:"))
		case strings.HasPrefix(line, "Feedback:"):
			explanation = strings.TrimSpace(strings.TrimPrefix(line, "Feedback:"))
		}
	}

	if !scoreFound {
		return 0, "", fmt.Errorf("judge: no score found in response %q", truncate(response, 120))
	}
	return score, explanation, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
