// Package dashboard implements the wire protocol that lets a chat message
// body carry a structured analytics payload next to its prose.
//
// Grammar: <narrative>\n\n[DASHBOARD_DATA]<json>[/DASHBOARD_DATA]
// The JSON between the delimiters is a serialized analytics.MetricsResult.
// Decoding tolerates incidental markdown code fences around the JSON, since
// a generative model occasionally wraps output it is asked to echo.
package dashboard

import (
	"encoding/json"
	"strings"

	"budget-backend/internal/analytics"
)

const (
	startMarker = "[DASHBOARD_DATA]"
	endMarker   = "[/DASHBOARD_DATA]"
)

// Embed appends the serialized metrics block after the narrative text.
func Embed(narrative string, metrics analytics.MetricsResult) string {
	payload, err := json.Marshal(metrics)
	if err != nil {
		// Only an empty union can fail to marshal; keep the prose.
		return narrative
	}
	return strings.TrimSpace(narrative) + "\n\n" + startMarker + string(payload) + endMarker
}

// Extract splits a message body into narrative text and, when present and
// parseable, its analytics payload. A malformed block never fails: the
// block is stripped from the narrative and the payload is simply nil.
func Extract(content string) (string, *analytics.MetricsResult) {
	start := strings.Index(content, startMarker)
	if start < 0 {
		return strings.TrimSpace(content), nil
	}
	rest := content[start+len(startMarker):]
	end := strings.Index(rest, endMarker)
	if end < 0 {
		return strings.TrimSpace(content[:start]), nil
	}

	narrative := content[:start] + rest[end+len(endMarker):]
	raw := stripCodeFences(rest[:end])

	var metrics analytics.MetricsResult
	if err := json.Unmarshal([]byte(raw), &metrics); err != nil {
		return strings.TrimSpace(narrative), nil
	}
	return strings.TrimSpace(narrative), &metrics
}

// Latest returns the payload of the most recent message carrying one,
// scanning backward and stopping at the first successful parse.
func Latest(contents []string) *analytics.MetricsResult {
	for i := len(contents) - 1; i >= 0; i-- {
		if _, metrics := Extract(contents[i]); metrics != nil {
			return metrics
		}
	}
	return nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	// A fence may carry a language tag on the opening line.
	if idx := strings.Index(raw, "\n"); idx >= 0 && !strings.ContainsAny(raw[:idx], "{}") {
		raw = raw[idx+1:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
