package conciergenode

import (
	"encoding/json"
	"strings"
)

const directiveLabel = "TOOL_CALL:"

type directive struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
}

// extractDirective scans model output for a TOOL_CALL line holding a
// single-line JSON payload. Anything malformed means no directive; a
// parse failure is never surfaced.
func extractDirective(text string) (directive, bool) {
	_, rest, found := strings.Cut(text, directiveLabel)
	if !found {
		return directive{}, false
	}
	payload, _, _ := strings.Cut(rest, "\n")

	var d directive
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &d); err != nil {
		return directive{}, false
	}
	if d.Tool == "" {
		return directive{}, false
	}
	return d, true
}
