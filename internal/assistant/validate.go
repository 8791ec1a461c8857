package assistant

import (
	"encoding/json"
	"strings"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

var requiredResponseFields = []string{"answer", "confidence", "actions", "category", "urgency"}

// parseStructuredResponse extracts the outermost JSON object from raw model
// output and validates it against the response schema. Models sometimes wrap
// the object in prose or code fences; text outside the braces is ignored.
func parseStructuredResponse(raw string) (models.StructuredResponse, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return models.StructuredResponse{}, false
	}
	jsonStr := raw[start : end+1]

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return models.StructuredResponse{}, false
	}
	for _, field := range requiredResponseFields {
		if _, ok := fields[field]; !ok {
			return models.StructuredResponse{}, false
		}
	}

	var resp models.StructuredResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return models.StructuredResponse{}, false
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		return models.StructuredResponse{}, false
	}
	switch resp.Urgency {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
	default:
		return models.StructuredResponse{}, false
	}
	return resp, true
}
