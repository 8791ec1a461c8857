package assistant

import (
	"testing"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

func TestParseStructuredResponse(t *testing.T) {
	valid := `{"answer":"Your refund is on its way.","confidence":0.9,"actions":["Track refund status"],"category":"billing","urgency":"low"}`

	tests := []struct {
		name   string
		raw    string
		wantOK bool
	}{
		{"plain object", valid, true},
		{"wrapped in prose", "Here is the answer:\n" + valid + "\nLet me know!", true},
		{"wrapped in code fence", "```json\n" + valid + "\n```", true},
		{"no json at all", "Sorry, I cannot help with that.", false},
		{"malformed json", `{"answer": "oops"`, false},
		{"missing field", `{"answer":"a","confidence":0.5,"actions":[],"urgency":"low"}`, false},
		{"confidence out of range", `{"answer":"a","confidence":1.5,"actions":[],"category":"c","urgency":"low"}`, false},
		{"confidence wrong type", `{"answer":"a","confidence":"high","actions":[],"category":"c","urgency":"low"}`, false},
		{"unknown urgency", `{"answer":"a","confidence":0.5,"actions":[],"category":"c","urgency":"asap"}`, false},
		{"answer wrong type", `{"answer":42,"confidence":0.5,"actions":[],"category":"c","urgency":"low"}`, false},
		{"actions wrong type", `{"answer":"a","confidence":0.5,"actions":"none","category":"c","urgency":"low"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseStructuredResponse(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Answer != "Your refund is on its way." {
				t.Errorf("answer = %q", got.Answer)
			}
			if ok && got.Urgency != models.UrgencyLow {
				t.Errorf("urgency = %q", got.Urgency)
			}
		})
	}
}
