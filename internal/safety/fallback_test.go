package safety

import (
	"testing"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		name           string
		level          models.SafetyLevel
		wantConfidence float64
		wantCategory   string
		wantUrgency    models.Urgency
		wantActions    int
	}{
		{
			name:           "blocked",
			level:          models.LevelBlocked,
			wantConfidence: 1.0,
			wantCategory:   "safety_violation",
			wantUrgency:    models.UrgencyHigh,
			wantActions:    3,
		},
		{
			name:           "caution",
			level:          models.LevelCaution,
			wantConfidence: 0.7,
			wantCategory:   "clarification_needed",
			wantUrgency:    models.UrgencyMedium,
			wantActions:    3,
		},
		{
			name:           "safe defensive default",
			level:          models.LevelSafe,
			wantConfidence: 0.5,
			wantCategory:   "general",
			wantUrgency:    models.UrgencyLow,
			wantActions:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Fallback(models.SafetyResult{Level: tt.level})

			if resp.Answer == "" {
				t.Error("Answer is empty")
			}
			if resp.Confidence != tt.wantConfidence {
				t.Errorf("Confidence: %v, want %v", resp.Confidence, tt.wantConfidence)
			}
			if resp.Category != tt.wantCategory {
				t.Errorf("Category: %s, want %s", resp.Category, tt.wantCategory)
			}
			if resp.Urgency != tt.wantUrgency {
				t.Errorf("Urgency: %s, want %s", resp.Urgency, tt.wantUrgency)
			}
			if len(resp.Actions) != tt.wantActions {
				t.Errorf("Actions: %v, want %d entries", resp.Actions, tt.wantActions)
			}
		})
	}
}
