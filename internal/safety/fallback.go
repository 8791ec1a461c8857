package safety

import (
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

// Fallback maps an assessment to the structured response returned instead
// of calling the model. Total over all three levels; the Safe branch exists
// only as a defensive default, since callers don't take this path when
// ShouldBlock is false.
func Fallback(result models.SafetyResult) models.StructuredResponse {
	switch result.Level {
	case models.LevelBlocked:
		return models.StructuredResponse{
			Answer: "I'm unable to process this request as it appears to contain inappropriate content or attempts to modify my instructions. " +
				"Please rephrase your question focusing on your customer support needs.",
			Confidence: 1.0,
			Actions: []string{
				"Escalate to human moderator for review",
				"Log incident for security analysis",
				"Provide customer with appropriate use guidelines",
			},
			Category: "safety_violation",
			Urgency:  models.UrgencyHigh,
		}
	case models.LevelCaution:
		return models.StructuredResponse{
			Answer: "I want to make sure I understand your question correctly. Could you please rephrase your request more clearly? " +
				"I'm here to help with customer support issues.",
			Confidence: 0.7,
			Actions: []string{
				"Request clarification from customer",
				"Monitor for follow-up attempts",
				"Document interaction for review",
			},
			Category: "clarification_needed",
			Urgency:  models.UrgencyMedium,
		}
	default:
		return models.StructuredResponse{
			Answer:     "I'm here to help with your customer support needs. How can I assist you today?",
			Confidence: 0.5,
			Actions: []string{
				"Engage with customer normally",
				"Provide general assistance",
			},
			Category: "general",
			Urgency:  models.UrgencyLow,
		}
	}
}
