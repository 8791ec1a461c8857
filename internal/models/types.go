package models

import (
	"time"
)

type SafetyLevel string

const (
	LevelSafe    SafetyLevel = "safe"
	LevelCaution SafetyLevel = "caution"
	LevelBlocked SafetyLevel = "blocked"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// SafetyResult is produced once per assessment and never mutated.
// ModifiedInput is nil when sanitization was a no-op.
type SafetyResult struct {
	Level         SafetyLevel `json:"level"`
	Confidence    float64     `json:"confidence"`
	Reasons       []string    `json:"reasons"`
	ModifiedInput *string     `json:"modified_input,omitempty"`
	ShouldBlock   bool        `json:"should_block"`
}

// StructuredResponse is the response schema the downstream assistant must
// produce. Blocked turns return the same shape, so callers never
// special-case a refused request.
type StructuredResponse struct {
	Answer     string   `json:"answer"`
	Confidence float64  `json:"confidence"`
	Actions    []string `json:"actions"`
	Category   string   `json:"category"`
	Urgency    Urgency  `json:"urgency"`
}

// Input message

type QueryRequest struct {
	RequestID string `json:"request_id"`
	Question  string `json:"question"`
}

// Per-query usage accounting, persisted as one CSV row.
type QueryMetrics struct {
	Timestamp        time.Time `json:"timestamp"`
	TokensPrompt     int       `json:"tokens_prompt"`
	TokensCompletion int       `json:"tokens_completion"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMs        float64   `json:"latency_ms"`
	EstimatedCostUSD float64   `json:"estimated_cost_usd"`
	Model            string    `json:"model"`
	QuestionPreview  string    `json:"question_preview"`
}

// SafetySummary is attached to a QueryResult when the gate intervened.
type SafetySummary struct {
	Level      SafetyLevel `json:"level"`
	Reasons    []string    `json:"reasons"`
	Confidence float64     `json:"confidence"`
}

// Final output of one assistant turn.
type QueryResult struct {
	Response    StructuredResponse `json:"response"`
	Metrics     QueryMetrics       `json:"metrics"`
	Safety      *SafetySummary     `json:"safety_result,omitempty"`
	RawResponse string             `json:"raw_response,omitempty"`
	Error       string             `json:"error,omitempty"`
}
