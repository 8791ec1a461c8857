package assistant

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/support-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
	"github.com/povarna/generative-ai-agents/support-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/support-agent/internal/safety"
)

// SafetyChecker gates every query before it reaches the model.
type SafetyChecker interface {
	Assess(input string) models.SafetyResult
}

// MetricsRecorder persists one usage row per processed query.
type MetricsRecorder interface {
	Log(m models.QueryMetrics) error
}

// Assistant runs a single support query end to end: safety gate, prompt
// rendering, model invocation, response validation, usage accounting.
type Assistant struct {
	checker     SafetyChecker
	llmClient   llm.LLMClient
	template    *prompt.Template
	metrics     MetricsRecorder
	model       string
	maxTokens   int
	temperature float64
	logger      *zerolog.Logger
}

func New(checker SafetyChecker, client llm.LLMClient, tmpl *prompt.Template, metrics MetricsRecorder, model string, maxTokens int, temperature float64, logger *zerolog.Logger) *Assistant {
	return &Assistant{
		checker:     checker,
		llmClient:   client,
		template:    tmpl,
		metrics:     metrics,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
}

// ProcessQuery always returns a well formed QueryResult. Failures surface
// as structured error responses, never as a Go error to the caller.
func (a *Assistant) ProcessQuery(ctx context.Context, question string) models.QueryResult {
	start := time.Now()

	safetyResult := a.checker.Assess(question)
	if safetyResult.ShouldBlock {
		a.logger.Warn().
			Str("level", string(safetyResult.Level)).
			Strs("reasons", safetyResult.Reasons).
			Msg("Query blocked by safety gate")

		m := models.QueryMetrics{
			Timestamp:       start,
			LatencyMs:       latencyMs(start),
			Model:           "safety_filter",
			QuestionPreview: "BLOCKED: " + head(question, 40) + "...",
		}
		a.record(m)

		return models.QueryResult{
			Response: safety.Fallback(safetyResult),
			Metrics:  m,
			Safety: &models.SafetySummary{
				Level:      safetyResult.Level,
				Reasons:    safetyResult.Reasons,
				Confidence: safetyResult.Confidence,
			},
		}
	}

	query := question
	if safetyResult.ModifiedInput != nil {
		query = *safetyResult.ModifiedInput
		a.logger.Info().Msg("Using sanitized input for model call")
	}

	promptText, err := a.template.Render(query)
	if err != nil {
		return a.errorResult(start, question, err)
	}

	resp, err := a.llmClient.InvokeModelWithRetry(ctx, llm.LLMRequest{
		Prompt:      promptText,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("Model invocation failed")
		return a.errorResult(start, question, err)
	}

	usage := resp.Usage
	m := models.QueryMetrics{
		Timestamp:        start,
		TokensPrompt:     usage.PromptTokens,
		TokensCompletion: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
		LatencyMs:        latencyMs(start),
		EstimatedCostUSD: estimateCost(usage.PromptTokens, usage.CompletionTokens, a.model),
		Model:            a.model,
		QuestionPreview:  questionPreview(question),
	}
	a.record(m)

	parsed, ok := parseStructuredResponse(resp.Content)
	if !ok {
		a.logger.Warn().Msg("Model response failed schema validation")
		parsed = parseErrorResponse()
	}

	return models.QueryResult{
		Response:    parsed,
		Metrics:     m,
		RawResponse: resp.Content,
	}
}

func (a *Assistant) errorResult(start time.Time, question string, err error) models.QueryResult {
	m := models.QueryMetrics{
		Timestamp:       start,
		LatencyMs:       latencyMs(start),
		Model:           a.model,
		QuestionPreview: "ERROR: " + head(question, 40) + "...",
	}
	a.record(m)

	return models.QueryResult{
		Response: models.StructuredResponse{
			Answer:     "I encountered a technical error: " + err.Error() + ". Please try again or contact support.",
			Confidence: 0.0,
			Actions: []string{
				"Check API connection and retry",
				"Escalate to technical support if error persists",
			},
			Category: "technical_error",
			Urgency:  models.UrgencyHigh,
		},
		Metrics: m,
		Error:   err.Error(),
	}
}

func parseErrorResponse() models.StructuredResponse {
	return models.StructuredResponse{
		Answer: "I apologize, but I encountered an error processing your request. " +
			"Please contact our support team directly for assistance.",
		Confidence: 0.1,
		Actions: []string{
			"Escalate to human support agent",
			"Log the parsing error for technical review",
		},
		Category: "system_error",
		Urgency:  models.UrgencyMedium,
	}
}

func (a *Assistant) record(m models.QueryMetrics) {
	if err := a.metrics.Log(m); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to record query metrics")
	}
}

func latencyMs(start time.Time) float64 {
	return math.Round(float64(time.Since(start).Microseconds())/1000*100) / 100
}

func questionPreview(question string) string {
	runes := []rune(question)
	if len(runes) > 50 {
		return string(runes[:50]) + "..."
	}
	return question
}

func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
