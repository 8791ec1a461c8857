package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/support-agent/internal/assistant"
	"github.com/povarna/generative-ai-agents/support-agent/internal/config"
	"github.com/povarna/generative-ai-agents/support-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/support-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/support-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/support-agent/internal/metrics"
	"github.com/povarna/generative-ai-agents/support-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/support-agent/internal/safety"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	MaxTokens       int
	Temperature     float64
	PromptPath      string
	MetricsPath     string
	AuditLogPath    string
}

type Dependencies struct {
	Assistant *assistant.Assistant
	Checker   *safety.Checker
	AuditLog  *safety.AuditLog
	Logger    *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", "gpt-5 nano"),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "openai"),
		MaxTokens:       getEnvInt("MAX_TOKENS", 1000),
		Temperature:     getEnvFloat("TEMPERATURE", 0.3),
		PromptPath:      getEnv("PROMPT_TEMPLATE_PATH", "prompts/main_prompt.txt"),
		MetricsPath:     getEnv("METRICS_PATH", "metrics/metrics.csv"),
		AuditLogPath:    getEnv("AUDIT_LOG_PATH", "metrics/safety_log.txt"),
	}
}

// Wire builds the full query pipeline: safety ruleset, audit trail,
// prompt template, metrics sink, model client, assistant. The returned
// AuditLog must be closed on shutdown.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	safetyConfig, err := config.LoadSafetyConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load safety config: %w", err)
	}
	ruleset, err := config.BuildRuleset(safetyConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build safety ruleset: %w", err)
	}

	audit, err := safety.NewAuditLog(cfg.AuditLogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	checker := safety.NewChecker(ruleset, audit, logger)

	tmpl, err := prompt.Load(cfg.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	metricsLogger, err := metrics.NewLogger(cfg.MetricsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics logger: %w", err)
	}

	llmClient, model, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	a := assistant.New(checker, llmClient, tmpl, metricsLogger, model, cfg.MaxTokens, cfg.Temperature, logger)

	return &Dependencies{
		Assistant: a,
		Checker:   checker,
		AuditLog:  audit,
		Logger:    logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, string, error) {
	switch provider {
	case "bedrock":
		client, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
		return client, cfg.ClaudeModelID, err
	case "openai":
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		return client, cfg.OpenAIModelID, err
	default:
		client, err := gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
		return client, cfg.OpenAIModelID, err
	}
}
