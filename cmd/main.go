package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
	"github.com/povarna/generative-ai-agents/support-agent/internal/setup"
	setuplogger "github.com/povarna/generative-ai-agents/support-agent/internal/setup/logger"
)

type cliOutput struct {
	Question string                    `json:"question"`
	Response models.StructuredResponse `json:"response"`
	Metrics  models.QueryMetrics       `json:"metrics"`
}

func main() {
	interactive := flag.Bool("interactive", false, "Start interactive mode")
	output := flag.String("output", "", "Output file for JSON response")
	flag.Parse()

	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := setuplogger.New(os.Getenv("LOG_LEVEL"))
	log.Logger = logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load dependencies")
	}
	defer deps.AuditLog.Close()

	switch {
	case *interactive:
		runInteractive(ctx, deps)
	case flag.NArg() > 0:
		question := strings.Join(flag.Args(), " ")
		if err := runSingle(ctx, deps, question, *output); err != nil {
			log.Fatal().Err(err).Msg("Query failed")
		}
	default:
		fmt.Println(`Usage: support-agent "Your customer question here"`)
		fmt.Println("Or use: support-agent -interactive")
	}
}

func runSingle(ctx context.Context, deps *setup.Dependencies, question string, outputPath string) error {
	result := deps.Assistant.ProcessQuery(ctx, question)

	out := cliOutput{
		Question: question,
		Response: result.Response,
		Metrics:  result.Metrics,
	}
	jsonOutput, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonOutput, 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Response saved to %s\n", outputPath)
		return nil
	}

	fmt.Println(string(jsonOutput))
	return nil
}

func runInteractive(ctx context.Context, deps *setup.Dependencies) {
	fmt.Println("Customer Support Assistant (Interactive Mode)")
	fmt.Println("Type 'quit' or 'exit' to stop")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Customer Question: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		lowered := strings.ToLower(question)
		if lowered == "quit" || lowered == "exit" {
			return
		}

		fmt.Println("\nProcessing...")
		result := deps.Assistant.ProcessQuery(ctx, question)

		responseJSON, err := json.MarshalIndent(result.Response, "", "  ")
		if err != nil {
			fmt.Printf("Failed to encode response: %v\n", err)
			continue
		}

		fmt.Println("\n" + strings.Repeat("=", 60))
		fmt.Println("RESPONSE:")
		fmt.Println(string(responseJSON))
		fmt.Println("\nMETRICS:")
		fmt.Printf("  timestamp: %s\n", result.Metrics.Timestamp.Format(time.RFC3339))
		fmt.Printf("  tokens_prompt: %d\n", result.Metrics.TokensPrompt)
		fmt.Printf("  tokens_completion: %d\n", result.Metrics.TokensCompletion)
		fmt.Printf("  total_tokens: %d\n", result.Metrics.TotalTokens)
		fmt.Printf("  latency_ms: %.2f\n", result.Metrics.LatencyMs)
		fmt.Printf("  estimated_cost_usd: %.6f\n", result.Metrics.EstimatedCostUSD)
		fmt.Printf("  model: %s\n", result.Metrics.Model)
		fmt.Println(strings.Repeat("=", 60) + "\n")
	}
}
