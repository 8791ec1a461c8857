package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
	setuplogger "github.com/povarna/generative-ai-agents/support-agent/internal/setup/logger"
	red "github.com/povarna/generative-ai-agents/support-agent/internal/stream/redis"
)

func main() {
	data := flag.String("d", "", "Inline JSON QueryRequest")
	stream := flag.String("stream", "support-queries", "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = setuplogger.New(os.Getenv("LOG_LEVEL"))

	if err := run(*data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3)
	if err != nil {
		return err
	}
	defer client.Close()

	var req models.QueryRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return err
	}
	if req.Question == "" {
		return fmt.Errorf("question field is required")
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": data},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("request_id", req.RequestID).Msg("Published successfully!")
	return nil
}
