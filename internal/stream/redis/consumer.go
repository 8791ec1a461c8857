package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/support-agent/internal/assistant"
	"github.com/povarna/generative-ai-agents/support-agent/internal/models"
)

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	assistant    *assistant.Assistant
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, stream string, groupID string, consumerName string, a *assistant.Assistant, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       stream,
		groupID:      groupID,
		consumerName: consumerName,
		assistant:    a,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var queryRequest models.QueryRequest
	if err := json.Unmarshal([]byte(payload), &queryRequest); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}
	if queryRequest.Question == "" {
		c.logger.Error().Str("id", msg.ID).Msg("Empty question in payload")
		c.ack(ctx, msg.ID)
		return
	}

	result := c.assistant.ProcessQuery(ctx, queryRequest.Question)

	event := c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", queryRequest.RequestID).
		Str("category", result.Response.Category).
		Float64("confidence", result.Response.Confidence)
	if result.Safety != nil {
		event = event.Str("safety_level", string(result.Safety.Level))
	}
	event.Msg("Query complete")

	c.publishResult(ctx, queryRequest.RequestID, result)
	c.ack(ctx, msg.ID)
}

// publishResult pushes the full result onto the results stream so callers
// can pick it up by request_id. Best-effort: a failed publish is logged,
// the message is still acked.
func (c *Consumer) publishResult(ctx context.Context, requestID string, result models.QueryResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.stream + ":results",
		Values: map[string]any{
			"request_id": requestID,
			"payload":    string(payload),
		},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
