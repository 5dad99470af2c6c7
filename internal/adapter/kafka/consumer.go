package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment-webhook-relay/config"
	"payment-webhook-relay/internal/core/ports"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Handler retry pacing for transient failures (storage outages).
const (
	defaultRetryBase = time.Second
	defaultRetryCap  = 30 * time.Second
)

// Consumer reads payment events from the event log and feeds them to the
// handler. Offsets are committed only after the handler returns nil, so a
// storage failure leaves the message uncommitted for redelivery
// (at-least-once).
type Consumer struct {
	reader    *kafka.Reader
	handler   ports.EventHandler
	log       zerolog.Logger
	retryBase time.Duration
	retryCap  time.Duration
}

// NewConsumer creates a consumer-group reader over the payment topics.
func NewConsumer(cfg config.KafkaConfig, handler ports.EventHandler, log zerolog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one broker")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer requires group id")
	}
	if len(cfg.Topics) == 0 {
		return nil, fmt.Errorf("kafka consumer requires at least one topic")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		GroupTopics: cfg.Topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
	})

	return &Consumer{
		reader:    reader,
		handler:   handler,
		log:       log,
		retryBase: defaultRetryBase,
		retryCap:  defaultRetryCap,
	}, nil
}

// Run consumes until ctx is cancelled. Messages are processed one at a
// time; partition assignment keeps per-transaction order (producers key
// messages by transaction id).
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handle(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("handling message: %w", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("committing offset: %w", err)
		}
	}
}

// handle keeps processing the same message until the handler accepts it.
// Skipping ahead is not safe: the group tracks one offset per partition,
// so committing any later message would also commit this one and the
// event would never be redelivered. Returns only when the handler
// succeeds or ctx ends.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	backoff := c.retryBase
	for attempt := 1; ; attempt++ {
		err := c.handler.HandleMessage(ctx, msg.Topic, msg.Value)
		if err == nil {
			return nil
		}

		c.log.Error().Err(err).
			Str("topic", msg.Topic).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Msg("event handling failed, retrying same offset")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if backoff < c.retryCap {
			backoff *= 2
			if backoff > c.retryCap {
				backoff = c.retryCap
			}
		}
	}
}

// Close shuts the reader down and leaves the consumer group.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
