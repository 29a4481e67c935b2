package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topic   string
	// AutoOffsetReset is "earliest" (default) or "latest".
	AutoOffsetReset string
	MaxWait         time.Duration
	// ErrorBackoff is the pause after a failed fetch.
	ErrorBackoff time.Duration
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventHandler processes one decoded event.  A returned error is logged and
// the message is still committed.
type EventHandler func(ctx context.Context, env *EventEnvelope, msg kafka.Message) error

// Consumer reads event envelopes from one topic.
type Consumer struct {
	reader  ReaderInterface
	config  ConsumerConfig
	logger  logging.Logger
	running atomic.Bool

	consumed  atomic.Int64
	malformed atomic.Int64
	failed    atomic.Int64
}

// NewConsumer creates a consumer-group reader.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if err := ValidateConsumerConfig(cfg); err != nil {
		return nil, err
	}

	readerCfg := kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     cfg.MaxWait,
		StartOffset: kafka.FirstOffset,
	}
	if readerCfg.MaxWait == 0 {
		readerCfg.MaxWait = time.Second
	}
	if cfg.AutoOffsetReset == "latest" {
		readerCfg.StartOffset = kafka.LastOffset
	}

	return NewConsumerWithReader(kafka.NewReader(readerCfg), cfg, logger), nil
}

// NewConsumerWithReader wires a Consumer around an existing reader.
func NewConsumerWithReader(r ReaderInterface, cfg ConsumerConfig, logger logging.Logger) *Consumer {
	if cfg.ErrorBackoff == 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Consumer{reader: r, config: cfg, logger: logger}
}

// Run consumes until ctx is cancelled.  It returns nil on cancellation.
func (c *Consumer) Run(ctx context.Context, handler EventHandler) error {
	if c.running.Swap(true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	c.logger.Info("Kafka consumer started",
		logging.String("topic", c.config.Topic),
		logging.String("group", c.config.GroupID))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("FetchMessage error", logging.Err(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.config.ErrorBackoff):
			}
			continue
		}
		c.consumed.Add(1)

		var env EventEnvelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			c.malformed.Add(1)
			c.logger.Warn("Skipping malformed event",
				logging.Int64("offset", m.Offset),
				logging.Err(err))
		} else if err := handler(ctx, &env, m); err != nil {
			c.failed.Add(1)
			c.logger.Error("Event handler failed",
				logging.String("event_id", env.EventID),
				logging.Err(err))
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("CommitMessages failed", logging.Err(err))
		}
	}
}

// Consumed returns the number of fetched messages.
func (c *Consumer) Consumed() int64 { return c.consumed.Load() }

// Malformed returns the number of messages that were not event envelopes.
func (c *Consumer) Malformed() int64 { return c.malformed.Load() }

// Close closes the reader.
func (c *Consumer) Close() error {
	err := c.reader.Close()
	c.logger.Info("Kafka consumer closed", logging.Int64("consumed", c.consumed.Load()))
	return err
}

// ValidateConsumerConfig validates configuration.
func ValidateConsumerConfig(cfg ConsumerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.ErrCodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return errors.New(errors.ErrCodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		return errors.New(errors.ErrCodeValidation, "topic required")
	}
	if cfg.AutoOffsetReset != "" && cfg.AutoOffsetReset != "earliest" && cfg.AutoOffsetReset != "latest" {
		return errors.New(errors.ErrCodeValidation, "invalid auto offset reset")
	}
	return nil
}

//Personal.AI order the ending
