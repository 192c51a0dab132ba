package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Handler processes one message. A failed message is retried with backoff
// until it succeeds or the context ends; later messages wait behind it.
// Handlers return nil for messages that can never succeed.
type Handler func(ctx context.Context, msg kafkago.Message) error

// Retry intervals for failed messages.
const (
	DefaultRetryInitial = 500 * time.Millisecond
	DefaultRetryMax     = 30 * time.Second
)

// Consumer reads one topic as a member of a consumer group.
type Consumer struct {
	reader MessageReader
	topic  string
	logger *zap.Logger

	retryInitial time.Duration
	retryMax     time.Duration
}

// NewConsumer creates a Consumer for topic.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return NewConsumerWithReader(reader, topic, logger)
}

// NewConsumerWithReader creates a Consumer on top of an existing reader.
func NewConsumerWithReader(r MessageReader, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:       r,
		topic:        topic,
		logger:       logger,
		retryInitial: DefaultRetryInitial,
		retryMax:     DefaultRetryMax,
	}
}

// SetRetryBackoff changes the retry intervals for failed messages.
func (c *Consumer) SetRetryBackoff(initial, maxInterval time.Duration) {
	c.retryInitial = initial
	c.retryMax = maxInterval
}

// Consume hands every message to handle until ctx is cancelled. Messages
// are committed only after handle succeeds.
func (c *Consumer) Consume(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("failed to fetch from %s: %w", c.topic, err)
		}

		// Committing a later offset would also commit this one, so a failed
		// message blocks the partition until it is handled.
		if err := c.handleWithRetry(ctx, handle, msg); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to commit message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, handle Handler, msg kafkago.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitial
	b.MaxInterval = c.retryMax
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.Error("failed to handle message, retrying",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Duration("retry_in", wait),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(func() error {
		return handle(ctx, msg)
	}, backoff.WithContext(b, ctx), notify)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
