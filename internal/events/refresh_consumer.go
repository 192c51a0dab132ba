package events

import (
	"context"
	"errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/domain"
	"github.com/brave-warrior/routecache/internal/kafka"
)

// RouteRefresher is the use case the consumer drives.
type RouteRefresher interface {
	RefreshRoutes(ctx context.Context, req application.RefreshRequest) (*application.RefreshResult, error)
}

// RefreshRequestConsumer listens for refresh requests and refreshes the cache.
type RefreshRequestConsumer struct {
	consumer *kafka.Consumer
	service  RouteRefresher
	logger   *zap.Logger
}

// NewRefreshRequestConsumer creates a new RefreshRequestConsumer.
func NewRefreshRequestConsumer(
	brokers []string,
	groupID string,
	service RouteRefresher,
	logger *zap.Logger,
) *RefreshRequestConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicRefreshRequests, logger)
	return NewRefreshRequestConsumerWith(consumer, service, logger)
}

// NewRefreshRequestConsumerWith creates a RefreshRequestConsumer on an existing consumer.
func NewRefreshRequestConsumerWith(consumer *kafka.Consumer, service RouteRefresher, logger *zap.Logger) *RefreshRequestConsumer {
	return &RefreshRequestConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming refresh requests. This blocks until the context is cancelled.
func (c *RefreshRequestConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *RefreshRequestConsumer) Close() error {
	return c.consumer.Close()
}

func (c *RefreshRequestConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from refresh topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch ce.Type {
	case RefreshRequested:
		return c.handleRefreshRequested(ctx, ce)
	default:
		c.logger.Debug("ignoring unhandled event type",
			zap.String("type", ce.Type),
		)
		return nil
	}
}

func (c *RefreshRequestConsumer) handleRefreshRequested(ctx context.Context, ce kafka.CloudEvent) error {
	var evt RefreshRequestedEvent
	if err := ce.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse RefreshRequestedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing refresh request",
		zap.String("event_id", ce.ID),
		zap.String("origin", evt.Origin),
		zap.String("destination", evt.Destination),
	)

	res, err := c.service.RefreshRoutes(ctx, application.RefreshRequest{
		Origin:      evt.Origin,
		Destination: evt.Destination,
		Mode:        evt.Mode,
		Language:    evt.Language,
	})
	if err != nil {
		// Rejected requests and upstream refusals will not succeed on retry.
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrUpstream) {
			c.logger.Warn("refresh request not applied",
				zap.String("event_id", ce.ID),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to refresh routes", zap.String("event_id", ce.ID), zap.Error(err))
		return err
	}

	c.logger.Info("routes refreshed from request",
		zap.String("event_id", ce.ID),
		zap.Int("routes", len(res.RouteIDs)),
	)
	return nil
}
