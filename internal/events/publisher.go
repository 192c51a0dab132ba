package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brave-warrior/routecache/internal/application"
	"github.com/brave-warrior/routecache/internal/kafka"
)

// EventProducer publishes CloudEvents; *kafka.Producer implements it.
type EventProducer interface {
	PublishEvent(ctx context.Context, topic, key string, ce *kafka.CloudEvent) error
}

// RouteEventPublisher publishes route cache events to Kafka.
type RouteEventPublisher struct {
	producer EventProducer
	logger   *zap.Logger
}

var _ application.EventPublisher = (*RouteEventPublisher)(nil)

// NewRouteEventPublisher creates a new RouteEventPublisher.
func NewRouteEventPublisher(producer EventProducer, logger *zap.Logger) *RouteEventPublisher {
	return &RouteEventPublisher{producer: producer, logger: logger}
}

// PublishRoutesRefreshed announces a completed refresh on TopicRouteEvents,
// keyed by origin and destination.
func (p *RouteEventPublisher) PublishRoutesRefreshed(ctx context.Context, evt application.RoutesRefreshed) error {
	data := RoutesRefreshedEvent{
		Origin:      evt.Origin,
		Destination: evt.Destination,
		Mode:        evt.Mode,
		RouteCount:  len(evt.RouteIDs),
		RouteIDs:    evt.RouteIDs,
		OccurredAt:  evt.OccurredAt,
	}

	ce, err := kafka.NewCloudEvent(Source, RoutesRefreshed, data)
	if err != nil {
		return fmt.Errorf("failed to create cloud event: %w", err)
	}

	key := evt.Origin + "|" + evt.Destination
	if err := p.producer.PublishEvent(ctx, TopicRouteEvents, key, ce); err != nil {
		return err
	}

	p.logger.Info("routes refreshed event published",
		zap.String("event_id", ce.ID),
		zap.Int("routes", data.RouteCount),
	)
	return nil
}
