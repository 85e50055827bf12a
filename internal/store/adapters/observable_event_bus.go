package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/gamestore/internal/events"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
	"github.com/dejobratic/gamestore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *events.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *events.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) PublishProductPurchased(ctx context.Context, tx domain.Transaction) error {
	return e.publish(ctx, events.TopicProductPurchased, tx, e.bus.PublishProductPurchased)
}

func (e *ObservableEventBus) PublishProductRefunded(ctx context.Context, tx domain.Transaction) error {
	return e.publish(ctx, events.TopicProductRefunded, tx, e.bus.PublishProductRefunded)
}

func (e *ObservableEventBus) publish(ctx context.Context, topic string, tx domain.Transaction, fn func(context.Context, domain.Transaction) error) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish")
	defer span.End()

	telemetry.AddSpanAttributes(span,
		attribute.String("messaging.destination", topic),
		attribute.String("transaction.id", tx.ID.String()),
	)

	start := time.Now()
	err := fn(ctx, tx)
	e.metrics.RecordPublish(ctx, topic, time.Since(start).Seconds(), err == nil)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}
