package storage

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records how long repository operations take and how they end.
type Metrics struct {
	operationDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.operationDuration, err = meter.Float64Histogram(
		"storage_operation_duration_seconds",
		metric.WithDescription("Repository operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create storage_operation_duration histogram: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordOperation(ctx context.Context, repository, operation string, durationSeconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.operationDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("repository", repository),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}
