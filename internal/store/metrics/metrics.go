package metrics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics tracks store transactions and the money they move.
type Metrics struct {
	transactionsTotal   metric.Int64Counter
	transactionDuration metric.Float64Histogram
	revenue             metric.Float64UpDownCounter
	profit              metric.Float64UpDownCounter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.transactionsTotal, err = meter.Int64Counter(
		"store_transactions_total",
		metric.WithDescription("Total number of purchase and refund attempts"),
		metric.WithUnit("{transaction}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_transactions_total counter: %w", err)
	}

	m.transactionDuration, err = meter.Float64Histogram(
		"store_transaction_duration_seconds",
		metric.WithDescription("Duration of purchase and refund operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_transaction_duration histogram: %w", err)
	}

	m.revenue, err = meter.Float64UpDownCounter(
		"store_revenue",
		metric.WithDescription("Net revenue from sales minus refunds"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_revenue counter: %w", err)
	}

	m.profit, err = meter.Float64UpDownCounter(
		"store_profit",
		metric.WithDescription("Net store profit from sales minus refunds"),
	)
	if err != nil {
		return nil, fmt.Errorf("create store_profit counter: %w", err)
	}

	return m, nil
}

// RecordTransaction counts a purchase or refund attempt by outcome.
func (m *Metrics) RecordTransaction(ctx context.Context, kind string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.transactionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
}

func (m *Metrics) RecordTransactionDuration(ctx context.Context, kind string, durationSeconds float64) {
	m.transactionDuration.Record(ctx, durationSeconds, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordAggregates mirrors a committed transaction's effect on the totals.
// Floats are fine here; the ledger holds the exact figures.
func (m *Metrics) RecordAggregates(ctx context.Context, revenueDelta, profitDelta decimal.Decimal) {
	m.revenue.Add(ctx, revenueDelta.InexactFloat64())
	m.profit.Add(ctx, profitDelta.InexactFloat64())
}
