package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/metrics"
	"github.com/dejobratic/gamestore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ObservablePurchaseHandler struct {
	handler PurchaseHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePurchaseHandler(handler PurchaseHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePurchaseHandler {
	return &ObservablePurchaseHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePurchaseHandler) Handle(ctx context.Context, cmd PurchaseCommand) (*domain.Transaction, error) {
	ctx, span := telemetry.StartSpan(ctx, "PurchaseCommand.Handle")
	defer span.End()

	return observeTransaction(ctx, span, o.logger, o.metrics, domain.KindPurchase, cmd.CustomerID, cmd.ProductName,
		func(ctx context.Context) (*domain.Transaction, error) { return o.handler.Handle(ctx, cmd) })
}

type ObservableRefundHandler struct {
	handler RefundHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableRefundHandler(handler RefundHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableRefundHandler {
	return &ObservableRefundHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableRefundHandler) Handle(ctx context.Context, cmd RefundCommand) (*domain.Transaction, error) {
	ctx, span := telemetry.StartSpan(ctx, "RefundCommand.Handle")
	defer span.End()

	return observeTransaction(ctx, span, o.logger, o.metrics, domain.KindRefund, cmd.CustomerID, cmd.ProductName,
		func(ctx context.Context) (*domain.Transaction, error) { return o.handler.Handle(ctx, cmd) })
}

// observeTransaction logs, measures and annotates one purchase or refund.
// A transaction returned alongside an error was committed; only its event
// failed, so it still counts towards the aggregates.
func observeTransaction(
	ctx context.Context,
	span trace.Span,
	logger *slog.Logger,
	m *metrics.Metrics,
	kind domain.TransactionKind,
	customerID, productName string,
	fn func(context.Context) (*domain.Transaction, error),
) (*domain.Transaction, error) {
	start := time.Now()
	var success bool
	defer func() {
		m.RecordTransactionDuration(ctx, string(kind), time.Since(start).Seconds())
		m.RecordTransaction(ctx, string(kind), success)
	}()

	logger.InfoContext(ctx, "processing "+string(kind),
		"customer_id", customerID,
		"product", productName,
	)

	tx, err := fn(ctx)

	if tx != nil {
		m.RecordAggregates(ctx, tx.RevenueDelta, tx.ProfitDelta)
		telemetry.AddSpanAttributes(span,
			attribute.String("transaction.id", tx.ID.String()),
			attribute.String("transaction.kind", string(tx.Kind)),
			attribute.String("transaction.customer_id", tx.CustomerID),
			attribute.String("transaction.product", tx.ProductName),
			attribute.String("transaction.amount", tx.Amount.StringFixed(2)),
		)
	}

	if err != nil {
		telemetry.RecordSpanError(span, err)
		logger.ErrorContext(ctx, "failed to process "+string(kind),
			"error", err,
			"customer_id", customerID,
			"product", productName,
		)
		return tx, err
	}

	logger.InfoContext(ctx, string(kind)+" completed successfully",
		"transaction_id", tx.ID.String(),
		"customer_id", tx.CustomerID,
		"amount", tx.Amount.StringFixed(2),
	)

	success = true
	telemetry.SetSpanSuccess(span)

	return tx, nil
}
