package events

import (
	"context"
	"log/slog"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// LogBus writes store events to the logger instead of a broker. The store
// runs in a single process, so the log is the only subscriber.
type LogBus struct {
	logger *slog.Logger
}

// NewLogBus returns a publisher writing to logger, or to slog's default when nil.
func NewLogBus(logger *slog.Logger) *LogBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogBus{logger: logger}
}

func (b *LogBus) PublishProductPurchased(ctx context.Context, tx domain.Transaction) error {
	b.publish(ctx, TopicProductPurchased, tx)
	return nil
}

func (b *LogBus) PublishProductRefunded(ctx context.Context, tx domain.Transaction) error {
	b.publish(ctx, TopicProductRefunded, tx)
	return nil
}

func (b *LogBus) publish(ctx context.Context, topic string, tx domain.Transaction) {
	b.logger.DebugContext(ctx, "event::"+topic,
		"transaction_id", tx.ID.String(),
		"customer_id", tx.CustomerID,
		"product", tx.ProductName,
		"amount", tx.Amount.StringFixed(2),
	)
}
