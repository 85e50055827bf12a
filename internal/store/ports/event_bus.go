package ports

import (
	"context"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// EventBus defines the contract for publishing store transaction events.
type EventBus interface {
	PublishProductPurchased(ctx context.Context, tx domain.Transaction) error
	PublishProductRefunded(ctx context.Context, tx domain.Transaction) error
}
