package commands

import (
	"context"
	"fmt"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
)

type RefundCommand struct {
	CustomerID  string
	ProductName string
}

func (c RefundCommand) Validate() error {
	return validateTarget(c.CustomerID, c.ProductName)
}

type RefundHandler interface {
	Handle(ctx context.Context, cmd RefundCommand) (*domain.Transaction, error)
}

// RefundCommandHandler takes a product back and credits its current final
// price, which may differ from what was paid.
type RefundCommandHandler struct {
	catalog   ports.CatalogRepository
	customers ports.CustomerRepository
	ledger    ports.LedgerRepository
	events    ports.EventBus
	policy    pricing.RefundProfitPolicy
}

func NewRefundCommandHandler(
	catalog ports.CatalogRepository,
	customers ports.CustomerRepository,
	ledger ports.LedgerRepository,
	events ports.EventBus,
	policy pricing.RefundProfitPolicy,
) *RefundCommandHandler {
	return &RefundCommandHandler{
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
		events:    events,
		policy:    policy,
	}
}

func (h *RefundCommandHandler) Handle(ctx context.Context, cmd RefundCommand) (*domain.Transaction, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.customers.Get(ctx, cmd.CustomerID); err != nil {
		return nil, err
	}

	product, err := h.catalog.FindProduct(ctx, cmd.ProductName)
	if err != nil {
		return nil, err
	}

	price := product.FinalPrice()
	profit := h.policy.RefundProfit(product.BasePrice, price)

	var (
		tx       domain.Transaction
		snapshot domain.Customer
	)
	err = h.customers.Update(ctx, cmd.CustomerID, func(c *domain.Customer) error {
		snapshot = c.Clone()
		if err := c.Release(product.Name); err != nil {
			return err
		}
		if err := c.Deposit(price); err != nil {
			return err
		}
		tx = domain.NewTransaction(*c, product.Name, domain.KindRefund, price.Neg(), price.Neg(), profit.Neg())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.ledger.Append(ctx, tx); err != nil {
		return nil, rollback(ctx, h.customers, snapshot, fmt.Errorf("record refund: %w", err))
	}

	if err := h.events.PublishProductRefunded(ctx, tx); err != nil {
		return &tx, fmt.Errorf("refund saved but failed to publish event: %w", err)
	}

	return &tx, nil
}
