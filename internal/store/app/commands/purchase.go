package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
)

type PurchaseCommand struct {
	CustomerID  string
	ProductName string
}

func (c PurchaseCommand) Validate() error {
	return validateTarget(c.CustomerID, c.ProductName)
}

type PurchaseHandler interface {
	Handle(ctx context.Context, cmd PurchaseCommand) (*domain.Transaction, error)
}

// PurchaseCommandHandler sells a product to a customer at its current final price.
type PurchaseCommandHandler struct {
	catalog   ports.CatalogRepository
	customers ports.CustomerRepository
	ledger    ports.LedgerRepository
	events    ports.EventBus
}

func NewPurchaseCommandHandler(
	catalog ports.CatalogRepository,
	customers ports.CustomerRepository,
	ledger ports.LedgerRepository,
	events ports.EventBus,
) *PurchaseCommandHandler {
	return &PurchaseCommandHandler{
		catalog:   catalog,
		customers: customers,
		ledger:    ledger,
		events:    events,
	}
}

func (h *PurchaseCommandHandler) Handle(ctx context.Context, cmd PurchaseCommand) (*domain.Transaction, error) {
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

	var (
		tx       domain.Transaction
		snapshot domain.Customer
	)
	err = h.customers.Update(ctx, cmd.CustomerID, func(c *domain.Customer) error {
		snapshot = c.Clone()
		if c.Owns(product.Name) {
			return domain.ErrAlreadyOwned
		}
		if err := c.Withdraw(price); err != nil {
			return err
		}
		if err := c.Acquire(product.Name); err != nil {
			return err
		}
		tx = domain.NewTransaction(*c, product.Name, domain.KindPurchase, price, price, pricing.Profit(price))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.ledger.Append(ctx, tx); err != nil {
		return nil, rollback(ctx, h.customers, snapshot, fmt.Errorf("record purchase: %w", err))
	}

	if err := h.events.PublishProductPurchased(ctx, tx); err != nil {
		return &tx, fmt.Errorf("purchase saved but failed to publish event: %w", err)
	}

	return &tx, nil
}

func validateTarget(customerID, productName string) error {
	if strings.TrimSpace(customerID) == "" {
		return fmt.Errorf("%w: customer_id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(productName) == "" {
		return fmt.Errorf("%w: product_name is required", domain.ErrInvalidInput)
	}
	return nil
}

// rollback puts the customer back to snapshot after a failed ledger write so
// the balance, ownership set and history never disagree.
func rollback(ctx context.Context, customers ports.CustomerRepository, snapshot domain.Customer, cause error) error {
	err := customers.Update(ctx, snapshot.ID, func(c *domain.Customer) error {
		*c = snapshot
		return nil
	})
	if err != nil {
		return errors.Join(cause, fmt.Errorf("restore customer %s: %w", snapshot.ID, err))
	}
	return cause
}
