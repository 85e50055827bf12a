package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
)

// HistoryQuery requests a customer's transactions, oldest first.
type HistoryQuery struct {
	CustomerID string
}

// Validate ensures the query has valid parameters.
func (q HistoryQuery) Validate() error {
	if strings.TrimSpace(q.CustomerID) == "" {
		return fmt.Errorf("%w: customer_id is required", domain.ErrInvalidInput)
	}
	return nil
}

// HistoryQueryHandler executes HistoryQuery.
type HistoryQueryHandler struct {
	customers ports.CustomerRepository
	ledger    ports.LedgerRepository
}

// NewHistoryQueryHandler constructs a HistoryQueryHandler.
func NewHistoryQueryHandler(customers ports.CustomerRepository, ledger ports.LedgerRepository) *HistoryQueryHandler {
	return &HistoryQueryHandler{customers: customers, ledger: ledger}
}

// Handle returns the customer's history. A known customer with no
// transactions yields an empty slice.
func (h *HistoryQueryHandler) Handle(ctx context.Context, query HistoryQuery) ([]domain.Transaction, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.customers.Get(ctx, query.CustomerID); err != nil {
		return nil, err
	}

	return h.ledger.ListByCustomer(ctx, query.CustomerID)
}
