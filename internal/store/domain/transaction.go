package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes sales from refunds in the history.
type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindRefund   TransactionKind = "refund"
)

// Transaction is one entry of the store's append-only history. Amount is
// positive for purchases and negative for refunds. RevenueDelta and
// ProfitDelta are what the entry contributed to the store aggregates.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	Kind         TransactionKind `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	RevenueDelta decimal.Decimal `json:"revenue_delta"`
	ProfitDelta  decimal.Decimal `json:"profit_delta"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewTransaction stamps a new history entry.
func NewTransaction(customer Customer, product string, kind TransactionKind, amount, revenue, profit decimal.Decimal) Transaction {
	return Transaction{
		ID:           uuid.New(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		ProductName:  product,
		Kind:         kind,
		Amount:       amount,
		RevenueDelta: revenue,
		ProfitDelta:  profit,
		CreatedAt:    time.Now().UTC(),
	}
}

// Report holds the store's running totals.
type Report struct {
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// Add folds a transaction's contribution into the totals.
func (r Report) Add(tx Transaction) Report {
	return Report{
		Revenue: r.Revenue.Add(tx.RevenueDelta),
		Profit:  r.Profit.Add(tx.ProfitDelta),
	}
}
