package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// Ledger is an append-only transaction log with running totals.
type Ledger struct {
	mu      sync.RWMutex
	entries []domain.Transaction
	totals  domain.Report
}

// NewLedger constructs an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records tx and folds it into the totals.
func (l *Ledger) Append(_ context.Context, tx domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, tx)
	l.totals = l.totals.Add(tx)
	return nil
}

// ListByCustomer returns the customer's entries in the order they were recorded.
func (l *Ledger) ListByCustomer(_ context.Context, customerID string) ([]domain.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := []domain.Transaction{}
	for _, tx := range l.entries {
		if tx.CustomerID == customerID {
			result = append(result, tx)
		}
	}
	return result, nil
}

// Report returns the running totals.
func (l *Ledger) Report(_ context.Context) (domain.Report, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totals, nil
}
