package queries

import (
	"context"

	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
)

// FinancialReportQueryHandler returns the store's revenue and profit.
type FinancialReportQueryHandler struct {
	ledger ports.LedgerRepository
}

func NewFinancialReportQueryHandler(ledger ports.LedgerRepository) *FinancialReportQueryHandler {
	return &FinancialReportQueryHandler{ledger: ledger}
}

func (h *FinancialReportQueryHandler) Handle(ctx context.Context) (domain.Report, error) {
	return h.ledger.Report(ctx)
}
