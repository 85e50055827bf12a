package commands_test

import (
	"context"
	"testing"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/dejobratic/gamestore/internal/store/adapters/memory"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/shopspring/decimal"
)

type mockEventBus struct {
	purchased []domain.Transaction
	refunded  []domain.Transaction
	err       error
}

func (m *mockEventBus) PublishProductPurchased(ctx context.Context, tx domain.Transaction) error {
	m.purchased = append(m.purchased, tx)
	return m.err
}

func (m *mockEventBus) PublishProductRefunded(ctx context.Context, tx domain.Transaction) error {
	m.refunded = append(m.refunded, tx)
	return m.err
}

type failingLedger struct {
	*memory.Ledger
	err error
}

func (l *failingLedger) Append(ctx context.Context, tx domain.Transaction) error {
	return l.err
}

type fixture struct {
	catalog   *memory.Catalog
	customers *memory.Customers
	ledger    *memory.Ledger
	events    *mockEventBus
}

// newFixture seeds one company listing a 100.00 base price game on launch
// promotion and one adult customer with a balance of 200.00.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	f := &fixture{
		catalog:   memory.NewCatalog(),
		customers: memory.NewCustomers(),
		ledger:    memory.NewLedger(),
		events:    &mockEventBus{},
	}

	err := f.catalog.CreateCompany(ctx, domain.Company{
		TaxID: "11.111.111/0001-11",
		Name:  "Acme Games",
		Products: []domain.Product{{
			Name:         "Star Quest",
			CompanyTaxID: "11.111.111/0001-11",
			BasePrice:    decimal.NewFromInt(100),
			Promotion:    pricing.PromotionLaunch,
		}},
	})
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}

	err = f.customers.Create(ctx, domain.Customer{
		ID:      "c1",
		Name:    "Ana",
		Age:     30,
		Balance: decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	return f
}

func (f *fixture) customer(t *testing.T) *domain.Customer {
	t.Helper()
	c, err := f.customers.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	return c
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s %s, got %s", name, want, got)
	}
}

func assertUnchanged(t *testing.T, f *fixture) {
	t.Helper()
	c := f.customer(t)
	assertDecimal(t, "balance", c.Balance, "200")
	if len(c.Owned) != 0 {
		t.Errorf("expected no owned products, got %v", c.Owned)
	}
	report, _ := f.ledger.Report(context.Background())
	assertDecimal(t, "revenue", report.Revenue, "0")
	assertDecimal(t, "profit", report.Profit, "0")
	if len(f.events.purchased)+len(f.events.refunded) != 0 {
		t.Error("expected no events to be published")
	}
}
