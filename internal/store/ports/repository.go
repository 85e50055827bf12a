package ports

import (
	"context"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// CatalogRepository stores companies and the products they list.
type CatalogRepository interface {
	CreateCompany(ctx context.Context, company domain.Company) error
	GetCompany(ctx context.Context, taxID string) (*domain.Company, error)
	// UpdateCompany runs fn against a copy of the company and stores the
	// copy only when fn succeeds.
	UpdateCompany(ctx context.Context, taxID string, fn func(*domain.Company) error) error
	DeleteCompany(ctx context.Context, taxID string) error
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	FindProduct(ctx context.Context, name string) (*domain.Product, error)
}

// CustomerRepository stores customer accounts.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	Get(ctx context.Context, id string) (*domain.Customer, error)
	// Update runs fn against a copy of the customer and stores the copy only
	// when fn succeeds.
	Update(ctx context.Context, id string, fn func(*domain.Customer) error) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Customer, error)
}

// LedgerRepository stores the transaction history and the running totals.
type LedgerRepository interface {
	Append(ctx context.Context, tx domain.Transaction) error
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error)
	Report(ctx context.Context) (domain.Report, error)
}
