package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/gamestore/internal/storage"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
	"github.com/dejobratic/gamestore/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// observe wraps a repository call in a span and records its duration.
func observe(ctx context.Context, metrics *storage.Metrics, repository, operation string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := telemetry.StartSpan(ctx, repository+"Repository."+operation)
	defer span.End()

	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("operation", operation))...)

	start := time.Now()
	err := fn(ctx)
	metrics.RecordOperation(ctx, repository, operation, time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.RecordSpanError(span, err)
		return err
	}

	telemetry.SetSpanSuccess(span)
	return nil
}

type ObservableCatalog struct {
	repo    ports.CatalogRepository
	metrics *storage.Metrics
}

func NewObservableCatalog(repo ports.CatalogRepository, metrics *storage.Metrics) *ObservableCatalog {
	return &ObservableCatalog{repo: repo, metrics: metrics}
}

func (r *ObservableCatalog) CreateCompany(ctx context.Context, company domain.Company) error {
	return observe(ctx, r.metrics, "Catalog", "CreateCompany",
		[]attribute.KeyValue{attribute.String("company.tax_id", company.TaxID)},
		func(ctx context.Context) error { return r.repo.CreateCompany(ctx, company) })
}

func (r *ObservableCatalog) GetCompany(ctx context.Context, taxID string) (*domain.Company, error) {
	var company *domain.Company
	err := observe(ctx, r.metrics, "Catalog", "GetCompany",
		[]attribute.KeyValue{attribute.String("company.tax_id", taxID)},
		func(ctx context.Context) error {
			var err error
			company, err = r.repo.GetCompany(ctx, taxID)
			return err
		})
	return company, err
}

func (r *ObservableCatalog) UpdateCompany(ctx context.Context, taxID string, fn func(*domain.Company) error) error {
	return observe(ctx, r.metrics, "Catalog", "UpdateCompany",
		[]attribute.KeyValue{attribute.String("company.tax_id", taxID)},
		func(ctx context.Context) error { return r.repo.UpdateCompany(ctx, taxID, fn) })
}

func (r *ObservableCatalog) DeleteCompany(ctx context.Context, taxID string) error {
	return observe(ctx, r.metrics, "Catalog", "DeleteCompany",
		[]attribute.KeyValue{attribute.String("company.tax_id", taxID)},
		func(ctx context.Context) error { return r.repo.DeleteCompany(ctx, taxID) })
}

func (r *ObservableCatalog) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	var companies []domain.Company
	err := observe(ctx, r.metrics, "Catalog", "ListCompanies", nil,
		func(ctx context.Context) error {
			var err error
			companies, err = r.repo.ListCompanies(ctx)
			return err
		})
	return companies, err
}

func (r *ObservableCatalog) FindProduct(ctx context.Context, name string) (*domain.Product, error) {
	var product *domain.Product
	err := observe(ctx, r.metrics, "Catalog", "FindProduct",
		[]attribute.KeyValue{attribute.String("product.name", name)},
		func(ctx context.Context) error {
			var err error
			product, err = r.repo.FindProduct(ctx, name)
			return err
		})
	return product, err
}

type ObservableCustomers struct {
	repo    ports.CustomerRepository
	metrics *storage.Metrics
}

func NewObservableCustomers(repo ports.CustomerRepository, metrics *storage.Metrics) *ObservableCustomers {
	return &ObservableCustomers{repo: repo, metrics: metrics}
}

func (r *ObservableCustomers) Create(ctx context.Context, customer domain.Customer) error {
	return observe(ctx, r.metrics, "Customer", "Create",
		[]attribute.KeyValue{attribute.String("customer.id", customer.ID)},
		func(ctx context.Context) error { return r.repo.Create(ctx, customer) })
}

func (r *ObservableCustomers) Get(ctx context.Context, id string) (*domain.Customer, error) {
	var customer *domain.Customer
	err := observe(ctx, r.metrics, "Customer", "Get",
		[]attribute.KeyValue{attribute.String("customer.id", id)},
		func(ctx context.Context) error {
			var err error
			customer, err = r.repo.Get(ctx, id)
			return err
		})
	return customer, err
}

func (r *ObservableCustomers) Update(ctx context.Context, id string, fn func(*domain.Customer) error) error {
	return observe(ctx, r.metrics, "Customer", "Update",
		[]attribute.KeyValue{attribute.String("customer.id", id)},
		func(ctx context.Context) error { return r.repo.Update(ctx, id, fn) })
}

func (r *ObservableCustomers) Delete(ctx context.Context, id string) error {
	return observe(ctx, r.metrics, "Customer", "Delete",
		[]attribute.KeyValue{attribute.String("customer.id", id)},
		func(ctx context.Context) error { return r.repo.Delete(ctx, id) })
}

func (r *ObservableCustomers) List(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := observe(ctx, r.metrics, "Customer", "List", nil,
		func(ctx context.Context) error {
			var err error
			customers, err = r.repo.List(ctx)
			return err
		})
	return customers, err
}

type ObservableLedger struct {
	repo    ports.LedgerRepository
	metrics *storage.Metrics
}

func NewObservableLedger(repo ports.LedgerRepository, metrics *storage.Metrics) *ObservableLedger {
	return &ObservableLedger{repo: repo, metrics: metrics}
}

func (r *ObservableLedger) Append(ctx context.Context, tx domain.Transaction) error {
	return observe(ctx, r.metrics, "Ledger", "Append",
		[]attribute.KeyValue{
			attribute.String("transaction.id", tx.ID.String()),
			attribute.String("transaction.kind", string(tx.Kind)),
		},
		func(ctx context.Context) error { return r.repo.Append(ctx, tx) })
}

func (r *ObservableLedger) ListByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	var history []domain.Transaction
	err := observe(ctx, r.metrics, "Ledger", "ListByCustomer",
		[]attribute.KeyValue{attribute.String("customer.id", customerID)},
		func(ctx context.Context) error {
			var err error
			history, err = r.repo.ListByCustomer(ctx, customerID)
			return err
		})
	return history, err
}

func (r *ObservableLedger) Report(ctx context.Context) (domain.Report, error) {
	var report domain.Report
	err := observe(ctx, r.metrics, "Ledger", "Report", nil,
		func(ctx context.Context) error {
			var err error
			report, err = r.repo.Report(ctx)
			return err
		})
	return report, err
}
