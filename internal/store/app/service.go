package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/dejobratic/gamestore/internal/store/app/commands"
	"github.com/dejobratic/gamestore/internal/store/app/queries"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/metrics"
	"github.com/dejobratic/gamestore/internal/store/ports"
	"github.com/shopspring/decimal"
)

// Options carries the store's configurable business policies.
type Options struct {
	PromotionPolicy    pricing.PromotionPolicy
	RefundProfitPolicy pricing.RefundProfitPolicy
}

// Service bundles the catalog, customer and transaction use cases. Every
// public method holds the service lock for its whole duration, so each
// operation is observed either completely or not at all.
type Service struct {
	mu sync.Mutex

	catalog   ports.CatalogRepository
	customers ports.CustomerRepository
	ledger    ports.LedgerRepository
	logger    *slog.Logger

	promotionPolicy pricing.PromotionPolicy

	purchaseHandler commands.PurchaseHandler
	refundHandler   commands.RefundHandler
	historyHandler  *queries.HistoryQueryHandler
	ownedHandler    *queries.OwnedProductsQueryHandler
	reportHandler   *queries.FinancialReportQueryHandler
}

// NewService wires required dependencies.
func NewService(
	catalog ports.CatalogRepository,
	customers ports.CustomerRepository,
	ledger ports.LedgerRepository,
	events ports.EventBus,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	opts Options,
) *Service {
	if opts.PromotionPolicy == "" {
		opts.PromotionPolicy = pricing.PolicyStrict
	}
	if opts.RefundProfitPolicy == "" {
		opts.RefundProfitPolicy = pricing.RefundBaseMargin
	}

	purchase := commands.NewPurchaseCommandHandler(catalog, customers, ledger, events)
	refund := commands.NewRefundCommandHandler(catalog, customers, ledger, events, opts.RefundProfitPolicy)

	return &Service{
		catalog:         catalog,
		customers:       customers,
		ledger:          ledger,
		logger:          logger,
		promotionPolicy: opts.PromotionPolicy,
		purchaseHandler: commands.NewObservablePurchaseHandler(purchase, logger, metrics),
		refundHandler:   commands.NewObservableRefundHandler(refund, logger, metrics),
		historyHandler:  queries.NewHistoryQueryHandler(customers, ledger),
		ownedHandler:    queries.NewOwnedProductsQueryHandler(customers, catalog),
		reportHandler:   queries.NewFinancialReportQueryHandler(ledger),
	}
}

// RegisterCompany adds a company with no products.
func (s *Service) RegisterCompany(ctx context.Context, name, taxID string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	company := domain.Company{TaxID: strings.TrimSpace(taxID), Name: strings.TrimSpace(name)}
	if err := company.Validate(); err != nil {
		return nil, err
	}
	if err := s.catalog.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "company registered", "tax_id", company.TaxID, "name", company.Name)
	return &company, nil
}

// RemoveCompany deletes a company and its listings. It fails with
// ErrProductOwned while any customer owns one of those listings.
func (s *Service) RemoveCompany(ctx context.Context, taxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, err := s.catalog.GetCompany(ctx, taxID)
	if err != nil {
		return err
	}
	for _, p := range company.Products {
		owned, err := s.productOwned(ctx, p.Name)
		if err != nil {
			return err
		}
		if owned {
			return domain.ErrProductOwned
		}
	}

	if err := s.catalog.DeleteCompany(ctx, taxID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "company removed", "tax_id", taxID)
	return nil
}

func (s *Service) EditCompany(ctx context.Context, taxID string, update domain.CompanyUpdate) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.catalog.UpdateCompany(ctx, taxID, func(c *domain.Company) error {
		if update.Name == nil {
			return nil
		}
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
		}
		c.Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.catalog.GetCompany(ctx, taxID)
}

func (s *Service) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.ListCompanies(ctx)
}

// NewProduct captures the input for listing a product. Promotion is raw
// user input resolved under the configured promotion policy.
type NewProduct struct {
	Name      string
	BasePrice decimal.Decimal
	Platform  string
	Category  string
	Promotion string
}

// ProductEdit lists the product fields to change. Nil fields are left alone.
type ProductEdit struct {
	Name      *string
	BasePrice *decimal.Decimal
	Platform  *string
	Category  *string
	Promotion *string
}

func (s *Service) RegisterProduct(ctx context.Context, taxID string, input NewProduct) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	promotion, err := s.resolvePromotion(input.Promotion)
	if err != nil {
		return nil, err
	}

	product := domain.Product{
		Name:         strings.TrimSpace(input.Name),
		CompanyTaxID: taxID,
		BasePrice:    input.BasePrice,
		Platform:     strings.TrimSpace(input.Platform),
		Category:     strings.TrimSpace(input.Category),
		Promotion:    promotion,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	err = s.catalog.UpdateCompany(ctx, taxID, func(c *domain.Company) error {
		if c.HasProduct(product.Name) {
			return domain.ErrDuplicateProduct
		}
		c.Products = append(c.Products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "product registered",
		"tax_id", taxID,
		"product", product.Name,
		"final_price", product.FinalPrice().StringFixed(2),
	)
	return &product, nil
}

// RemoveProduct unlists a product. Products a customer owns stay listed so
// they can still be refunded.
func (s *Service) RemoveProduct(ctx context.Context, taxID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	company, err := s.catalog.GetCompany(ctx, taxID)
	if err != nil {
		return err
	}
	if !company.HasProduct(name) {
		return domain.ErrProductNotFound
	}

	owned, err := s.productOwned(ctx, name)
	if err != nil {
		return err
	}
	if owned {
		return domain.ErrProductOwned
	}

	err = s.catalog.UpdateCompany(ctx, taxID, func(c *domain.Company) error {
		i := c.FindProduct(name)
		if i < 0 {
			return domain.ErrProductNotFound
		}
		c.Products = slices.Delete(c.Products, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product removed", "tax_id", taxID, "product", name)
	return nil
}

// EditProduct changes any subset of a product's fields. Ownership is
// recorded by name, so owned products cannot be renamed.
func (s *Service) EditProduct(ctx context.Context, taxID, name string, edit ProductEdit) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	update := domain.ProductUpdate{
		Name:      edit.Name,
		BasePrice: edit.BasePrice,
		Platform:  edit.Platform,
		Category:  edit.Category,
	}
	if edit.Promotion != nil {
		promotion, err := s.resolvePromotion(*edit.Promotion)
		if err != nil {
			return nil, err
		}
		update.Promotion = &promotion
	}

	var renameOwned bool
	if edit.Name != nil && *edit.Name != name {
		owned, err := s.productOwned(ctx, name)
		if err != nil {
			return nil, err
		}
		renameOwned = owned
	}

	var updated domain.Product
	err := s.catalog.UpdateCompany(ctx, taxID, func(c *domain.Company) error {
		i := c.FindProduct(name)
		if i < 0 {
			return domain.ErrProductNotFound
		}
		if update.Renames(c.Products[i]) {
			if c.HasProduct(*update.Name) {
				return domain.ErrDuplicateProduct
			}
			if renameOwned {
				return domain.ErrProductOwned
			}
		}
		product, err := update.Apply(c.Products[i])
		if err != nil {
			return err
		}
		c.Products[i] = product
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ListProducts flattens every company's listings in registration order.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, err := s.catalog.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	for _, c := range companies {
		products = append(products, c.Products...)
	}
	return products, nil
}

func (s *Service) FindProduct(ctx context.Context, name string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.FindProduct(ctx, name)
}

// RegisterCustomer opens an account with a zero balance.
func (s *Service) RegisterCustomer(ctx context.Context, name, id string, age int) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer := domain.Customer{
		ID:      strings.TrimSpace(id),
		Name:    strings.TrimSpace(name),
		Age:     age,
		Balance: decimal.Zero,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "customer registered", "customer_id", customer.ID)
	return &customer, nil
}

// RemoveCustomer closes an account that owns nothing.
func (s *Service) RemoveCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if len(customer.Owned) > 0 {
		return domain.ErrHasOwnedProducts
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "customer removed", "customer_id", id)
	return nil
}

// EditCustomer changes name and/or age. An invalid age rejects the whole
// edit.
func (s *Service) EditCustomer(ctx context.Context, id string, update domain.CustomerUpdate) (*domain.Customer, error) {
	return s.updateCustomer(ctx, id, func(c *domain.Customer) error {
		updated, err := update.Apply(*c)
		if err != nil {
			return err
		}
		*c = updated
		return nil
	})
}

func (s *Service) Deposit(ctx context.Context, id string, amount decimal.Decimal) (*domain.Customer, error) {
	return s.updateCustomer(ctx, id, func(c *domain.Customer) error {
		return c.Deposit(amount)
	})
}

func (s *Service) Withdraw(ctx context.Context, id string, amount decimal.Decimal) (*domain.Customer, error) {
	return s.updateCustomer(ctx, id, func(c *domain.Customer) error {
		return c.Withdraw(amount)
	})
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customers.List(ctx)
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.customers.Get(ctx, id)
}

// Purchase sells a product to a customer. A non-nil transaction returned
// with an error was committed; only its event was lost.
func (s *Service) Purchase(ctx context.Context, customerID, productName string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.purchaseHandler.Handle(ctx, commands.PurchaseCommand{
		CustomerID:  customerID,
		ProductName: productName,
	})
}

// Refund returns a product at its current price. The same partial-success
// contract as Purchase applies.
func (s *Service) Refund(ctx context.Context, customerID, productName string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refundHandler.Handle(ctx, commands.RefundCommand{
		CustomerID:  customerID,
		ProductName: productName,
	})
}

func (s *Service) History(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.historyHandler.Handle(ctx, queries.HistoryQuery{CustomerID: customerID})
}

func (s *Service) OwnedProducts(ctx context.Context, customerID string) ([]queries.OwnedProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ownedHandler.Handle(ctx, queries.OwnedProductsQuery{CustomerID: customerID})
}

func (s *Service) FinancialReport(ctx context.Context) (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reportHandler.Handle(ctx)
}

func (s *Service) updateCustomer(ctx context.Context, id string, fn func(*domain.Customer) error) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.customers.Update(ctx, id, fn); err != nil {
		return nil, err
	}
	return s.customers.Get(ctx, id)
}

func (s *Service) resolvePromotion(raw string) (pricing.Promotion, error) {
	promotion, err := pricing.ResolvePromotion(raw, s.promotionPolicy)
	if err != nil {
		return pricing.PromotionNone, fmt.Errorf("%w: %w", domain.ErrInvalidPromotion, err)
	}
	return promotion, nil
}

func (s *Service) productOwned(ctx context.Context, name string) (bool, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range customers {
		if c.Owns(name) {
			return true, nil
		}
	}
	return false, nil
}
