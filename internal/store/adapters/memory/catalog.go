package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// Catalog keeps companies in registration order.
type Catalog struct {
	mu        sync.RWMutex
	order     []string
	companies map[string]domain.Company
}

// NewCatalog constructs an empty in-memory catalog.
func NewCatalog() *Catalog {
	return &Catalog{companies: make(map[string]domain.Company)}
}

// CreateCompany stores a new company. Tax IDs and names are unique.
func (c *Catalog) CreateCompany(_ context.Context, company domain.Company) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.companies[company.TaxID]; ok {
		return domain.ErrDuplicateKey
	}
	if c.nameTaken(company.Name, "") {
		return domain.ErrDuplicateName
	}

	c.companies[company.TaxID] = company.Clone()
	c.order = append(c.order, company.TaxID)
	return nil
}

// GetCompany fetches a company by tax ID.
func (c *Catalog) GetCompany(_ context.Context, taxID string) (*domain.Company, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	company, ok := c.companies[taxID]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	clone := company.Clone()
	return &clone, nil
}

// UpdateCompany applies fn to a copy of the company and keeps it on success.
func (c *Catalog) UpdateCompany(_ context.Context, taxID string, fn func(*domain.Company) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	company, ok := c.companies[taxID]
	if !ok {
		return domain.ErrCompanyNotFound
	}

	clone := company.Clone()
	if err := fn(&clone); err != nil {
		return err
	}
	clone.TaxID = taxID

	if clone.Name != company.Name && c.nameTaken(clone.Name, taxID) {
		return domain.ErrDuplicateName
	}

	c.companies[taxID] = clone
	return nil
}

// DeleteCompany removes a company together with its listings.
func (c *Catalog) DeleteCompany(_ context.Context, taxID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.companies[taxID]; !ok {
		return domain.ErrCompanyNotFound
	}
	delete(c.companies, taxID)
	c.order = slices.DeleteFunc(c.order, func(id string) bool { return id == taxID })
	return nil
}

// ListCompanies returns every company in registration order.
func (c *Catalog) ListCompanies(_ context.Context) ([]domain.Company, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Company, 0, len(c.order))
	for _, taxID := range c.order {
		result = append(result, c.companies[taxID].Clone())
	}
	return result, nil
}

// FindProduct returns the first product with the given name, scanning
// companies in registration order and products in listing order.
func (c *Catalog) FindProduct(_ context.Context, name string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, taxID := range c.order {
		company := c.companies[taxID]
		if i := company.FindProduct(name); i >= 0 {
			product := company.Products[i]
			return &product, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (c *Catalog) nameTaken(name, exceptTaxID string) bool {
	for taxID, company := range c.companies {
		if taxID != exceptTaxID && company.Name == name {
			return true
		}
	}
	return false
}
