package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/dejobratic/gamestore/internal/store/ports"
)

// OwnedProductsQuery requests the products a customer currently owns.
type OwnedProductsQuery struct {
	CustomerID string
}

// Validate ensures the query has valid parameters.
func (q OwnedProductsQuery) Validate() error {
	if strings.TrimSpace(q.CustomerID) == "" {
		return fmt.Errorf("%w: customer_id is required", domain.ErrInvalidInput)
	}
	return nil
}

// OwnedProduct pairs an owned name with its catalog entry. Product is nil
// when the listing has since left the catalog with its company.
type OwnedProduct struct {
	Name    string
	Product *domain.Product
}

// OwnedProductsQueryHandler executes OwnedProductsQuery.
type OwnedProductsQueryHandler struct {
	customers ports.CustomerRepository
	catalog   ports.CatalogRepository
}

// NewOwnedProductsQueryHandler constructs an OwnedProductsQueryHandler.
func NewOwnedProductsQueryHandler(customers ports.CustomerRepository, catalog ports.CatalogRepository) *OwnedProductsQueryHandler {
	return &OwnedProductsQueryHandler{customers: customers, catalog: catalog}
}

// Handle returns the owned products in acquisition order.
func (h *OwnedProductsQueryHandler) Handle(ctx context.Context, query OwnedProductsQuery) ([]OwnedProduct, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	customer, err := h.customers.Get(ctx, query.CustomerID)
	if err != nil {
		return nil, err
	}

	owned := make([]OwnedProduct, 0, len(customer.Owned))
	for _, name := range customer.Owned {
		product, err := h.catalog.FindProduct(ctx, name)
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		owned = append(owned, OwnedProduct{Name: name, Product: product})
	}
	return owned, nil
}
