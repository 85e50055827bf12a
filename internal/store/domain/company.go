package domain

import (
	"fmt"
	"strings"
)

// Company is a publisher registered with the store, keyed by its tax ID.
type Company struct {
	TaxID    string    `json:"tax_id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// CompanyUpdate lists the company fields to change. Nil fields are left alone.
type CompanyUpdate struct {
	Name *string
}

// Validate ensures the company can be registered.
func (c Company) Validate() error {
	if strings.TrimSpace(c.TaxID) == "" {
		return fmt.Errorf("%w: tax_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return nil
}

// FindProduct returns the index of the named product, or -1.
func (c Company) FindProduct(name string) int {
	for i, p := range c.Products {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// HasProduct reports whether the company lists a product with that name.
func (c Company) HasProduct(name string) bool {
	return c.FindProduct(name) >= 0
}

// Clone returns a copy that shares no product storage with c.
func (c Company) Clone() Company {
	clone := c
	clone.Products = append([]Product(nil), c.Products...)
	return clone
}

func (c Company) String() string {
	return fmt.Sprintf("%s - tax ID: %s", c.Name, c.TaxID)
}
