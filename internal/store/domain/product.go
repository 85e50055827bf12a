package domain

import (
	"fmt"
	"strings"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/shopspring/decimal"
)

// Product is a game listed by a company. Its prices are never stored; they
// are derived from BasePrice and Promotion on every read.
type Product struct {
	Name         string            `json:"name"`
	CompanyTaxID string            `json:"company_tax_id"`
	BasePrice    decimal.Decimal   `json:"base_price"`
	Platform     string            `json:"platform,omitempty"`
	Category     string            `json:"category,omitempty"`
	Promotion    pricing.Promotion `json:"promotion"`
}

// ProductUpdate lists the product fields to change. Nil fields are left alone.
type ProductUpdate struct {
	Name      *string
	BasePrice *decimal.Decimal
	Platform  *string
	Category  *string
	Promotion *pricing.Promotion
}

// Validate ensures the product adheres to catalog constraints.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if p.BasePrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// StorePrice is the base price with the store markup.
func (p Product) StorePrice() decimal.Decimal {
	price, err := pricing.StorePrice(p.BasePrice)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// FinalPrice is what a customer pays today.
func (p Product) FinalPrice() decimal.Decimal {
	price, err := pricing.ApplyPromotion(p.BasePrice, p.Promotion)
	if err != nil {
		return decimal.Zero
	}
	return price
}

// SetPromotion switches the product's promotion. Values outside the
// enumeration clear it.
func (p *Product) SetPromotion(kind pricing.Promotion) {
	if !kind.Valid() {
		kind = pricing.PromotionNone
	}
	p.Promotion = kind
}

// Apply returns p with every present field of u applied. The result is
// validated before it is returned so callers never store a broken product.
func (u ProductUpdate) Apply(p Product) (Product, error) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.BasePrice != nil {
		p.BasePrice = *u.BasePrice
	}
	if u.Platform != nil {
		p.Platform = *u.Platform
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Promotion != nil {
		p.SetPromotion(*u.Promotion)
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Renames reports whether applying u would change the product's name.
func (u ProductUpdate) Renames(p Product) bool {
	return u.Name != nil && *u.Name != p.Name
}

func (p Product) String() string {
	return fmt.Sprintf("%s [%s] platform=%s category=%s base=%s store=%s final=%s promotion=%s",
		p.Name, p.CompanyTaxID, orNA(p.Platform), orNA(p.Category),
		p.BasePrice.StringFixed(2), p.StorePrice().StringFixed(2), p.FinalPrice().StringFixed(2), p.Promotion)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
