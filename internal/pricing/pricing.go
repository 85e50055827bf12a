package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNegativePrice is returned when a base price below zero reaches the engine.
	ErrNegativePrice = errors.New("price must not be negative")

	// Markup is the flat store fee applied on top of every base price.
	Markup = decimal.RequireFromString("1.30")
	// ProfitRate is the share of a sale's final price kept by the store.
	ProfitRate = decimal.RequireFromString("0.30")
)

// StorePrice returns the base price after the store markup.
func StorePrice(base decimal.Decimal) (decimal.Decimal, error) {
	if base.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return base.Mul(Markup), nil
}

// ApplyPromotion derives the final price a customer pays for a product listed
// at base with the given promotion. The result is rounded to cents.
func ApplyPromotion(base decimal.Decimal, kind Promotion) (decimal.Decimal, error) {
	storePrice, err := StorePrice(base)
	if err != nil {
		return decimal.Zero, err
	}
	return storePrice.Mul(decimal.NewFromInt(1).Sub(kind.Discount())).Round(2), nil
}

// Profit returns the store's share of a sale at the given final price.
func Profit(final decimal.Decimal) decimal.Decimal {
	return final.Mul(ProfitRate)
}
