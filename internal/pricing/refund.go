package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownRefundPolicy is returned for a refund profit policy name that is not recognised.
var ErrUnknownRefundPolicy = errors.New("unknown refund profit policy")

// RefundProfitPolicy decides how much profit a refund takes back.
type RefundProfitPolicy string

const (
	// RefundBaseMargin reverses the margin over the base price: price - base.
	RefundBaseMargin RefundProfitPolicy = "base-margin"
	// RefundProportional reverses the same share a purchase books.
	RefundProportional RefundProfitPolicy = "proportional"
)

// ParseRefundProfitPolicy maps a configured name to a policy. Empty means base-margin.
func ParseRefundProfitPolicy(raw string) (RefundProfitPolicy, error) {
	switch RefundProfitPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RefundBaseMargin:
		return RefundBaseMargin, nil
	case RefundProportional:
		return RefundProportional, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRefundPolicy, raw)
	}
}

// RefundProfit returns the profit to subtract when a product listed at base
// is refunded at price. The result is a positive amount.
func (p RefundProfitPolicy) RefundProfit(base, price decimal.Decimal) decimal.Decimal {
	if p == RefundProportional {
		return Profit(price)
	}
	return price.Sub(base)
}
