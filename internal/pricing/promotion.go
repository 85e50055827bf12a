package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownPromotion is returned when promotion input matches no known kind.
var ErrUnknownPromotion = errors.New("unknown promotion")

// Promotion is the discount campaign a product currently takes part in.
type Promotion string

const (
	PromotionNone    Promotion = "none"
	PromotionLaunch  Promotion = "launch"
	PromotionYearEnd Promotion = "year-end"
)

var discounts = map[Promotion]decimal.Decimal{
	PromotionLaunch:  decimal.RequireFromString("0.10"),
	PromotionYearEnd: decimal.RequireFromString("0.20"),
}

// Discount returns the fraction taken off the store price. Anything outside
// the known set, including the empty value, discounts nothing.
func (p Promotion) Discount() decimal.Decimal {
	if d, ok := discounts[p]; ok {
		return d
	}
	return decimal.Zero
}

// Valid reports whether p is one of the enumerated promotions.
func (p Promotion) Valid() bool {
	switch p {
	case PromotionNone, PromotionLaunch, PromotionYearEnd:
		return true
	default:
		return false
	}
}

func (p Promotion) String() string {
	if p == "" {
		return string(PromotionNone)
	}
	return string(p)
}

// ParsePromotion maps free-form input onto a Promotion. Blank input means no
// promotion. The Portuguese labels used by the first storefront release are
// still accepted.
func ParsePromotion(raw string) (Promotion, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return PromotionNone, nil
	case "launch", "lançamento", "lancamento":
		return PromotionLaunch, nil
	case "year-end", "year end", "yearend", "fim de ano":
		return PromotionYearEnd, nil
	default:
		return PromotionNone, fmt.Errorf("%w: %q", ErrUnknownPromotion, raw)
	}
}

// PromotionPolicy decides what happens to promotion input that does not parse.
type PromotionPolicy string

const (
	// PolicyStrict rejects unrecognized promotions.
	PolicyStrict PromotionPolicy = "strict"
	// PolicyLenient treats unrecognized promotions as none.
	PolicyLenient PromotionPolicy = "lenient"
)

// ParsePromotionPolicy validates a configured policy name.
func ParsePromotionPolicy(raw string) (PromotionPolicy, error) {
	switch PromotionPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case PolicyStrict:
		return PolicyStrict, nil
	case PolicyLenient:
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown promotion policy %q", raw)
	}
}

// ResolvePromotion validates promotion input under policy.
func ResolvePromotion(raw string, policy PromotionPolicy) (Promotion, error) {
	p, err := ParsePromotion(raw)
	if err != nil {
		if policy == PolicyLenient {
			return PromotionNone, nil
		}
		return PromotionNone, err
	}
	return p, nil
}
