package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// MinimumAge is the youngest a customer may be.
const MinimumAge = 18

// Customer is a store account holding a balance and the names of the
// products it owns.
type Customer struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Age     int             `json:"age"`
	Balance decimal.Decimal `json:"balance"`
	Owned   []string        `json:"owned"`
}

// CustomerUpdate lists the customer fields to change. Nil fields are left alone.
type CustomerUpdate struct {
	Name *string
	Age  *int
}

// Validate ensures the customer can be registered.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if c.Age < MinimumAge {
		return ErrUnderage
	}
	return nil
}

// Apply returns c with every present field of u applied.
func (u CustomerUpdate) Apply(c Customer) (Customer, error) {
	if u.Age != nil && *u.Age < MinimumAge {
		return Customer{}, ErrInvalidAge
	}
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			return Customer{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		c.Name = *u.Name
	}
	if u.Age != nil {
		c.Age = *u.Age
	}
	return c, nil
}

// Deposit credits amount to the balance.
func (c *Customer) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	c.Balance = c.Balance.Add(amount)
	return nil
}

// Withdraw debits amount from the balance.
func (c *Customer) Withdraw(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	if c.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	c.Balance = c.Balance.Sub(amount)
	return nil
}

// Owns reports whether the named product is in the ownership set.
func (c Customer) Owns(product string) bool {
	return slices.Contains(c.Owned, product)
}

// Acquire adds product to the ownership set.
func (c *Customer) Acquire(product string) error {
	if c.Owns(product) {
		return ErrAlreadyOwned
	}
	c.Owned = append(c.Owned, product)
	return nil
}

// Release removes product from the ownership set.
func (c *Customer) Release(product string) error {
	i := slices.Index(c.Owned, product)
	if i < 0 {
		return ErrNotOwned
	}
	c.Owned = slices.Delete(c.Owned, i, i+1)
	return nil
}

// Clone returns a copy that shares no ownership storage with c.
func (c Customer) Clone() Customer {
	clone := c
	clone.Owned = slices.Clone(c.Owned)
	return clone
}

func (c Customer) String() string {
	return fmt.Sprintf("%s (id: %s, age: %d, balance: %s)", c.Name, c.ID, c.Age, c.Balance.StringFixed(2))
}
