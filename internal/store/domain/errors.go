package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every lookup failure.
	ErrNotFound         = errors.New("not found")
	ErrCompanyNotFound  = fmt.Errorf("company %w", ErrNotFound)
	ErrCustomerNotFound = fmt.Errorf("customer %w", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)

	ErrDuplicateKey     = errors.New("duplicate key")
	ErrDuplicateName    = errors.New("duplicate name")
	ErrDuplicateProduct = errors.New("product already listed by company")

	// ErrInvalidInput is the root of every validation failure.
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPrice     = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	ErrInvalidAmount    = fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	ErrInvalidAge       = fmt.Errorf("%w: age must be at least %d", ErrInvalidInput, MinimumAge)
	ErrInvalidPromotion = fmt.Errorf("%w: unknown promotion", ErrInvalidInput)

	ErrUnderage            = fmt.Errorf("customer must be at least %d years old", MinimumAge)
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrAlreadyOwned        = errors.New("product already owned by customer")
	ErrNotOwned            = errors.New("product not owned by customer")
	ErrHasOwnedProducts    = errors.New("customer owns products")
	ErrProductOwned        = errors.New("product is owned by a customer")
)
