package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/dejobratic/gamestore/internal/store/domain"
)

// Customers keeps customer accounts in registration order.
type Customers struct {
	mu        sync.RWMutex
	order     []string
	customers map[string]domain.Customer
}

// NewCustomers constructs an empty in-memory customer registry.
func NewCustomers() *Customers {
	return &Customers{customers: make(map[string]domain.Customer)}
}

// Create stores a new customer.
func (r *Customers) Create(_ context.Context, customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.ID]; ok {
		return domain.ErrDuplicateKey
	}
	r.customers[customer.ID] = customer.Clone()
	r.order = append(r.order, customer.ID)
	return nil
}

// Get fetches a single customer by identifier.
func (r *Customers) Get(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	clone := customer.Clone()
	return &clone, nil
}

// Update applies fn to a copy of the customer and keeps it on success.
func (r *Customers) Update(_ context.Context, id string, fn func(*domain.Customer) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	customer, ok := r.customers[id]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	clone := customer.Clone()
	if err := fn(&clone); err != nil {
		return err
	}
	clone.ID = id
	r.customers[id] = clone
	return nil
}

// Delete removes a customer.
func (r *Customers) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	delete(r.customers, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
	return nil
}

// List returns every customer in registration order.
func (r *Customers) List(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.customers[id].Clone())
	}
	return result, nil
}
