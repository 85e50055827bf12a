package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/gamestore/internal/store/adapters/memory"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/shopspring/decimal"
)

func TestCustomersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate id", func(t *testing.T) {
		repo := memory.NewCustomers()
		_ = repo.Create(ctx, domain.Customer{ID: "999", Name: "Ana", Age: 30})
		err := repo.Create(ctx, domain.Customer{ID: "999", Name: "Other", Age: 40})
		if !errors.Is(err, domain.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("update is all or nothing", func(t *testing.T) {
		repo := memory.NewCustomers()
		_ = repo.Create(ctx, domain.Customer{ID: "999", Name: "Ana", Age: 30, Balance: decimal.NewFromInt(50)})

		err := repo.Update(ctx, "999", func(c *domain.Customer) error {
			if err := c.Acquire("SpaceRun"); err != nil {
				return err
			}
			return c.Withdraw(decimal.NewFromInt(100))
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got %v", err)
		}

		customer, _ := repo.Get(ctx, "999")
		if customer.Owns("SpaceRun") {
			t.Error("ownership leaked from failed update")
		}
		if !customer.Balance.Equal(decimal.NewFromInt(50)) {
			t.Errorf("balance changed to %s", customer.Balance)
		}
	})

	t.Run("get and delete unknown customer", func(t *testing.T) {
		repo := memory.NewCustomers()
		if _, err := repo.Get(ctx, "nope"); !errors.Is(err, domain.ErrCustomerNotFound) {
			t.Errorf("Get() error = %v", err)
		}
		if err := repo.Delete(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Delete() error = %v", err)
		}
	})

	t.Run("lists in registration order", func(t *testing.T) {
		repo := memory.NewCustomers()
		for _, id := range []string{"b", "a", "c"} {
			_ = repo.Create(ctx, domain.Customer{ID: id, Name: id, Age: 20})
		}
		_ = repo.Delete(ctx, "a")

		customers, _ := repo.List(ctx)
		if len(customers) != 2 || customers[0].ID != "b" || customers[1].ID != "c" {
			t.Errorf("unexpected order: %+v", customers)
		}
	})
}
