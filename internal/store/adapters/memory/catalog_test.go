package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/gamestore/internal/store/adapters/memory"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/shopspring/decimal"
)

func TestCatalogCreateCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects duplicate tax ID and name without mutating", func(t *testing.T) {
		catalog := memory.NewCatalog()
		if err := catalog.CreateCompany(ctx, domain.Company{TaxID: "123", Name: "Acme"}); err != nil {
			t.Fatalf("CreateCompany() error = %v", err)
		}

		err := catalog.CreateCompany(ctx, domain.Company{TaxID: "123", Name: "Other"})
		if !errors.Is(err, domain.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}

		err = catalog.CreateCompany(ctx, domain.Company{TaxID: "456", Name: "Acme"})
		if !errors.Is(err, domain.ErrDuplicateName) {
			t.Errorf("expected ErrDuplicateName, got %v", err)
		}

		companies, _ := catalog.ListCompanies(ctx)
		if len(companies) != 1 || companies[0].Name != "Acme" {
			t.Errorf("catalog mutated: %+v", companies)
		}
	})

	t.Run("lists in registration order", func(t *testing.T) {
		catalog := memory.NewCatalog()
		for _, c := range []domain.Company{{TaxID: "3", Name: "C"}, {TaxID: "1", Name: "A"}, {TaxID: "2", Name: "B"}} {
			if err := catalog.CreateCompany(ctx, c); err != nil {
				t.Fatalf("CreateCompany() error = %v", err)
			}
		}
		if err := catalog.DeleteCompany(ctx, "1"); err != nil {
			t.Fatalf("DeleteCompany() error = %v", err)
		}

		companies, _ := catalog.ListCompanies(ctx)
		if len(companies) != 2 || companies[0].TaxID != "3" || companies[1].TaxID != "2" {
			t.Errorf("unexpected order: %+v", companies)
		}
	})
}

func TestCatalogUpdateCompany(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalog()
	_ = catalog.CreateCompany(ctx, domain.Company{TaxID: "123", Name: "Acme"})
	_ = catalog.CreateCompany(ctx, domain.Company{TaxID: "456", Name: "Globex"})

	t.Run("discards changes when fn fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := catalog.UpdateCompany(ctx, "123", func(c *domain.Company) error {
			c.Name = "Changed"
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("expected fn error, got %v", err)
		}
		company, _ := catalog.GetCompany(ctx, "123")
		if company.Name != "Acme" {
			t.Errorf("name changed to %q", company.Name)
		}
	})

	t.Run("rejects rename onto existing name", func(t *testing.T) {
		err := catalog.UpdateCompany(ctx, "123", func(c *domain.Company) error {
			c.Name = "Globex"
			return nil
		})
		if !errors.Is(err, domain.ErrDuplicateName) {
			t.Errorf("expected ErrDuplicateName, got %v", err)
		}
	})

	t.Run("returns not found for unknown company", func(t *testing.T) {
		err := catalog.UpdateCompany(ctx, "999", func(*domain.Company) error { return nil })
		if !errors.Is(err, domain.ErrCompanyNotFound) {
			t.Errorf("expected ErrCompanyNotFound, got %v", err)
		}
	})

	t.Run("returned companies are copies", func(t *testing.T) {
		company, _ := catalog.GetCompany(ctx, "456")
		company.Products = append(company.Products, domain.Product{Name: "Ghost"})
		stored, _ := catalog.GetCompany(ctx, "456")
		if len(stored.Products) != 0 {
			t.Error("mutating a returned company changed the catalog")
		}
	})
}

func TestCatalogFindProduct(t *testing.T) {
	ctx := context.Background()
	catalog := memory.NewCatalog()
	_ = catalog.CreateCompany(ctx, domain.Company{TaxID: "1", Name: "First"})
	_ = catalog.CreateCompany(ctx, domain.Company{TaxID: "2", Name: "Second"})

	add := func(taxID string, p domain.Product) {
		t.Helper()
		err := catalog.UpdateCompany(ctx, taxID, func(c *domain.Company) error {
			c.Products = append(c.Products, p)
			return nil
		})
		if err != nil {
			t.Fatalf("add product: %v", err)
		}
	}
	add("2", domain.Product{Name: "Shared", CompanyTaxID: "2", BasePrice: decimal.NewFromInt(20)})
	add("1", domain.Product{Name: "Shared", CompanyTaxID: "1", BasePrice: decimal.NewFromInt(10)})

	product, err := catalog.FindProduct(ctx, "Shared")
	if err != nil {
		t.Fatalf("FindProduct() error = %v", err)
	}
	if product.CompanyTaxID != "1" {
		t.Errorf("expected first company in registration order, got %s", product.CompanyTaxID)
	}

	if _, err := catalog.FindProduct(ctx, "Missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}
