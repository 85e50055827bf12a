package adapters_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dejobratic/gamestore/internal/events"
	"github.com/dejobratic/gamestore/internal/storage"
	"github.com/dejobratic/gamestore/internal/store/adapters"
	"github.com/dejobratic/gamestore/internal/store/adapters/memory"
	"github.com/dejobratic/gamestore/internal/store/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func setupTracing(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(noop.NewTracerProvider())
	})
	return exporter
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestObservableRepositories(t *testing.T) {
	ctx := context.Background()

	newMetrics := func(t *testing.T) (*storage.Metrics, *sdkmetric.ManualReader) {
		t.Helper()
		reader := sdkmetric.NewManualReader()
		m, err := storage.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
		if err != nil {
			t.Fatalf("NewMetrics() failed: %v", err)
		}
		return m, reader
	}

	t.Run("catalog calls pass through with spans", func(t *testing.T) {
		exporter := setupTracing(t)
		m, reader := newMetrics(t)
		catalog := adapters.NewObservableCatalog(memory.NewCatalog(), m)

		if err := catalog.CreateCompany(ctx, domain.Company{TaxID: "t1", Name: "Acme"}); err != nil {
			t.Fatalf("CreateCompany() failed: %v", err)
		}
		company, err := catalog.GetCompany(ctx, "t1")
		if err != nil || company.Name != "Acme" {
			t.Fatalf("GetCompany() = %+v, %v", company, err)
		}
		if _, err := catalog.GetCompany(ctx, "missing"); !errors.Is(err, domain.ErrCompanyNotFound) {
			t.Errorf("expected ErrCompanyNotFound, got: %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 3 {
			t.Fatalf("expected 3 spans, got %d", len(spans))
		}
		if spans[0].Name != "CatalogRepository.CreateCompany" {
			t.Errorf("unexpected span name %q", spans[0].Name)
		}
		if spans[2].Status.Code != codes.Error {
			t.Errorf("expected failed lookup to mark span as error, got %v", spans[2].Status.Code)
		}

		metric, ok := findMetric(collect(t, reader), "storage_operation_duration_seconds")
		if !ok {
			t.Fatal("storage_operation_duration_seconds metric not found")
		}
		histogram := metric.Data.(metricdata.Histogram[float64])
		var total uint64
		for _, dp := range histogram.DataPoints {
			total += dp.Count
		}
		if total != 3 {
			t.Errorf("expected 3 recorded operations, got %d", total)
		}
	})

	t.Run("customer updates keep their atomicity", func(t *testing.T) {
		setupTracing(t)
		m, _ := newMetrics(t)
		customers := adapters.NewObservableCustomers(memory.NewCustomers(), m)

		if err := customers.Create(ctx, domain.Customer{ID: "c1", Name: "Ana", Age: 30}); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		err := customers.Update(ctx, "c1", func(c *domain.Customer) error {
			c.Balance = decimal.NewFromInt(10)
			return domain.ErrInsufficientBalance
		})
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			t.Fatalf("expected ErrInsufficientBalance, got: %v", err)
		}

		c, _ := customers.Get(ctx, "c1")
		if !c.Balance.IsZero() {
			t.Errorf("expected failed update to leave balance at zero, got %s", c.Balance)
		}
	})

	t.Run("ledger report reflects appended transactions", func(t *testing.T) {
		setupTracing(t)
		m, _ := newMetrics(t)
		ledger := adapters.NewObservableLedger(memory.NewLedger(), m)

		price := decimal.NewFromInt(117)
		tx := domain.NewTransaction(domain.Customer{ID: "c1", Name: "Ana"}, "Star Quest", domain.KindPurchase, price, price, decimal.RequireFromString("35.1"))
		if err := ledger.Append(ctx, tx); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}

		report, err := ledger.Report(ctx)
		if err != nil {
			t.Fatalf("Report() failed: %v", err)
		}
		if !report.Revenue.Equal(price) {
			t.Errorf("expected revenue 117, got %s", report.Revenue)
		}

		history, err := ledger.ListByCustomer(ctx, "c1")
		if err != nil || len(history) != 1 {
			t.Errorf("expected one history entry, got %d (%v)", len(history), err)
		}
	})
}

type failingBus struct{ err error }

func (b failingBus) PublishProductPurchased(context.Context, domain.Transaction) error { return b.err }
func (b failingBus) PublishProductRefunded(context.Context, domain.Transaction) error  { return b.err }

func TestObservableEventBus(t *testing.T) {
	exporter := setupTracing(t)
	reader := sdkmetric.NewManualReader()
	m, err := events.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}

	busErr := errors.New("bus down")
	bus := adapters.NewObservableEventBus(failingBus{err: busErr}, m)

	tx := domain.NewTransaction(domain.Customer{ID: "c1"}, "Star Quest", domain.KindRefund, decimal.NewFromInt(-1), decimal.NewFromInt(-1), decimal.Zero)
	if err := bus.PublishProductRefunded(context.Background(), tx); !errors.Is(err, busErr) {
		t.Fatalf("expected bus error, got: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "EventBus.Publish" || spans[0].Status.Code != codes.Error {
		t.Fatalf("expected one failed EventBus.Publish span, got %+v", spans)
	}

	if _, ok := findMetric(collect(t, reader), "store_events_published_total"); !ok {
		t.Error("store_events_published_total metric not found")
	}
}
