package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid config", func(*Config) {}, nil},
		{"missing service name", func(c *Config) { c.ServiceName = "" }, ErrMissingServiceName},
		{"missing service version", func(c *Config) { c.ServiceVersion = "" }, ErrMissingServiceVersion},
		{"negative sample rate", func(c *Config) { c.SampleRate = -0.1 }, ErrInvalidSampleRate},
		{"sample rate above one", func(c *Config) { c.SampleRate = 1.1 }, ErrInvalidSampleRate},
		{"sample rate zero", func(c *Config) { c.SampleRate = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v wrapped in ErrInvalidConfig, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	shutdown := func(t *testing.T, tel *Telemetry) {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			t.Errorf("shutdown failed: %v", err)
		}
	}

	t.Run("returns error when config is invalid", func(t *testing.T) {
		cfg := testConfig()
		cfg.ServiceName = ""
		if _, err := Initialize(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("installs nothing when both signals are disabled", func(t *testing.T) {
		tel, err := Initialize(context.Background(), testConfig())
		if err != nil {
			t.Fatalf("Initialize() error = %v", err)
		}
		if tel.TracerProvider() != nil || tel.MeterProvider() != nil {
			t.Error("expected no providers")
		}
		shutdown(t, tel)
	})

	t.Run("traces without an endpoint", func(t *testing.T) {
		cfg := testConfig()
		cfg.EnableTracing = true

		tel, err := Initialize(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Initialize() error = %v", err)
		}
		defer shutdown(t, tel)

		if tel.TracerProvider() == nil {
			t.Fatal("expected tracer provider")
		}
		ctx, span := StartSpan(context.Background(), "probe")
		defer span.End()
		if TraceID(ctx) == "" {
			t.Error("expected spans to carry a trace ID")
		}
	})

	t.Run("store meter reports through the installed provider", func(t *testing.T) {
		cfg := testConfig()
		cfg.EnableMetrics = true
		reader := sdkmetric.NewManualReader()

		tel, err := Initialize(context.Background(), cfg, WithMetricReader(reader))
		if err != nil {
			t.Fatalf("Initialize() error = %v", err)
		}
		defer shutdown(t, tel)

		counter, err := Meter().Int64Counter("probe_total")
		if err != nil {
			t.Fatalf("create counter: %v", err)
		}
		counter.Add(context.Background(), 3)

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			t.Fatalf("collect: %v", err)
		}
		found := false
		for _, sm := range rm.ScopeMetrics {
			for _, m := range sm.Metrics {
				if m.Name == "probe_total" {
					found = true
				}
			}
		}
		if !found {
			t.Error("probe_total metric not found")
		}
	})
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{-1, "AlwaysOffSampler"},
		{0, "AlwaysOffSampler"},
		{1, "AlwaysOnSampler"},
		{2, "AlwaysOnSampler"},
	}
	for _, tt := range tests {
		if got := createSampler(tt.rate).Description(); got != tt.want {
			t.Errorf("createSampler(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
	if createSampler(0.5) == nil {
		t.Error("expected ratio sampler")
	}
}
