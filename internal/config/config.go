package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dejobratic/gamestore/internal/pricing"
	"github.com/dejobratic/gamestore/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config captures runtime configuration for the storefront.
type Config struct {
	Telemetry TelemetryConfig
	Service   ServiceConfig
	Store     StoreConfig
}

type TelemetryConfig struct {
	LogLevel      slog.Level
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

// StoreConfig holds the business policies the store runs with.
type StoreConfig struct {
	PromotionPolicy    pricing.PromotionPolicy
	RefundProfitPolicy pricing.RefundProfitPolicy
}

const (
	defaultServiceName        = "gamestore"
	defaultServiceVersion     = "0.1.0"
	defaultEnvironment        = "development"
	defaultLogLevel           = "info"
	defaultOTelSampleRate     = 1.0
	defaultPromotionPolicy    = string(pricing.PolicyStrict)
	defaultRefundProfitPolicy = string(pricing.RefundBaseMargin)
)

// Load reads an optional .env file and then the process environment,
// applying defaults where a key is unset. Malformed values are errors.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	telCfg, err := loadTelemetryConfig(k)
	if err != nil {
		return nil, fmt.Errorf("loading telemetry config: %w", err)
	}

	storeCfg, err := loadStoreConfig(k)
	if err != nil {
		return nil, fmt.Errorf("loading store config: %w", err)
	}

	return &Config{
		Telemetry: telCfg,
		Service:   loadServiceConfig(k),
		Store:     storeCfg,
	}, nil
}

func loadTelemetryConfig(k *koanf.Koanf) (TelemetryConfig, error) {
	level, err := telemetry.ParseLevel(valueOrDefault(k, "LOG_LEVEL", defaultLogLevel))
	if err != nil {
		return TelemetryConfig{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	enableTracing, err := parseBool(k, "OTEL_ENABLE_TRACING", false)
	if err != nil {
		return TelemetryConfig{}, err
	}

	enableMetrics, err := parseBool(k, "OTEL_ENABLE_METRICS", false)
	if err != nil {
		return TelemetryConfig{}, err
	}

	sampleRate := defaultOTelSampleRate
	if value := strings.TrimSpace(k.String("OTEL_SAMPLE_RATE")); value != "" {
		sampleRate, err = strconv.ParseFloat(value, 64)
		if err != nil {
			return TelemetryConfig{}, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
		}
	}

	return TelemetryConfig{
		LogLevel:      level,
		OTelEndpoint:  strings.TrimSpace(k.String("OTEL_EXPORTER_OTLP_ENDPOINT")),
		EnableTracing: enableTracing,
		EnableMetrics: enableMetrics,
		SampleRate:    sampleRate,
	}, nil
}

func loadServiceConfig(k *koanf.Koanf) ServiceConfig {
	return ServiceConfig{
		Name:        valueOrDefault(k, "STORE_SERVICE_NAME", defaultServiceName),
		Version:     valueOrDefault(k, "SERVICE_VERSION", defaultServiceVersion),
		Environment: valueOrDefault(k, "ENVIRONMENT", defaultEnvironment),
	}
}

func loadStoreConfig(k *koanf.Koanf) (StoreConfig, error) {
	promotion, err := pricing.ParsePromotionPolicy(valueOrDefault(k, "STORE_PROMOTION_POLICY", defaultPromotionPolicy))
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid STORE_PROMOTION_POLICY: %w", err)
	}

	refund, err := pricing.ParseRefundProfitPolicy(valueOrDefault(k, "STORE_REFUND_PROFIT_POLICY", defaultRefundProfitPolicy))
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid STORE_REFUND_PROFIT_POLICY: %w", err)
	}

	return StoreConfig{
		PromotionPolicy:    promotion,
		RefundProfitPolicy: refund,
	}, nil
}

func valueOrDefault(k *koanf.Koanf, key, fallback string) string {
	if value := strings.TrimSpace(k.String(key)); value != "" {
		return value
	}
	return fallback
}

func parseBool(k *koanf.Koanf, key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(k.String(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
