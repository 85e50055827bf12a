package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dejobratic/gamestore/internal/config"
	"github.com/dejobratic/gamestore/internal/console"
	"github.com/dejobratic/gamestore/internal/events"
	"github.com/dejobratic/gamestore/internal/storage"
	"github.com/dejobratic/gamestore/internal/store/adapters"
	"github.com/dejobratic/gamestore/internal/store/adapters/memory"
	"github.com/dejobratic/gamestore/internal/store/app"
	"github.com/dejobratic/gamestore/internal/store/metrics"
	"github.com/dejobratic/gamestore/internal/telemetry"
	"github.com/urfave/cli/v2"
)

const shutdownGrace = 5 * time.Second

func main() {
	cliApp := &cli.App{
		Name:  "storefront",
		Usage: "interactive game store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "script",
				Aliases: []string{"f"},
				Usage:   "read commands from `FILE` instead of standard input",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Logs go to stderr so they never interleave with command output.
	logger := telemetry.NewLogger(os.Stderr, cfg.Telemetry.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cCtx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := telemetry.Meter()

	storageMetrics, err := storage.NewMetrics(meter)
	if err != nil {
		return err
	}
	eventMetrics, err := events.NewMetrics(meter)
	if err != nil {
		return err
	}
	storeMetrics, err := metrics.NewMetrics(meter)
	if err != nil {
		return err
	}

	catalog := adapters.NewObservableCatalog(memory.NewCatalog(), storageMetrics)
	customers := adapters.NewObservableCustomers(memory.NewCustomers(), storageMetrics)
	ledger := adapters.NewObservableLedger(memory.NewLedger(), storageMetrics)
	bus := adapters.NewObservableEventBus(events.NewLogBus(logger), eventMetrics)

	service := app.NewService(catalog, customers, ledger, bus, logger, storeMetrics, app.Options{
		PromotionPolicy:    cfg.Store.PromotionPolicy,
		RefundProfitPolicy: cfg.Store.RefundProfitPolicy,
	})

	input, closeInput, err := openInput(cCtx.String("script"))
	if err != nil {
		return err
	}
	defer closeInput()

	logger.Info("storefront started",
		"service", cfg.Service.Name,
		"version", cfg.Service.Version,
		"promotion_policy", cfg.Store.PromotionPolicy,
		"refund_profit_policy", cfg.Store.RefundProfitPolicy,
	)

	// The console blocks on reads, so a signal must be able to end the
	// session without waiting for the next line.
	done := make(chan error, 1)
	go func() {
		done <- console.New(service, os.Stdout, logger).Run(ctx, input)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = nil
	}

	logger.Info("storefront stopped")
	return err
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open script: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
