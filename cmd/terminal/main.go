package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/khajaghar/pos-terminal/api/routes"
	"github.com/khajaghar/pos-terminal/internal/drafts"
	"github.com/khajaghar/pos-terminal/internal/invoices"
	"github.com/khajaghar/pos-terminal/internal/payments"
	"github.com/khajaghar/pos-terminal/pkg/config"
	"github.com/khajaghar/pos-terminal/pkg/db"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/metrics"
	"github.com/khajaghar/pos-terminal/pkg/posapi"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open draft store", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing draft store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	terminalMetrics := metrics.NewTerminalMetrics(registry)

	backend, err := posapi.NewClient(cfg.API, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice backend client", err)
		os.Exit(1)
	}

	draftService, err := drafts.NewService(drafts.NewRepository(dbClient.DB()), logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	invoiceService, err := invoices.NewService(backend, draftService, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice service", err)
		os.Exit(1)
	}

	paymentService, err := payments.NewService(backend, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment service", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"terminal": cfg.Terminal.ID,
		"branch":   cfg.Terminal.BranchID,
	})
	logg.Info(ctx, "starting terminal server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, backend, draftService, invoiceService, paymentService, registry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "terminal server stopped unexpectedly", err)
		os.Exit(1)
	}
}
