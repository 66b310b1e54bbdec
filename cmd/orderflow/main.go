// Package main is the entry point for the orderflow reporting server.
// It waits for PostgreSQL, runs migrations, connects to Valkey when
// available, sets up routing, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderflow/internal/cache"
	"orderflow/internal/config"
	"orderflow/internal/database"
	"orderflow/internal/handlers"
	"orderflow/internal/middleware"
	"orderflow/internal/reports"
	"orderflow/internal/router"
	"orderflow/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables (and .env in dev).
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Block until PostgreSQL accepts TCP connections. The database often
	// starts alongside this process; a shutdown signal during the wait
	// exits cleanly instead of looping forever.
	waitCtx, stopWait := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = database.WaitForReady(waitCtx, cfg.DBAddr(), cfg.DBWaitInterval)
	stopWait()
	if err != nil {
		slog.Error("database never became ready", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations. A failed migration is fatal: serving reports
	// against a half-migrated schema would return wrong numbers.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for report snapshots. The cache is optional: when
	// Valkey is unreachable every report read computes live from PostgreSQL.
	var snapshots *cache.ReportCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable — serving reports without snapshots", "error", err)
	} else {
		defer valkeyClient.Close()
		snapshots = cache.NewReportCache(valkeyClient, cache.DefaultReportTTL)
	}

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	clientStore := store.NewClientStore(db)
	nomenclatureStore := store.NewNomenclatureStore(db)
	orderStore := store.NewOrderStore(db)
	reportStore := store.NewReportStore(db)

	// The reports service owns the trailing window, the top-N limit, and
	// the snapshot lifecycle.
	reportService := reports.NewService(reportStore, categoryStore, snapshots, cfg.TopProductsLimit, cfg.ReportWindowMonths)

	// Schedule periodic snapshot refreshes (no-op without a cache).
	refreshCron, err := reportService.ScheduleRefresh(cfg.ReportRefreshSpec)
	if err != nil {
		slog.Error("failed to schedule report refresh", "error", err)
		os.Exit(1)
	}

	// Rate limit the aggregate report queries per client IP.
	reportLimiter := middleware.NewRateLimiter(60, time.Minute)

	// Create handler groups with their dependencies.
	reportHandlers := handlers.NewReports(reportService)
	orderHandlers := handlers.NewOrders(orderStore, clientStore)
	catalogHandlers := handlers.NewCatalog(categoryStore, clientStore, nomenclatureStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(reportLimiter, reportHandlers, orderHandlers, catalogHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	if refreshCron != nil {
		refreshCron.Stop()
	}
	reportLimiter.Stop()

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
