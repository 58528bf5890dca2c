// Command lendingd runs the lending engine as a long-lived process: it wires
// the configured document store, event publisher, and observability, and
// serves health and metrics endpoints. Business operations stay library-only;
// the embedding application mounts its own surface on top of package engine.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wingcash/lending-engine/engine"
	"github.com/wingcash/lending-engine/internal/domain/port"
	"github.com/wingcash/lending-engine/internal/infrastructure/config"
	"github.com/wingcash/lending-engine/internal/infrastructure/messaging"
	"github.com/wingcash/lending-engine/internal/infrastructure/persistence/memory"
	postgresstore "github.com/wingcash/lending-engine/internal/infrastructure/persistence/postgres"
	redisstore "github.com/wingcash/lending-engine/internal/infrastructure/persistence/redis"
	"github.com/wingcash/lending-engine/internal/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		observability.InitLogger(observability.LogConfig{}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting lending-engine",
		"http_port", cfg.HTTPPort,
		"store_backend", cfg.Store.Backend,
	)

	registry := prometheus.NewRegistry()
	storeMetrics := observability.NewStoreMetrics(registry)

	// Document store.
	var store port.AccountDocumentRepository
	switch cfg.Store.Backend {
	case "redis":
		rs := redisstore.NewDocumentStore(cfg.Store.RedisAddr)
		defer rs.Close()
		store = rs
	case "postgres":
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		pool, poolErr := pgxpool.New(dbCtx, cfg.PostgresDSN())
		if poolErr != nil {
			logger.Error("failed to connect to database", "error", poolErr)
			os.Exit(1)
		}
		defer pool.Close()

		ps := postgresstore.NewDocumentStore(pool)
		if err := ps.EnsureSchema(dbCtx); err != nil {
			logger.Error("failed to prepare database schema", "error", err)
			os.Exit(1)
		}
		store = ps
	default:
		store = memory.NewDocumentStore()
	}
	store = observability.NewInstrumentedStore(store, storeMetrics)

	// Event publisher.
	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := messaging.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		publisher = kp
	} else {
		publisher = messaging.NewLogEventPublisher(logger)
	}

	tiers, err := cfg.RateTiers()
	if err != nil {
		logger.Error("invalid rate tier configuration", "error", err)
		os.Exit(1)
	}

	eng, err := engine.New(engine.Options{
		Repository:     store,
		Publisher:      publisher,
		RateTiers:      tiers,
		InstallmentFee: cfg.InstallmentFee(),
		Logger:         logger,
	})
	if err != nil {
		logger.Error("failed to initialise engine", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := eng.Ready(r.Context()); err != nil {
			logger.Warn("readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("HTTP server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lending-engine stopped")
}
