package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinlens/deriv-data/internal/backoff"
	"github.com/coinlens/deriv-data/internal/config"
	"github.com/coinlens/deriv-data/internal/database"
	"github.com/coinlens/deriv-data/internal/logging"
	"github.com/coinlens/deriv-data/internal/scheduler"
	"github.com/coinlens/deriv-data/internal/sink"
	"github.com/coinlens/deriv-data/internal/source"
	"github.com/coinlens/deriv-data/internal/version"
	"github.com/coinlens/deriv-data/internal/worker"
)

func main() {
	configPath := flag.String("config", "configs/ingestd.yaml", "path to config file")
	debug := flag.Bool("debug", false, "force debug logging")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging, *debug)

	logger.Info("starting ingestd",
		"version", version.Version,
		"commit", version.Commit,
		"instance_id", cfg.Instance.ID,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	entries := buildEntries(cfg, pool, logger, *debug)
	if len(entries) == 0 {
		logger.Error("no workers enabled, nothing to do")
		os.Exit(1)
	}

	sched := scheduler.New(entries, logger)

	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: createHealthHandler(pool, sched, cfg.Metrics.Path),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestd running",
		"workers", len(entries),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown incomplete", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("ingestd stopped")
}

// buildEntries wires enabled workers to their adapters and sinks.
func buildEntries(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger, debug bool) []scheduler.Entry {
	clientOpts := func(src config.SourceConfig, extra ...source.ClientOption) []source.ClientOption {
		opts := []source.ClientOption{
			source.WithTimeout(src.Timeout),
			source.WithLogger(logger),
		}
		if debug {
			opts = append(opts, source.WithDebug(true))
		}
		return append(opts, extra...)
	}

	var entries []scheduler.Entry

	if !cfg.Workers.Dex.Disabled {
		dydx := source.NewDydx(source.NewClient(
			cfg.Sources.Dydx.BaseURL, clientOpts(cfg.Sources.Dydx)...))
		hyperliquid := source.NewHyperliquid(source.NewClient(
			cfg.Sources.Hyperliquid.BaseURL, clientOpts(cfg.Sources.Hyperliquid)...))

		w := worker.New("dex",
			[]source.Adapter{dydx, hyperliquid},
			sink.NewUpsert(pool, logger),
			worker.WithLogger(logger),
			worker.WithComposition(worker.Composition(cfg.Workers.Dex.Composition)))
		entries = append(entries, entry(w, cfg.Workers.Dex))
	}

	if !cfg.Workers.Cex.Disabled {
		coinalyze := source.NewCoinalyze(source.NewClient(
			cfg.Sources.Coinalyze.BaseURL,
			clientOpts(cfg.Sources.Coinalyze.SourceConfig,
				source.WithAPIKey("api_key", cfg.Sources.Coinalyze.APIKey))...),
			cfg.Sources.Coinalyze.Symbols)
		coinbase := source.NewCoinbase(source.NewClient(
			cfg.Sources.Coinbase.BaseURL, clientOpts(cfg.Sources.Coinbase)...))

		w := worker.New("cex",
			[]source.Adapter{coinalyze, coinbase},
			sink.NewAppend(pool, logger),
			worker.WithLogger(logger),
			worker.WithComposition(worker.Composition(cfg.Workers.Cex.Composition)))
		entries = append(entries, entry(w, cfg.Workers.Cex))
	}

	if !cfg.Workers.Listings.Disabled {
		opts := clientOpts(cfg.Sources.Coingecko.SourceConfig)
		if cfg.Sources.Coingecko.APIKey != "" {
			opts = append(opts, source.WithAPIKey("x-cg-pro-api-key", cfg.Sources.Coingecko.APIKey))
		}
		coingecko := source.NewCoinGecko(
			source.NewClient(cfg.Sources.Coingecko.BaseURL, opts...),
			cfg.Sources.Coingecko.ExchangeID,
			cfg.Sources.Coingecko.PageSize)

		w := worker.New("listings",
			[]source.Adapter{coingecko},
			sink.NewAppend(pool, logger),
			worker.WithLogger(logger),
			worker.WithComposition(worker.Composition(cfg.Workers.Listings.Composition)))
		entries = append(entries, entry(w, cfg.Workers.Listings))
	}

	return entries
}

func entry(w *worker.Worker, cfg config.WorkerConfig) scheduler.Entry {
	return scheduler.Entry{
		Runner:   w,
		Interval: cfg.Interval,
		Retry: backoff.Config{
			MaxRetries:   *cfg.MaxRetries,
			InitialDelay: cfg.InitialDelay,
			MaxDelay:     cfg.MaxDelay,
			Factor:       2,
		},
	}
}

// createHealthHandler serves liveness plus per-worker stats, and the
// Prometheus metrics endpoint.
func createHealthHandler(pool *pgxpool.Pool, sched *scheduler.Scheduler, metricsPath string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		// Per-worker cycle stats
		stats := sched.Stats()
		health.Components["workers"] = stats
		for _, st := range stats {
			if st.Cycles > 0 && st.LastSuccess.IsZero() {
				health.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
