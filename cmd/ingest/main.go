package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/coinlens/deriv-data/internal/backoff"
	"github.com/coinlens/deriv-data/internal/config"
	"github.com/coinlens/deriv-data/internal/database"
	"github.com/coinlens/deriv-data/internal/logging"
	"github.com/coinlens/deriv-data/internal/sink"
	"github.com/coinlens/deriv-data/internal/source"
	"github.com/coinlens/deriv-data/internal/version"
	"github.com/coinlens/deriv-data/internal/worker"
)

// ingest runs a single worker cycle and exits. Useful for cron-style
// deployments and for inspecting adapter output with -dry-run.
func main() {
	configPath := flag.String("config", "configs/ingestd.yaml", "path to config file")
	workerName := flag.String("worker", "dex", "worker to run: dex, cex or listings")
	dryRun := flag.Bool("dry-run", false, "log rows instead of writing to the database")
	debug := flag.Bool("debug", false, "force debug logging")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging, *debug)
	logger.Info("running one-shot ingest",
		"version", version.Version,
		"worker", *workerName,
		"dry_run", *dryRun,
	)

	ctx := context.Background()

	var out sink.Sink
	if *dryRun {
		out = sink.NewDryRun(logger)
	} else {
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if *workerName == "dex" {
			out = sink.NewUpsert(pool, logger)
		} else {
			out = sink.NewAppend(pool, logger)
		}
	}

	w, retry, err := buildWorker(cfg, *workerName, out, logger, *debug)
	if err != nil {
		logger.Error("cannot build worker", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	written, err := backoff.Do(ctx, retry, func(ctx context.Context) (int, error) {
		return w.Run(ctx)
	})
	if err != nil {
		logger.Error("ingest failed", "worker", *workerName, "error", err)
		os.Exit(1)
	}

	logger.Info("ingest complete",
		"worker", *workerName,
		"rows", written,
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

func buildWorker(cfg *config.Config, name string, out sink.Sink, logger *slog.Logger, debug bool) (*worker.Worker, backoff.Config, error) {
	newClient := func(src config.SourceConfig, extra ...source.ClientOption) *source.Client {
		opts := []source.ClientOption{
			source.WithTimeout(src.Timeout),
			source.WithLogger(logger),
			source.WithDebug(debug),
		}
		return source.NewClient(src.BaseURL, append(opts, extra...)...)
	}

	var adapters []source.Adapter
	var wc config.WorkerConfig

	switch name {
	case "dex":
		wc = cfg.Workers.Dex
		adapters = []source.Adapter{
			source.NewDydx(newClient(cfg.Sources.Dydx)),
			source.NewHyperliquid(newClient(cfg.Sources.Hyperliquid)),
		}
	case "cex":
		wc = cfg.Workers.Cex
		adapters = []source.Adapter{
			source.NewCoinalyze(
				newClient(cfg.Sources.Coinalyze.SourceConfig,
					source.WithAPIKey("api_key", cfg.Sources.Coinalyze.APIKey)),
				cfg.Sources.Coinalyze.Symbols),
			source.NewCoinbase(newClient(cfg.Sources.Coinbase)),
		}
	case "listings":
		wc = cfg.Workers.Listings
		var extra []source.ClientOption
		if cfg.Sources.Coingecko.APIKey != "" {
			extra = append(extra, source.WithAPIKey("x-cg-pro-api-key", cfg.Sources.Coingecko.APIKey))
		}
		adapters = []source.Adapter{
			source.NewCoinGecko(
				newClient(cfg.Sources.Coingecko.SourceConfig, extra...),
				cfg.Sources.Coingecko.ExchangeID,
				cfg.Sources.Coingecko.PageSize),
		}
	default:
		return nil, backoff.Config{}, fmt.Errorf("unknown worker %q", name)
	}

	w := worker.New(name, adapters, out,
		worker.WithLogger(logger),
		worker.WithComposition(worker.Composition(wc.Composition)))

	retry := backoff.Config{
		MaxRetries:   *wc.MaxRetries,
		InitialDelay: wc.InitialDelay,
		MaxDelay:     wc.MaxDelay,
		Factor:       2,
	}
	return w, retry, nil
}
