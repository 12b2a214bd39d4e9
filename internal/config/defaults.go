package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDydxURL          = "https://indexer.dydx.trade"
	DefaultHyperliquidURL   = "https://api.hyperliquid.xyz"
	DefaultCoinbaseURL      = "https://api.exchange.coinbase.com"
	DefaultCoinalyzeURL     = "https://api.coinalyze.net"
	DefaultCoinGeckoURL     = "https://api.coingecko.com/api/v3"
	DefaultSourceTimeout    = 30 * time.Second
	DefaultPageSize         = 100
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
	DefaultInterval         = 5 * time.Minute
	DefaultListingsInterval = 15 * time.Minute
	DefaultComposition      = "isolate"
	DefaultMaxRetries       = 5
	DefaultInitialDelay     = 1 * time.Second
	DefaultMaxDelay         = 60 * time.Second
	DefaultLogLevel         = "info"
	DefaultLogMaxSizeMB     = 100
	DefaultLogMaxBackups    = 5
	DefaultMetricsPort      = 8080
	DefaultMetricsPath      = "/metrics"
)

func (c *Config) applyDefaults() {
	// Source defaults
	applySourceDefaults(&c.Sources.Dydx, DefaultDydxURL)
	applySourceDefaults(&c.Sources.Hyperliquid, DefaultHyperliquidURL)
	applySourceDefaults(&c.Sources.Coinbase, DefaultCoinbaseURL)
	applySourceDefaults(&c.Sources.Coinalyze.SourceConfig, DefaultCoinalyzeURL)
	applySourceDefaults(&c.Sources.Coingecko.SourceConfig, DefaultCoinGeckoURL)
	if c.Sources.Coingecko.PageSize == 0 {
		c.Sources.Coingecko.PageSize = DefaultPageSize
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Worker defaults
	applyWorkerDefaults(&c.Workers.Dex, DefaultInterval)
	applyWorkerDefaults(&c.Workers.Cex, DefaultInterval)
	applyWorkerDefaults(&c.Workers.Listings, DefaultListingsInterval)

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = DefaultLogMaxBackups
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applySourceDefaults(src *SourceConfig, baseURL string) {
	if src.BaseURL == "" {
		src.BaseURL = baseURL
	}
	if src.Timeout == 0 {
		src.Timeout = DefaultSourceTimeout
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func applyWorkerDefaults(w *WorkerConfig, interval time.Duration) {
	if w.Interval == 0 {
		w.Interval = interval
	}
	if w.Composition == "" {
		w.Composition = DefaultComposition
	}
	if w.MaxRetries == nil {
		retries := DefaultMaxRetries
		w.MaxRetries = &retries
	}
	if w.InitialDelay == 0 {
		w.InitialDelay = DefaultInitialDelay
	}
	if w.MaxDelay == 0 {
		w.MaxDelay = DefaultMaxDelay
	}
}
