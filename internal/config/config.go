package config

import "time"

// Config is the root configuration for an ingest instance.
type Config struct {
	Instance InstanceConfig `yaml:"instance"`
	Sources  SourcesConfig  `yaml:"sources"`
	Database DatabaseConfig `yaml:"database"`
	Workers  WorkersConfig  `yaml:"workers"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InstanceConfig identifies this ingest process.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// SourcesConfig holds per-source API settings.
type SourcesConfig struct {
	Dydx        SourceConfig    `yaml:"dydx"`
	Hyperliquid SourceConfig    `yaml:"hyperliquid"`
	Coinbase    SourceConfig    `yaml:"coinbase"`
	Coinalyze   CoinalyzeConfig `yaml:"coinalyze"`
	Coingecko   CoinGeckoConfig `yaml:"coingecko"`
}

// SourceConfig holds settings common to every source API.
type SourceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CoinalyzeConfig holds the aggregated-exchange source settings. Symbols
// lists the aggregator's instrument codes to poll; an empty list disables
// the source.
type CoinalyzeConfig struct {
	SourceConfig `yaml:",inline"`
	APIKey       string   `yaml:"api_key"`
	Symbols      []string `yaml:"symbols"`
}

// CoinGeckoConfig holds the derivatives-listing source settings.
type CoinGeckoConfig struct {
	SourceConfig `yaml:",inline"`
	APIKey       string `yaml:"api_key"`
	ExchangeID   string `yaml:"exchange_id"`
	PageSize     int    `yaml:"page_size"`
}

// DatabaseConfig holds the postgres connection for derivative snapshots.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WorkersConfig holds the three pipeline workers.
type WorkersConfig struct {
	Dex      WorkerConfig `yaml:"dex"`
	Cex      WorkerConfig `yaml:"cex"`
	Listings WorkerConfig `yaml:"listings"`
}

// WorkerConfig holds one worker's schedule and retry policy. MaxRetries is
// a pointer so an explicit 0 (single attempt, no retries) survives
// defaulting.
type WorkerConfig struct {
	Disabled     bool          `yaml:"disabled"`
	Interval     time.Duration `yaml:"interval"`
	Composition  string        `yaml:"composition"`
	MaxRetries   *int          `yaml:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// LoggingConfig holds structured logging settings. File is optional; when
// set, JSON logs are written there with rotation.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
