package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}

	if err := c.Workers.Dex.validate("workers.dex"); err != nil {
		return err
	}
	if err := c.Workers.Cex.validate("workers.cex"); err != nil {
		return err
	}
	if err := c.Workers.Listings.validate("workers.listings"); err != nil {
		return err
	}

	if !c.Workers.Cex.Disabled {
		if c.Sources.Coinalyze.APIKey == "" {
			return errors.New("sources.coinalyze.api_key is required when workers.cex is enabled")
		}
		if len(c.Sources.Coinalyze.Symbols) == 0 {
			return errors.New("sources.coinalyze.symbols is required when workers.cex is enabled")
		}
	}
	if !c.Workers.Listings.Disabled && c.Sources.Coingecko.ExchangeID == "" {
		return errors.New("sources.coingecko.exchange_id is required when workers.listings is enabled")
	}
	if c.Sources.Coingecko.PageSize < 1 {
		return errors.New("sources.coingecko.page_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (w *WorkerConfig) validate(prefix string) error {
	if w.Interval < time.Second {
		return fmt.Errorf("%s.interval must be >= 1s, got %s", prefix, w.Interval)
	}
	if w.Composition != "isolate" && w.Composition != "all" {
		return fmt.Errorf("%s.composition must be \"isolate\" or \"all\", got %q", prefix, w.Composition)
	}
	if w.MaxRetries != nil && *w.MaxRetries < 0 {
		return fmt.Errorf("%s.max_retries must be >= 0", prefix)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
