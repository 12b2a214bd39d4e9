package database

import (
	"fmt"
	"net/url"

	"github.com/coinlens/deriv-data/internal/config"
)

// BuildConnString builds a PostgreSQL connection URL from config. The
// password is URL-encoded so special characters survive; ssl_mode is
// guaranteed non-empty by config defaulting.
func BuildConnString(cfg config.DBConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.SSLMode,
	)
}
