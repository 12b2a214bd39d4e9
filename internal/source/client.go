package source

import (
	"log/slog"
	"net/http"
	"time"
)

// Client is the HTTP client shared by all adapters. Authentication, where a
// venue requires it, is a static API-key header. The client never retries;
// a failed call surfaces as *SourceUnavailable for the backoff executor to
// handle at the worker level.
type Client struct {
	baseURL      string
	apiKeyHeader string
	apiKey       string
	httpClient   *http.Client
	logger       *slog.Logger
	debug        bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout. This bounds each attempt's
// duration; the retry schedule only bounds attempt count and spacing.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithAPIKey sets a static API-key header sent on every request.
func WithAPIKey(header, key string) ClientOption {
	return func(c *Client) {
		c.apiKeyHeader = header
		c.apiKey = key
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithDebug enables logging of raw response payloads at debug level.
func WithDebug(on bool) ClientOption {
	return func(c *Client) {
		c.debug = on
	}
}
