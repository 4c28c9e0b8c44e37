// Package client provides the shared HTTP transport for the University of
// Oregon Banner APIs: subscription-key auth, error classification, JSON
// decoding with required-field validation, and request metrics.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Banner API operations.
var (
	bannerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banner_requests_total",
		Help: "Total Banner API requests by route and status",
	}, []string{"route", "status"})

	bannerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "banner_request_duration_seconds",
		Help:    "Banner API request duration in seconds by route",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"route"})

	bannerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "banner_errors_total",
		Help: "Total Banner API errors by kind",
	}, []string{"kind"})
)

const (
	// DefaultBaseURL is the production API gateway.
	DefaultBaseURL = "https://api.uoregon.edu"

	// APIKeyHeader carries the subscription key on every request.
	APIKeyHeader = "Ocp-Apim-Subscription-Key"

	// maxErrorBody bounds how much of an error response ends up in messages.
	maxErrorBody = 256
)

// Client is the Banner API client.
type Client struct {
	httpClient *http.Client
	validate   *validator.Validate
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is sent as the Ocp-Apim-Subscription-Key header (REQUIRED).
	APIKey string

	// BaseURL is the API gateway root, without trailing slash.
	BaseURL string

	// Timeout per request. Zero means no timeout.
	Timeout time.Duration

	// UserAgent header, optional.
	UserAgent string
}

// DefaultConfig returns the production configuration for the given key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
	}
}

// New creates a new Banner API client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &Error{Kind: ErrorKindConfiguration, Err: ErrMissingAPIKey}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout < 0 {
		return nil, &Error{
			Kind: ErrorKindConfiguration,
			Err:  fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout),
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		validate: validator.New(),
		config:   cfg,
		logger:   log.With().Str("component", "banner-client").Logger(),
	}, nil
}

// GetJSON performs a GET request against path and decodes the body into out.
// route is a low-cardinality name used for logs and metrics ("roster", "duckid").
// out must be a pointer to a struct; `validate` tags on it are enforced after decoding.
func (c *Client) GetJSON(ctx context.Context, route, path string, out any) error {
	startTime := time.Now()
	defer func() {
		bannerRequestDuration.WithLabelValues(route).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return c.fail(route, 0, ErrorKindNetwork, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set(APIKeyHeader, c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug().
		Str("route", route).
		Str("path", path).
		Msg("Executing Banner request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("route", route).Msg("HTTP request failed")
		bannerRequestsTotal.WithLabelValues(route, "network_error").Inc()
		return c.fail(route, 0, ErrorKindNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		bannerRequestsTotal.WithLabelValues(route, "network_error").Inc()
		return c.fail(route, resp.StatusCode, ErrorKindNetwork, fmt.Errorf("read response body: %w", err))
	}

	bannerRequestsTotal.WithLabelValues(route, strconv.Itoa(resp.StatusCode)).Inc()

	if class := classifyStatus(resp.StatusCode); class != "" {
		c.logger.Warn().
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("status_class", string(class)).
			Msg("Banner request error")
		return c.fail(route, resp.StatusCode, ErrorKindStatus,
			fmt.Errorf("%s: %s", resp.Status, truncate(body, maxErrorBody)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(route, 0, ErrorKindDeserialization, fmt.Errorf("decode body: %w", err))
	}
	if err := c.validate.Struct(out); err != nil {
		return c.fail(route, 0, ErrorKindDeserialization, fmt.Errorf("validate body: %w", err))
	}

	c.logger.Debug().
		Str("route", route).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Banner request complete")

	return nil
}

// fail records the error metric and builds the returned error.
func (c *Client) fail(route string, statusCode int, kind ErrorKind, err error) error {
	bannerErrorsTotal.WithLabelValues(string(kind)).Inc()
	return &Error{
		Kind:       kind,
		Route:      route,
		StatusCode: statusCode,
		Err:        err,
	}
}

func truncate(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}
