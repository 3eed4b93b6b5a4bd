// Package artic provides the HTTP client for the Art Institute of Chicago
// public collection API with caching, metrics, and error classification.
package artic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/artbrowse/artic-browser/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for artworks API operations.
var (
	articRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_requests_total",
		Help: "Total artworks API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	articRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artic_request_duration_seconds",
		Help:    "Artworks API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	articErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artic_errors_total",
		Help: "Total artworks API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public artworks API root.
const DefaultBaseURL = "https://api.artic.edu/api/v1"

// Fields is the fixed field projection requested for every artworks page.
const Fields = "id,title,place_of_origin,artist_display,inscriptions,date_start,date_end"

// Client is the artworks API client.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the artworks API (default: DefaultBaseURL)
	BaseURL string

	// User-Agent header sent with every request
	UserAgent string

	// Cache is the optional response cache (nil disables caching)
	Cache *cache.Manager

	// Timeout per HTTP request
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new artworks API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "artic-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logger,
	}, nil
}

// FetchArtworks fetches exactly one page of artwork records with the fixed
// field projection. The page index is 0-based; the remote API is 1-indexed.
// There is no retry: any failure is returned to the caller as-is.
func (c *Client) FetchArtworks(ctx context.Context, page, limit int) (*ArtworksPage, error) {
	if page < 0 {
		return nil, ErrInvalidPage
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page+1))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("fields", Fields)

	body, err := c.get(ctx, "/artworks", query)
	if err != nil {
		return nil, err
	}

	var result ArtworksPage
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode artworks page: %w", err)
	}

	c.logger.Debug().
		Int("page", page).
		Int("limit", limit).
		Int("records", len(result.Data)).
		Int("total", result.Pagination.Total).
		Msg("Fetched artworks page")

	return &result, nil
}

// get performs a GET request with caching and error classification.
// Returns the response body on 200, or the cached body on 304.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		articRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Check cache and prepare a conditional request on a hit
	cacheKey := cache.Key{
		Endpoint:    endpoint,
		QueryParams: query,
	}

	var cachedEntry *cache.Entry
	if c.cache != nil {
		cachedEntry, err = c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}

		if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
			cache.AddConditionalHeaders(req, cachedEntry)
			cache.ConditionalRequestsSent.Inc()
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("etag", cachedEntry.ETag).
				Msg("Making conditional request")
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		articErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		articRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	// 304 Not Modified: serve the cached body
	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		articRequestsTotal.WithLabelValues(endpoint, "304").Inc()
		cache.NotModifiedResponses.Inc()
		return cachedEntry.Data, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := c.classifyStatus(resp.StatusCode)
		articErrorsTotal.WithLabelValues(string(errClass)).Inc()
		articRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Artworks API request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		articErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	articRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	// Update cache on success
	if c.cache != nil && resp.StatusCode == http.StatusOK {
		entry := cache.NewEntry(body, resp)
		if entry.TTL() > 0 {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				c.logger.Debug().
					Str("endpoint", endpoint).
					Dur("ttl", entry.TTL()).
					Msg("Cached response")
			}
		}
	}

	return body, nil
}

// classifyStatus categorizes a non-success HTTP status for observability.
func (c *Client) classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassNetwork
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
