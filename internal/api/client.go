package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/models"
)

// Client talks to an MCP server over its two HTTP endpoints
type Client struct {
	httpClient     tls_client.HttpClient
	baseURL        string
	probeTimeout   time.Duration
	requestTimeout time.Duration
	logger         *zap.Logger
	mu             sync.RWMutex
	closed         bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the TLS client, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithProbeTimeout bounds a single reachability probe
func WithProbeTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.probeTimeout = d
		}
	}
}

// WithRequestTimeout bounds a single messages round-trip
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the MCP server rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}

	client := &Client{
		baseURL:        baseURL,
		probeTimeout:   5 * time.Second,
		requestTimeout: 60 * time.Second,
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Probes close the body as soon as headers arrive, so the client
		// timeout only needs to cover the slower messages round-trip.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.requestTimeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the MCP server base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SSEURL returns the probe endpoint
func (c *Client) SSEURL() string {
	return c.baseURL + models.PathSSE
}

// MessagesURL returns the messages endpoint
func (c *Client) MessagesURL() string {
	return c.baseURL + models.PathMessages
}

// GetHTTPClient returns the underlying HTTP client
func (c *Client) GetHTTPClient() tls_client.HttpClient {
	return c.httpClient
}

// Close releases idle connections. Further calls fail fast.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
