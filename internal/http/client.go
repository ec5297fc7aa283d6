// Package http provides the HTTP transport shared by the todo API client.
// It wraps net/http with default headers, pooled connections and typed API errors.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient is a reusable HTTP client with default headers applied to every request
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

// HTTPClientConfig configures the HTTP client
type HTTPClientConfig struct {
	Timeout   time.Duration     `yaml:"timeout,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	UserAgent string            `yaml:"user_agent,omitempty"`

	// Transport configuration
	MaxIdleConns        int           `yaml:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout,omitempty"`
}

// DefaultUserAgent is sent when the config names none.
const DefaultUserAgent = "todo-provider-kit/1.0"

// NewHTTPClient creates a new HTTP client, filling unset fields with defaults
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 10
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 2
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	headers := make(map[string]string, len(config.Headers)+2)
	headers["Accept"] = "application/json"
	for k, v := range config.Headers {
		headers[k] = v
	}
	if config.UserAgent != "" {
		headers["User-Agent"] = config.UserAgent
	} else {
		headers["User-Agent"] = DefaultUserAgent
	}
	config.Headers = headers

	return &HTTPClient{
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: createTransport(config),
		},
		config: config,
	}
}

// createTransport creates an http.Transport with the specified configuration
func createTransport(config HTTPClientConfig) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}
}

// Do executes req under ctx. Default headers never override headers already set on req.
func (c *HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// Headers returns the default headers applied to every request
func (c *HTTPClient) Headers() map[string]string {
	out := make(map[string]string, len(c.config.Headers))
	for k, v := range c.config.Headers {
		out[k] = v
	}
	return out
}

// Client returns the underlying http.Client
func (c *HTTPClient) Client() *http.Client {
	return c.client
}
