package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// HTTPClient wraps net/http.Client with default headers and a body size cap
type HTTPClient struct {
	client *http.Client
	config HTTPClientConfig
	logger zerolog.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	if config.Timeout <= 0 {
		return nil, common.NewValidationError("timeout", config.Timeout, "timeout must be positive")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		DialContext: (&net.Dialer{
			Timeout:   config.DialTimeout,
			KeepAlive: config.KeepAlive,
		}).DialContext,
	}

	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			logger.Warn().Err(err).Msg("Failed to configure HTTP/2, falling back to HTTP/1.1")
		} else {
			logger.Debug().Msg("HTTP/2 support enabled")
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	logger.Debug().
		Dur("timeout", config.Timeout).
		Str("user_agent", config.UserAgent).
		Bool("http2_enabled", config.EnableHTTP2).
		Msg("HTTP client created")

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Timeout returns the per-request timeout
func (c *HTTPClient) Timeout() time.Duration {
	return c.config.Timeout
}

// Do performs a single HTTP request. Network failures come back as
// *common.NetworkError; non-2xx statuses are returned as a response, not an error.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, req.Body)
	if err != nil {
		return nil, common.WrapError(err, "failed to create HTTP request")
	}

	for key, value := range c.config.CustomHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, common.NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.config.MaxContentSize > 0 {
		body = io.LimitReader(resp.Body, int64(c.config.MaxContentSize)+1)
	}

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		return nil, common.NewNetworkError(req.URL, "failed to read response body", err)
	}
	if c.config.MaxContentSize > 0 && len(bodyBytes) > c.config.MaxContentSize {
		return nil, common.NewNetworkError(req.URL, fmt.Sprintf("response exceeds %d bytes", c.config.MaxContentSize), nil)
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
		Body:       bodyBytes,
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			httpResp.Headers[key] = values[0]
		}
	}

	c.logger.Debug().
		Str("url", req.URL).
		Int("status_code", resp.StatusCode).
		Int("content_size", len(bodyBytes)).
		Msg("HTTP request completed")

	return httpResp, nil
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*HTTPResponse, error) {
	return c.Do(&HTTPRequest{URL: url, Method: http.MethodGet, Context: ctx})
}
