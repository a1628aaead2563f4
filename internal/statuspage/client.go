package statuspage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleister1102/statuswatch/internal/common"
	"github.com/aleister1102/statuswatch/internal/httpclient"
	"github.com/rs/zerolog"
)

// Endpoints relative to the API base URL.
const (
	EndpointSummary    = "summary.json"
	EndpointIncidents  = "incidents.json"
	EndpointComponents = "components.json"
)

// ErrTransport marks any failure to obtain a usable document: network errors,
// timeouts, non-2xx statuses and malformed JSON. Callers treat it as "no data".
var ErrTransport = errors.New("status page transport failure")

// BaseURL returns the public v2 API root for a status page id.
func BaseURL(statusPageID string) string {
	return fmt.Sprintf("https://%s.statuspage.io/api/v2", statusPageID)
}

// PageURL returns the human-facing status page address.
func PageURL(statusPageID string) string {
	return fmt.Sprintf("https://%s.statuspage.io", statusPageID)
}

// Client fetches Statuspage documents.
type Client struct {
	httpClient *httpclient.HTTPClient
	baseURL    string
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewClient creates a Client. timeout bounds each call in addition to the
// HTTP client's own timeout.
func NewClient(httpClient *httpclient.HTTPClient, baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		logger:     logger.With().Str("component", "StatusPageClient").Logger(),
	}
}

// Fetch GETs an endpoint and returns its body once it is known to be valid JSON.
func (c *Client) Fetch(ctx context.Context, endpoint string) ([]byte, error) {
	url := c.baseURL + "/" + endpoint

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, transportError(endpoint, err)
	}

	if !resp.IsSuccess() {
		body := resp.Body
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, transportError(endpoint, common.NewHTTPErrorWithURL(resp.StatusCode, string(body), url))
	}

	if !json.Valid(resp.Body) {
		return nil, transportError(endpoint, common.ErrMalformedResponse)
	}

	c.logger.Debug().Str("endpoint", endpoint).Int("size", len(resp.Body)).Msg("Fetched status page document")
	return resp.Body, nil
}

// Summary fetches summary.json as a generic document. Numbers are kept as
// json.Number so that re-encoding reproduces them exactly.
func (c *Client) Summary(ctx context.Context) (Summary, error) {
	body, err := c.Fetch(ctx, EndpointSummary)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var summary Summary
	if err := decoder.Decode(&summary); err != nil {
		return nil, transportError(EndpointSummary, common.WrapError(common.ErrMalformedResponse, err.Error()))
	}
	return summary, nil
}

// Incidents fetches incidents.json. A document without an incidents array
// yields an empty list.
func (c *Client) Incidents(ctx context.Context) ([]Incident, error) {
	body, err := c.Fetch(ctx, EndpointIncidents)
	if err != nil {
		return nil, err
	}

	var doc incidentsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, transportError(EndpointIncidents, common.WrapError(common.ErrMalformedResponse, err.Error()))
	}
	if doc.Incidents == nil {
		return []Incident{}, nil
	}
	return doc.Incidents, nil
}

// Components fetches components.json. A document without a components array
// yields an empty list.
func (c *Client) Components(ctx context.Context) ([]Component, error) {
	body, err := c.Fetch(ctx, EndpointComponents)
	if err != nil {
		return nil, err
	}

	var doc componentsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, transportError(EndpointComponents, common.WrapError(common.ErrMalformedResponse, err.Error()))
	}
	if doc.Components == nil {
		return []Component{}, nil
	}
	return doc.Components, nil
}

func transportError(endpoint string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, endpoint, err)
}
