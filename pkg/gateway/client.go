// Package gateway is the client for the message ingestion API: batch message
// delivery plus the wildcard and stage vocabulary endpoints.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the ingestion API operations.
type Client interface {
	SendMessages(ctx context.Context, batch []Message) (*BatchResult, error)
	ListWildcards(ctx context.Context) ([]Entry, error)
	ListStages(ctx context.Context) ([]Entry, error)
}

// WildcardValue is one matched template variable of a message, in spreadsheet
// column order.
type WildcardValue struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value"`
}

// Message is the wire record for one contact row. Stage is nil when the row
// had no stage column, an empty cell, or an unmatched value; the server sees
// JSON null in that case.
type Message struct {
	ID        int             `json:"id"`
	Phone     string          `json:"phone"`
	Stage     *string         `json:"stage"`
	Wildcards []WildcardValue `json:"wildcards"`
}

// BatchResult is the response from POST /messages: per-message ids split into
// accepted and rejected.
type BatchResult struct {
	Successful []int `json:"successful"`
	Failed     []int `json:"failed"`
}

// APIError is returned when the server responds with a non-2xx status. Body
// carries the raw response text for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a client for the ingestion API at baseURL. A trailing
// slash on baseURL is tolerated.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SendMessages(ctx context.Context, batch []Message) (*BatchResult, error) {
	var result BatchResult
	if err := c.post(ctx, "/messages", batch, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) ListWildcards(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := c.get(ctx, "/wildcards", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *httpClient) ListStages(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := c.get(ctx, "/stages", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "gateway: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "gateway: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-apikey", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "gateway: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-apikey", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "gateway: execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "gateway: read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "gateway: decode response")
	}

	return nil
}
