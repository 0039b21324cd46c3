package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketing-api/pkg/config"
)

// ErrUpstream is returned whenever the AI service is unreachable, times out
// or answers with a non-2xx status. Callers translate it to 502; this layer
// never retries.
var ErrUpstream = errors.New("ai service unavailable")

// Client is an HTTP client for the external AI recommendation service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	healthTimeout    time.Duration
	recommendTimeout time.Duration
	chatTimeout      time.Duration
}

// New creates a client from configuration. Per-operation deadlines are
// applied via request contexts, so the underlying http.Client carries no
// global timeout.
func New(cfg *config.AIServiceConfig) *Client {
	return &Client{
		BaseURL:          cfg.BaseURL,
		HTTPClient:       &http.Client{},
		healthTimeout:    cfg.HealthTimeout,
		recommendTimeout: cfg.RecommendTimeout,
		chatTimeout:      cfg.ChatTimeout,
	}
}

// Health probes the AI service health endpoint with a short deadline.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Recommend forwards a recommendation request and returns the upstream JSON
// verbatim.
func (c *Client) Recommend(ctx context.Context, body []byte) (json.RawMessage, error) {
	return c.post(ctx, "/recommend", body, c.recommendTimeout)
}

// RAGInfluencers forwards an influencer search query.
func (c *Client) RAGInfluencers(ctx context.Context, body []byte) (json.RawMessage, error) {
	return c.post(ctx, "/rag/influencers", body, c.recommendTimeout)
}

// ChatStrategy forwards a strategy chat request. The upstream path differs
// from the public one exposed by this API.
func (c *Client) ChatStrategy(ctx context.Context, body []byte) (json.RawMessage, error) {
	return c.post(ctx, "/chat-strategy", body, c.chatTimeout)
}

func (c *Client) post(ctx context.Context, path string, body []byte, timeout time.Duration) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	return data, nil
}
