// Package pinata is a content store adapter for a Pinata-style IPFS pinning
// service: JSON documents are pinned through the pinning API and retrieved
// through a public gateway by address.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"skillpass/internal/content"
	"skillpass/pkg/platform/circuit"
	"skillpass/pkg/sentinel"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Pinata client.
type Config struct {
	BaseURL    string // pinning API, e.g. https://api.pinata.cloud
	GatewayURL string // read gateway, e.g. https://gateway.pinata.cloud
	APIKey     string
	SecretKey  string
	Timeout    time.Duration
	HTTPClient HTTPDoer
}

// Client talks to the pinning API and gateway. A circuit breaker fails fast
// once the service has shown consecutive failures, so issuance latency does
// not stack timeouts during an outage.
type Client struct {
	baseURL    string
	gatewayURL string
	apiKey     string
	secretKey  string
	client     HTTPDoer
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

// New creates a Pinata client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		gatewayURL: cfg.GatewayURL,
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		client:     httpClient,
		breaker:    circuit.New("pinata"),
		logger:     logger,
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
	PinSize  int64  `json:"PinSize"`
}

// PinJSON pins the payload and returns its store address. Pinning identical
// content twice yields the same address, so retries are safe.
func (c *Client) PinJSON(ctx context.Context, payload []byte) (content.PinResult, error) {
	if c.breaker.IsOpen() {
		return content.PinResult{}, fmt.Errorf("pinata circuit open: %w", sentinel.ErrUnavailable)
	}

	url := fmt.Sprintf("%s/pinning/pinJSONToIPFS", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return content.PinResult{}, fmt.Errorf("create pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return content.PinResult{}, fmt.Errorf("pin request failed: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(ctx)
		return content.PinResult{}, fmt.Errorf("read pin response: %w: %w", sentinel.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.recordFailure(ctx)
		return content.PinResult{}, fmt.Errorf("pin rejected with status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var parsed pinResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.recordFailure(ctx)
		return content.PinResult{}, fmt.Errorf("parse pin response: %w: %w", sentinel.ErrUnavailable, err)
	}

	c.recordSuccess(ctx)
	return content.PinResult{Address: parsed.IpfsHash, Size: parsed.PinSize}, nil
}

// Fetch retrieves a pinned document from the gateway by address.
func (c *Client) Fetch(ctx context.Context, address string) ([]byte, error) {
	if c.breaker.IsOpen() {
		return nil, fmt.Errorf("pinata circuit open: %w", sentinel.ErrUnavailable)
	}

	url := fmt.Sprintf("%s/ipfs/%s", c.gatewayURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create fetch request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return nil, fmt.Errorf("fetch request failed: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// The gateway answered; the address is simply absent. Not a transport
		// failure, so the breaker stays untouched.
		return nil, sentinel.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.recordFailure(ctx)
		return nil, fmt.Errorf("gateway returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure(ctx)
		return nil, fmt.Errorf("read gateway response: %w: %w", sentinel.ErrUnavailable, err)
	}

	c.recordSuccess(ctx)
	return body, nil
}

func (c *Client) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "pinata circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "pinata circuit closed", "breaker", c.breaker.Name())
	}
}

var _ content.Store = (*Client)(nil)
