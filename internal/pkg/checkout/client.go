package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds checkout provider API configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client represents the payment provider's checkout API client
type Client struct {
	httpClient *http.Client
	config     Config
}

// LineItem prices a single purchasable item in minor currency units
type LineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Quantity   int64  `json:"quantity"`
}

// CreateSessionRequest represents a checkout session creation request
type CreateSessionRequest struct {
	LineItem   LineItem          `json:"line_item"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	ExpiresAt  int64             `json:"expires_at"` // unix seconds
}

// Session represents a created checkout session
type Session struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// NewClient creates a new checkout API client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
	}
}

// CreateSession opens a checkout session and returns its hosted payment URL
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	if req.LineItem.UnitAmount <= 0 {
		return nil, fmt.Errorf("validation error: unit_amount must be > 0")
	}
	if req.LineItem.Quantity <= 0 {
		return nil, fmt.Errorf("validation error: quantity must be > 0")
	}
	if strings.TrimSpace(req.SuccessURL) == "" || strings.TrimSpace(req.CancelURL) == "" {
		return nil, fmt.Errorf("validation error: success_url and cancel_url must be non-empty")
	}
	if strings.TrimSpace(c.config.BaseURL) == "" {
		return nil, fmt.Errorf("checkout config error: base_url is empty")
	}
	if strings.TrimSpace(c.config.APIKey) == "" {
		return nil, fmt.Errorf("checkout config error: api_key is empty")
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	base := strings.TrimRight(c.config.BaseURL, "/")
	url := base + "/v1/checkout/sessions"

	timeout := c.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("checkout api call failed: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout api call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("checkout api call failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout api returned non-2xx status: %d, body: %s", resp.StatusCode, string(body))
	}

	var session Session
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}

	if session.URL == "" {
		return nil, fmt.Errorf("checkout api returned session without url")
	}

	return &session, nil
}
