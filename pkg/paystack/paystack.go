// Package paystack is a client for the Paystack transaction API. The
// storefront initializes a transaction for the customer to complete on
// Paystack's hosted page, then verifies the reference before an order is
// ever written.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// Config holds Paystack API credentials and connection settings.
type Config struct {
	SecretKey string
	BaseURL   string        // defaults to the live API
	Timeout   time.Duration // per-request timeout, defaults to 30s
}

// Client calls the Paystack REST API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Paystack client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitializeRequest is the contract for opening a payment: a caller-generated
// unique reference, the customer's email and the amount in integer kobo.
type InitializeRequest struct {
	Reference string `json:"reference"`
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Authorization is the hosted payment page handed back by Paystack.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Transaction is the verified state of a payment attempt.
type Transaction struct {
	Reference string  `json:"reference"`
	Status    string  `json:"status"` // "success", "failed", "abandoned"
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	GatewayID int64   `json:"id"`
	PaidAt    *string `json:"paid_at"`
}

// Success reports whether the transaction completed successfully.
func (t *Transaction) Success() bool {
	return t.Status == "success"
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize opens a transaction and returns the hosted payment page.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*Authorization, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var auth Authorization
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}
	return &auth, nil
}

// Verify fetches the final state of a transaction by its reference.
func (c *Client) Verify(ctx context.Context, reference string) (*Transaction, error) {
	data, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var tx Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	return &tx, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Status {
		return nil, fmt.Errorf("paystack error (HTTP %d): %s", resp.StatusCode, envelope.Message)
	}
	return envelope.Data, nil
}
