package wave

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
)

const defaultBaseURL = "https://api.wave.com"

type Client struct {
	apiKey     string
	baseURL    string
	successURL string
	errorURL   string
	httpClient *http.Client
}

func NewClient(cfg *config.WaveConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		successURL: cfg.SuccessURL,
		errorURL:   cfg.ErrorURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type createSessionRequest struct {
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	ClientReference string `json:"client_reference"`
	SuccessURL      string `json:"success_url"`
	ErrorURL        string `json:"error_url"`
}

// CreateSession opens a checkout session for the given amount. The caller
// supplies clientReference so it can tie the session back to its own pending
// ledger row. There is no retry here: a blind retry could open a second
// payment session for the same attempt.
func (c *Client) CreateSession(ctx context.Context, amount, currency, clientReference string) (*Session, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	payload, err := json.Marshal(createSessionRequest{
		Amount:          amount,
		Currency:        currency,
		ClientReference: clientReference,
		SuccessURL:      c.successURL,
		ErrorURL:        c.errorURL,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// GetSession fetches the current state of a checkout session. Used for the
// defense-in-depth cross-check before trusting a webhook and for the manual
// status poll; a failure here means "could not independently verify", not
// "payment failed".
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Session, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wave: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("wave: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var sess Session
	if err := json.Unmarshal(body, &sess); err != nil {
		return nil, fmt.Errorf("wave: decode session: %w", err)
	}

	return &sess, nil
}
