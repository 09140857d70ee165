package klarna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is returned when Klarna answers with a non-2xx status. The body
// snippet carries Klarna's error_code/error_messages payload when present.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("klarna: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client issues authenticated calls against one Klarna regional API cluster.
// Every operation performs exactly one HTTP request; no retries are made and
// errors propagate to the caller.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient builds a client for the given merchant account. httpClient may be
// nil, in which case a client with a 30 second timeout is used.
func NewClient(config ClientConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{config: config, httpClient: httpClient}
}

// Config returns the client's configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}

// CreateMerchantSession creates a payments-API session for the order.
func (c *Client) CreateMerchantSession(ctx context.Context, req *CreateMerchantSessionRequest) (*MerchantSession, error) {
	var session MerchantSession
	if err := c.do(ctx, http.MethodPost, "/payments/v1/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CreateHppSession creates a hosted-payment-page session wrapping a merchant
// session.
func (c *Client) CreateHppSession(ctx context.Context, req *CreateHppSessionRequest) (*HppSession, error) {
	var session HppSession
	if err := c.do(ctx, http.MethodPost, "/hpp/v1/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOrder fetches an order from the order management API.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/ordermanagement/v1/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder releases the authorization of an order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/ordermanagement/v1/orders/"+orderID+"/cancel", nil, nil)
}

// CaptureOrder captures an amount against an authorized order.
func (c *Client) CaptureOrder(ctx context.Context, orderID string, opts *CaptureOptions) error {
	return c.do(ctx, http.MethodPost, "/ordermanagement/v1/orders/"+orderID+"/captures", opts, nil)
}

// RefundOrder refunds an amount against a captured order.
func (c *Client) RefundOrder(ctx context.Context, orderID string, opts *RefundOptions) error {
	return c.do(ctx, http.MethodPost, "/ordermanagement/v1/orders/"+orderID+"/refunds", opts, nil)
}

// ParseSessionEvent decodes the body of a status_update callback. When the
// reader is seekable it is rewound first, so a body that was partially read
// upstream still parses.
func (c *Client) ParseSessionEvent(r io.Reader) (*SessionEvent, error) {
	if seeker, ok := r.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind session event body: %w", err)
		}
	}

	var event SessionEvent
	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to parse session event: %w", err)
	}
	if event.Session == nil {
		return nil, fmt.Errorf("failed to parse session event: missing session object")
	}

	return &event, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL()+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.SetBasicAuth(c.config.Username, c.config.Password)
	req.Header.Set("Cache-Control", "no-cache")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(snippet)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}
