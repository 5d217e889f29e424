package paypay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal PayPay web-payment client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new PayPay client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// CreatePayment registers a web payment and returns the checkout URL the
// customer should be redirected to.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	if req.RedirectURL == "" {
		req.RedirectURL = c.config.RedirectURL
	}
	if req.RedirectType == "" {
		req.RedirectType = "WEB_LINK"
	}
	if req.Amount.Currency == "" {
		req.Amount.Currency = "JPY"
	}

	body, err := c.doRequest(ctx, http.MethodPost, "v2/payments", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	var resp CreatePaymentResponse
	if err := decodeData(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode create payment response: %w", err)
	}
	return &resp, nil
}

// GetPaymentDetails fetches the status of a previously created payment
func (c *Client) GetPaymentDetails(ctx context.Context, merchantPaymentID string) (*PaymentDetailsResponse, error) {
	path := fmt.Sprintf("v2/payments/%s", merchantPaymentID)
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment details: %w", err)
	}

	var resp PaymentDetailsResponse
	if err := decodeData(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode payment details response: %w", err)
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("X-ASSUME-MERCHANT", c.config.MerchantID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("PayPay API error - Status: %d, Code: %s, Message: %s",
			resp.StatusCode, errResp.Code, errResp.Message)

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, errorMsg)
		}
	}

	return body, nil
}

// decodeData unwraps the {resultInfo, data} envelope the PG wraps payloads in
func decodeData(body []byte, out interface{}) error {
	env := apiEnvelope{Data: out}
	return json.Unmarshal(body, &env)
}
