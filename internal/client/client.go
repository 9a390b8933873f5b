// Package client wraps the outbound HTTP calls to the payment backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumensel/payment-console/internal/domain/payment"
)

// RequestTimeout caps every call to the backend so a submission can never
// hang indefinitely.
const RequestTimeout = 30 * time.Second

const apiPrefix = "/api/v1"

// APIError is a backend failure carried as a Problem Detail body. Its text
// is the body's detail, falling back to the title.
type APIError struct {
	Status    int
	Title     string
	Detail    string
	ErrorCode string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Client talks to the payment backend. Create requests carry an
// Idempotency-Key header equal to the request's conversation id, so a
// retried submission is safe to replay on the backend side.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New builds a Client for the backend at baseURL.
func New(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: RequestTimeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreatePayment submits one payment attempt. The card data in req is sent
// exactly once; duplicate protection lives behind the idempotency header,
// not in this client.
func (c *Client) CreatePayment(ctx context.Context, req *payment.CreatePaymentRequest) (*payment.PaymentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPrefix+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.ConversationID)

	c.logger.Info("Submitting payment",
		zap.String("conversation_id", req.ConversationID),
		zap.String("currency", string(req.Currency)),
		zap.String("buyer_id", req.BuyerID))

	var resp payment.PaymentResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPayment fetches a payment by its backend id.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*payment.PaymentResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp payment.PaymentResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPaymentByConversationID fetches a payment by its conversation id. A 404
// means no payment exists for that id and yields (nil, nil); every other
// failure is an error.
func (c *Client) GetPaymentByConversationID(ctx context.Context, conversationID string) (*payment.PaymentResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPrefix+"/payments/by-conversation/"+conversationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var resp payment.PaymentResponse
	err = c.do(httpReq, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &resp, nil
}

// do executes the request and decodes the response into out. A non-2xx
// response carrying a Problem Detail body becomes an *APIError; transport
// failures propagate unchanged.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.problemError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}

func (c *Client) problemError(status int, body []byte) error {
	var problem payment.ProblemDetail
	if err := json.Unmarshal(body, &problem); err == nil && (problem.Title != "" || problem.Detail != "") {
		c.logger.Warn("Backend returned problem detail",
			zap.Int("status", status),
			zap.String("title", problem.Title),
			zap.String("error_code", problem.ErrorCode))
		return &APIError{
			Status:    status,
			Title:     problem.Title,
			Detail:    problem.Detail,
			ErrorCode: problem.ErrorCode,
		}
	}
	return &APIError{
		Status: status,
		Title:  fmt.Sprintf("backend returned status %d", status),
	}
}
