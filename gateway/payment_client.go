// Package gateway holds clients for external collaborators: the payment
// provider and the outbound mail server.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ticketing/entity"
)

// StatusCompleted is the gateway's terminal status for a paid transaction.
const StatusCompleted = "Completed"

type InitiateRequest struct {
	ReturnURL   string `json:"return_url"`
	Amount      int64  `json:"amount"`
	OrderRef    string `json:"purchase_order_id"`
	OrderName   string `json:"purchase_order_name"`
	CustomerRef string `json:"customer_ref,omitempty"`
}

type InitiateResponse struct {
	TransactionRef string `json:"transaction_ref"`
	PaymentURL     string `json:"payment_url"`
}

type LookupResponse struct {
	TransactionRef string `json:"transaction_ref"`
	Status         string `json:"status"`
	TotalAmount    int64  `json:"total_amount"`
}

// PaymentGateway is the provider surface the payment bridge depends on.
// Lookup exists so callback handling never trusts client-supplied status.
type PaymentGateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error)
	Lookup(ctx context.Context, transactionRef string) (LookupResponse, error)
}

type PaymentClient struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

func NewPaymentClient(baseURL, secretKey string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:   baseURL,
		secretKey: secretKey,
	}
}

func (c *PaymentClient) Initiate(ctx context.Context, req InitiateRequest) (InitiateResponse, error) {
	var resp InitiateResponse
	err := c.post(ctx, "/epayment/initiate/", req, &resp)
	return resp, err
}

func (c *PaymentClient) Lookup(ctx context.Context, transactionRef string) (LookupResponse, error) {
	var resp LookupResponse
	err := c.post(ctx, "/epayment/lookup/", map[string]string{"transaction_ref": transactionRef}, &resp)
	return resp, err
}

func (c *PaymentClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return entity.ErrGatewayTimeout
		}
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return entity.ExternalServiceError{
			Service:    "payment gateway",
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("could not decode gateway response: %w", err)
	}
	return nil
}
