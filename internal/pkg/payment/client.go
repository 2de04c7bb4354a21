package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
)

const defaultRazorpayAPIBaseURL = "https://api.razorpay.com/v1"

// RazorpayClient talks to the Razorpay Orders API. Only order creation is
// needed; everything after checkout comes back signed through the client
// or the webhook.
type RazorpayClient struct {
	KeyID     string
	KeySecret string

	APIBaseURL string

	HTTPClient *http.Client
}

// OrderNotes is the opaque context attached to a provider order. The
// product id embedded here is the only channel the webhook path may use
// to resolve the purchased product.
type OrderNotes struct {
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
}

// ProviderOrder is Razorpay's order object as returned by the Orders API.
type ProviderOrder struct {
	ID        string     `json:"id"`
	Entity    string     `json:"entity"`
	Amount    int64      `json:"amount"`
	AmountDue int64      `json:"amount_due"`
	Currency  string     `json:"currency"`
	Receipt   string     `json:"receipt"`
	Status    string     `json:"status"`
	Notes     OrderNotes `json:"notes"`
	CreatedAt int64      `json:"created_at"`
}

type createOrderRequest struct {
	Amount   int64      `json:"amount"`
	Currency string     `json:"currency"`
	Receipt  string     `json:"receipt"`
	Notes    OrderNotes `json:"notes"`
}

// NewRazorpayClientFromEnv builds a client from RAZORPAY_* env settings.
func NewRazorpayClientFromEnv() *RazorpayClient {
	return &RazorpayClient{
		KeyID:      strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		KeySecret:  strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("RAZORPAY_API_BASE_URL", defaultRazorpayAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateOrder creates a provider order for the given paise amount. The
// caller is responsible for having validated the amount against the
// catalog first.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes OrderNotes) (*ProviderOrder, error) {
	if strings.TrimSpace(c.KeyID) == "" || strings.TrimSpace(c.KeySecret) == "" {
		return nil, errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")
	}
	if amountPaise <= 0 {
		return nil, errors.New("order amount must be positive")
	}

	payload, err := json.Marshal(createOrderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: razorpay order create failed: status=%d body=%s", ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var out ProviderOrder
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, fmt.Errorf("%w: razorpay order create returned empty order id", ErrProviderUnavailable)
	}
	return &out, nil
}
