package payment

import (
	"encoding/json"
	"errors"
	"strings"
)

// Webhook event types we act on. Everything else is stored and ignored.
const (
	WebhookEventPaymentCaptured = "payment.captured"
	WebhookEventPaymentFailed   = "payment.failed"
)

// CapturedPayment is the distilled payment entity from a Razorpay
// webhook payload.
type CapturedPayment struct {
	PaymentID     string
	OrderID       string
	AmountPaise   int64
	Method        string
	ProductID     string
	ProductName   string
	CustomerEmail string
	CustomerName  string
}

// AmountRupees converts the captured paise amount back to whole rupees.
func (p *CapturedPayment) AmountRupees() int {
	return int(p.AmountPaise / 100)
}

// ParseWebhookEventType extracts only the event name from a raw payload.
func ParseWebhookEventType(payload []byte) string {
	var raw struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return ""
	}
	return strings.TrimSpace(raw.Event)
}

// ParseWebhookPayment extracts the payment entity from a payment.* event
// payload.
func ParseWebhookPayment(payload []byte) (*CapturedPayment, error) {
	type notes struct {
		ProductID     string `json:"product_id"`
		ProductName   string `json:"product_name"`
		CustomerEmail string `json:"customer_email"`
		CustomerName  string `json:"customer_name"`
	}
	type rawPayload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
					Amount  int64  `json:"amount"`
					Method  string `json:"method"`
					Notes   notes  `json:"notes"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	entity := raw.Payload.Payment.Entity
	if strings.TrimSpace(entity.ID) == "" {
		return nil, errors.New("webhook payload missing payment entity id")
	}

	return &CapturedPayment{
		PaymentID:     strings.TrimSpace(entity.ID),
		OrderID:       strings.TrimSpace(entity.OrderID),
		AmountPaise:   entity.Amount,
		Method:        strings.TrimSpace(entity.Method),
		ProductID:     strings.TrimSpace(entity.Notes.ProductID),
		ProductName:   strings.TrimSpace(entity.Notes.ProductName),
		CustomerEmail: strings.TrimSpace(entity.Notes.CustomerEmail),
		CustomerName:  strings.TrimSpace(entity.Notes.CustomerName),
	}, nil
}
