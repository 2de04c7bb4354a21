package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const orderCurrency = "INR"

// Notifier delivers the order confirmation to the customer. Delivery is
// best-effort: the persisted order stays the source of truth whether or
// not the notification goes out.
type Notifier interface {
	NotifyOrderCompleted(order *models.Order)
}

// Service implements the checkout flow: building provider orders from a
// validated cart and recording verified payments exactly once.
type Service struct {
	repo     Repository
	client   *RazorpayClient
	notifier Notifier
}

// NewService creates a payment service from injected collaborators.
func NewService(repo Repository, client *RazorpayClient, notifier Notifier) *Service {
	return &Service{repo: repo, client: client, notifier: notifier}
}

// NewServiceFromDB creates a payment service from a GORM DB handle with
// the env-configured Razorpay client.
func NewServiceFromDB(db *gorm.DB, notifier Notifier) *Service {
	return NewService(NewRepository(db), NewRazorpayClientFromEnv(), notifier)
}

// CheckoutInput is a client-asserted checkout request. Amount is in whole
// rupees and is never trusted: it only has to match the catalog price.
type CheckoutInput struct {
	AmountRupees  int
	ProductID     string
	ProductName   string
	CustomerEmail string
	CustomerName  string
}

// VerifiedPayment is a payment event whose signature has already been
// checked (or that arrived through the verified webhook channel).
type VerifiedPayment struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	ProductID         string
	AmountRupees      int
	CustomerEmail     string
	CustomerName      string
	PaymentMethod     string
	Source            string
}

// WebhookEventInput carries a raw provider webhook for persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// CreatePaymentOrder validates the requested amount against the catalog
// and creates the provider-side order. The product id and customer
// identity travel in the order notes so the webhook path can recover
// them without a second lookup.
func (s *Service) CreatePaymentOrder(ctx context.Context, in CheckoutInput) (*ProviderOrder, *models.Product, error) {
	product, err := s.lookupProduct(in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product.Price != in.AmountRupees {
		return nil, nil, fmt.Errorf("%w: got %d, price is %d", ErrAmountMismatch, in.AmountRupees, product.Price)
	}

	order, err := s.client.CreateOrder(ctx, int64(product.Price)*100, orderCurrency, newReceiptID(), OrderNotes{
		ProductID:     product.ID,
		ProductName:   product.Name,
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		CustomerName:  strings.TrimSpace(in.CustomerName),
	})
	if err != nil {
		return nil, nil, err
	}
	return order, product, nil
}

// RecordVerifiedPayment converts a verified payment event into a durable
// order exactly once. Re-processing the same provider payment id returns
// the already-stored order without a second insert; the uniqueness is
// enforced at the database level, so concurrent duplicate calls are safe.
// Returns the order and whether this call created it.
func (s *Service) RecordVerifiedPayment(ctx context.Context, in VerifiedPayment) (*models.Order, bool, error) {
	_ = ctx
	if strings.TrimSpace(in.RazorpayPaymentID) == "" {
		return nil, false, errors.New("razorpay payment id is required")
	}

	product, err := s.lookupProduct(in.ProductID)
	if err != nil {
		return nil, false, err
	}
	// Defense in depth: the webhook path re-asserts the captured amount
	// here, so forged notes can never unlock a mispriced order.
	if product.Price != in.AmountRupees {
		return nil, false, fmt.Errorf("%w: got %d, price is %d", ErrAmountMismatch, in.AmountRupees, product.Price)
	}

	source := in.Source
	if source == "" {
		source = models.OrderSourceClient
	}
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		customerName = "Customer"
	}

	order := &models.Order{
		ID:                newOrderID(),
		RazorpayOrderID:   strings.TrimSpace(in.RazorpayOrderID),
		RazorpayPaymentID: strings.TrimSpace(in.RazorpayPaymentID),
		ProductID:         product.ID,
		ProductName:       product.Name,
		AssetPath:         product.AssetPath,
		AssetIsFolder:     product.AssetIsFolder,
		CustomerEmail:     strings.TrimSpace(in.CustomerEmail),
		CustomerName:      customerName,
		Amount:            product.Price,
		Status:            models.OrderStatusCompleted,
		PaymentMethod:     strings.TrimSpace(in.PaymentMethod),
		Source:            source,
	}

	created, stored, err := s.repo.CreateOrderIfNotExists(order)
	if err != nil {
		return nil, false, err
	}
	if created && s.notifier != nil {
		s.notifier.NotifyOrderCompleted(stored)
	}
	return stored, created, nil
}

// RecordWebhookEvent persists webhook payloads idempotently.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.PaymentWebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		// Razorpay retries carry the same payload; dedup on its content.
		eventID = "payment:" + fallbackEventID(in.PayloadJSON)
	}

	event := &models.PaymentWebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

func (s *Service) lookupProduct(id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProductNotFound
	}
	product, err := s.repo.GetProductByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func fallbackEventID(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func newOrderID() string {
	return "order_" + uuid.NewString()[:8]
}

func newReceiptID() string {
	return "receipt_" + uuid.NewString()[:8]
}
