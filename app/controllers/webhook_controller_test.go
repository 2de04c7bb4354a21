package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/internal/pkg/payment"
)

const testWebhookSecret = "test-webhook-secret"

type fakeWebhookRepository struct {
	products        map[string]*models.Product
	ordersByPayment map[string]*models.Order
	events          map[string]*models.PaymentWebhookEvent
	nextEventID     uint
	failEventInsert bool
}

func newFakeWebhookRepository(products ...*models.Product) *fakeWebhookRepository {
	r := &fakeWebhookRepository{
		products:        make(map[string]*models.Product),
		ordersByPayment: make(map[string]*models.Order),
		events:          make(map[string]*models.PaymentWebhookEvent),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeWebhookRepository) GetProductByID(id string) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakeWebhookRepository) CreateOrderIfNotExists(order *models.Order) (bool, *models.Order, error) {
	if existing, ok := r.ordersByPayment[order.RazorpayPaymentID]; ok {
		return false, existing, nil
	}
	stored := *order
	r.ordersByPayment[order.RazorpayPaymentID] = &stored
	return true, &stored, nil
}

func (r *fakeWebhookRepository) GetOrderByID(id string) (*models.Order, error) {
	for _, o := range r.ordersByPayment {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWebhookRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	if r.failEventInsert {
		return false, nil, errors.New("cache table is gone")
	}
	key := event.Provider + "/" + event.ProviderEventID
	if existing, ok := r.events[key]; ok {
		return false, existing, nil
	}
	r.nextEventID++
	stored := *event
	stored.ID = r.nextEventID
	r.events[key] = &stored
	return true, &stored, nil
}

func (r *fakeWebhookRepository) MarkWebhookProcessed(id uint, processingError string) error {
	for _, e := range r.events {
		if e.ID == id {
			e.ProcessingError = processingError
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newWebhookTestApp(t *testing.T, repo *fakeWebhookRepository) *fiber.App {
	t.Helper()
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", testWebhookSecret)

	original := paymentService
	paymentService = func() *payment.Service {
		return payment.NewService(repo, nil, nil)
	}
	t.Cleanup(func() { paymentService = original })

	app := fiber.New()
	app.Post("/api/webhook/razorpay", HandleRazorpayWebhook)
	return app
}

func signWebhookBody(body string) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(body, eventID, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/razorpay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if eventID != "" {
		req.Header.Set("X-Razorpay-Event-Id", eventID)
	}
	if signature != "" {
		req.Header.Set("X-Razorpay-Signature", signature)
	}
	return req
}

func assertWebhookAck(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"received":true}`, string(body))
}

func capturedPaymentBody() string {
	return `{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_abc123",
					"order_id": "order_xyz789",
					"amount": 24900,
					"method": "upi",
					"notes": {
						"product_id": "prod_11111111",
						"product_name": "History Notes",
						"customer_email": "student@example.com",
						"customer_name": "Priya"
					}
				}
			}
		}
	}`
}

func webhookTestProduct() *models.Product {
	return &models.Product{
		ID:        "prod_11111111",
		Name:      "History Notes",
		Price:     249,
		AssetPath: "history",
	}
}

func TestHandleRazorpayWebhook_CapturedCreatesOrder(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	body := capturedPaymentBody()
	resp, err := app.Test(newWebhookRequest(body, "evt_1", signWebhookBody(body)), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	order, ok := repo.ordersByPayment["pay_abc123"]
	require.True(t, ok, "expected an order for the captured payment")
	assert.Equal(t, models.OrderSourceWebhook, order.Source)
	assert.Equal(t, 249, order.Amount)
	assert.Equal(t, "upi", order.PaymentMethod)

	event := repo.events["razorpay/evt_1"]
	require.NotNil(t, event)
	assert.True(t, event.SignatureValid)
	assert.Empty(t, event.ProcessingError)
}

func TestHandleRazorpayWebhook_InvalidSignature(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	resp, err := app.Test(newWebhookRequest(capturedPaymentBody(), "evt_1", "deadbeef"), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Empty(t, repo.ordersByPayment, "unsigned event must not create an order")
	event := repo.events["razorpay/evt_1"]
	require.NotNil(t, event, "event must still be stored for auditing")
	assert.False(t, event.SignatureValid)
	assert.NotEmpty(t, event.ProcessingError)
}

func TestHandleRazorpayWebhook_DuplicateEvent(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	body := capturedPaymentBody()
	sig := signWebhookBody(body)

	resp, err := app.Test(newWebhookRequest(body, "evt_1", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	resp, err = app.Test(newWebhookRequest(body, "evt_1", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Len(t, repo.ordersByPayment, 1, "redelivery must not create a second order")
	assert.Len(t, repo.events, 1)
}

func TestHandleRazorpayWebhook_RetriesFailedProcessing(t *testing.T) {
	// first delivery fails because the product is unknown; once the
	// catalog is fixed, the provider redelivery fills the gap
	repo := newFakeWebhookRepository()
	app := newWebhookTestApp(t, repo)

	body := capturedPaymentBody()
	sig := signWebhookBody(body)

	resp, err := app.Test(newWebhookRequest(body, "evt_1", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	event := repo.events["razorpay/evt_1"]
	require.NotNil(t, event)
	assert.NotEmpty(t, event.ProcessingError)
	assert.Empty(t, repo.ordersByPayment)

	p := webhookTestProduct()
	repo.products[p.ID] = p

	resp, err = app.Test(newWebhookRequest(body, "evt_1", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Len(t, repo.ordersByPayment, 1, "redelivery after a failed pass must record the order")
	assert.Empty(t, repo.events["razorpay/evt_1"].ProcessingError)
}

func TestHandleRazorpayWebhook_UnknownEventType(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	body := `{"event":"refund.created","payload":{}}`
	resp, err := app.Test(newWebhookRequest(body, "evt_2", signWebhookBody(body)), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Empty(t, repo.ordersByPayment)
	event := repo.events["razorpay/evt_2"]
	require.NotNil(t, event)
	assert.Empty(t, event.ProcessingError)
}

func TestHandleRazorpayWebhook_PaymentFailedEvent(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	body := `{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_abc123"}}}}`
	resp, err := app.Test(newWebhookRequest(body, "evt_3", signWebhookBody(body)), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Empty(t, repo.ordersByPayment, "failed payments never create orders")
}

func TestHandleRazorpayWebhook_PersistFailure(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	repo.failEventInsert = true
	app := newWebhookTestApp(t, repo)

	body := capturedPaymentBody()
	resp, err := app.Test(newWebhookRequest(body, "evt_1", signWebhookBody(body)), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	assert.Empty(t, repo.ordersByPayment)
}

func TestHandleRazorpayWebhook_MissingEventIDHeader(t *testing.T) {
	repo := newFakeWebhookRepository(webhookTestProduct())
	app := newWebhookTestApp(t, repo)

	body := capturedPaymentBody()
	sig := signWebhookBody(body)

	resp, err := app.Test(newWebhookRequest(body, "", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	resp, err = app.Test(newWebhookRequest(body, "", sig), -1)
	require.NoError(t, err)
	assertWebhookAck(t, resp)

	// dedup falls back to the payload hash when no event id is sent
	assert.Len(t, repo.events, 1)
	assert.Len(t, repo.ordersByPayment, 1)
}
