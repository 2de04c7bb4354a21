package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
	"github.com/ManuelReschke/NotesKart/internal/pkg/payment"
	"github.com/gofiber/fiber/v2"
)

const webhookProvider = "razorpay"

// HandleRazorpayWebhook is the durability backstop for payments whose
// client-side confirmation never arrived. It always acknowledges with 200
// so the provider does not pile up retries; all failures are recorded on
// the stored event instead of the response.
func HandleRazorpayWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	eventType := payment.ParseWebhookEventType(rawBody)
	eventID := firstHeaderValue(c, "X-Razorpay-Event-Id")
	signature := firstHeaderValue(c, "X-Razorpay-Signature")
	secret := env.GetEnv("RAZORPAY_WEBHOOK_SECRET", "")

	svc := paymentService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	ack := func() error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	signatureValid := payment.VerifyWebhookSignature(rawBody, signature, secret)
	created, stored, err := svc.RecordWebhookEvent(ctx, payment.WebhookEventInput{
		Provider:        webhookProvider,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Printf("webhook persist failed: %v", err)
		return ack()
	}
	if !created {
		// Provider retry of an event we already have. If the first pass
		// failed (a transient lookup or write error ends up in
		// processing_error), run it again: the recorder is idempotent, so
		// a re-run can only fill the gap, never double-write.
		if signatureValid && stored.ProcessingError != "" && eventType == payment.WebhookEventPaymentCaptured {
			_ = svc.MarkWebhookProcessed(ctx, stored.ID, processCapturedPayment(ctx, svc, rawBody))
		}
		return ack()
	}
	if !signatureValid {
		log.Printf("webhook %d: invalid signature, dropping event", stored.ID)
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return ack()
	}

	switch eventType {
	case payment.WebhookEventPaymentCaptured:
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, processCapturedPayment(ctx, svc, rawBody))
	case payment.WebhookEventPaymentFailed:
		if captured, err := payment.ParseWebhookPayment(rawBody); err == nil {
			log.Printf("payment failed: %s", captured.PaymentID)
		}
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
	default:
		_ = svc.MarkWebhookProcessed(ctx, stored.ID, nil)
	}

	return ack()
}

// processCapturedPayment records an order for a captured payment. The
// product is resolved solely from the product id embedded in the order
// notes at checkout time; amounts are still re-validated against the
// catalog before anything is written.
func processCapturedPayment(ctx context.Context, svc *payment.Service, rawBody []byte) error {
	captured, err := payment.ParseWebhookPayment(rawBody)
	if err != nil {
		return err
	}
	if captured.ProductID == "" {
		return errors.New("captured payment carries no product id note")
	}

	customerEmail := captured.CustomerEmail
	if customerEmail == "" {
		customerEmail = "unknown@example.com"
	}

	order, createdOrder, err := svc.RecordVerifiedPayment(ctx, payment.VerifiedPayment{
		RazorpayOrderID:   captured.OrderID,
		RazorpayPaymentID: captured.PaymentID,
		ProductID:         captured.ProductID,
		AmountRupees:      captured.AmountRupees(),
		CustomerEmail:     customerEmail,
		CustomerName:      captured.CustomerName,
		PaymentMethod:     captured.Method,
		Source:            models.OrderSourceWebhook,
	})
	if err != nil {
		return err
	}
	if createdOrder {
		log.Printf("order created from webhook: %s", order.ID)
	}
	return nil
}
