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

type createOrderRequest struct {
	Amount        int    `json:"amount" validate:"required,gt=0"`
	ProductID     string `json:"productId" validate:"required"`
	ProductName   string `json:"productName"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
	CustomerName  string `json:"customerName"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	RazorpaySignature string `json:"razorpaySignature"`
	ProductID         string `json:"productId" validate:"required"`
	Amount            int    `json:"amount" validate:"required,gt=0"`
	CustomerEmail     string `json:"customerEmail" validate:"omitempty,email"`
	CustomerName      string `json:"customerName"`
}

// HandleCreateOrder validates the cart total against the catalog and
// creates the provider-side payment order.
func HandleCreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	order, product, err := paymentService().CreatePaymentOrder(ctx, payment.CheckoutInput{
		AmountRupees:  req.Amount,
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		case errors.Is(err, payment.ErrAmountMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid amount"})
		case errors.Is(err, payment.ErrProviderUnavailable):
			log.Printf("create order failed upstream: %v", err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to create order"})
		default:
			log.Printf("create order failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create order"})
		}
	}

	return c.JSON(struct {
		*payment.ProviderOrder
		Product models.PublicProduct `json:"product"`
	}{order, product.Public()})
}

// HandleVerifyPayment checks the checkout signature reported by the
// client and records the order. Re-submitting the same payment id simply
// returns the already-stored order.
func HandleVerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	mode := payment.VerificationModeFromEnv()
	secret := env.GetEnv("RAZORPAY_KEY_SECRET", "")
	if err := payment.CheckPaymentSignature(mode, req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment signature"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	order, _, err := paymentService().RecordVerifiedPayment(ctx, payment.VerifiedPayment{
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		ProductID:         req.ProductID,
		AmountRupees:      req.Amount,
		CustomerEmail:     req.CustomerEmail,
		CustomerName:      req.CustomerName,
		Source:            models.OrderSourceClient,
	})
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrProductNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		case errors.Is(err, payment.ErrAmountMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment amount mismatch"})
		default:
			log.Printf("verify payment failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to process payment"})
		}
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"order":       order,
		"downloadUrl": "/download/" + order.ID,
	})
}
