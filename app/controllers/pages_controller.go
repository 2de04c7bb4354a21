package controllers

import (
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
)

// Page handlers render the static storefront shells; all dynamic data is
// fetched client-side from the JSON API.

func renderPage(c *fiber.Ctx, view string) error {
	return c.Render(view, fiber.Map{
		"RazorpayKeyID": env.GetEnv("RAZORPAY_KEY_ID", ""),
	})
}

func HandleHome(c *fiber.Ctx) error {
	return renderPage(c, "index")
}

func HandleProductsPage(c *fiber.Ctx) error {
	return renderPage(c, "products")
}

func HandleCartPage(c *fiber.Ctx) error {
	return renderPage(c, "cart")
}

func HandleCheckoutPage(c *fiber.Ctx) error {
	return renderPage(c, "checkout")
}

func HandleSuccessPage(c *fiber.Ctx) error {
	return renderPage(c, "success")
}

func HandleFailedPage(c *fiber.Ctx) error {
	return renderPage(c, "failed")
}

func HandlePaymentPage(c *fiber.Ctx) error {
	return renderPage(c, "payment")
}

func HandleAdminLoginPage(c *fiber.Ctx) error {
	return renderPage(c, "admin/login")
}

func HandleAdminDashboardPage(c *fiber.Ctx) error {
	return renderPage(c, "admin/index")
}

func HandleAdminProductsPage(c *fiber.Ctx) error {
	return renderPage(c, "admin/products")
}

func HandleAdminOrdersPage(c *fiber.Ctx) error {
	return renderPage(c, "admin/orders")
}
