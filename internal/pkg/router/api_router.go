package router

import (
	"time"

	"github.com/ManuelReschke/NotesKart/app/controllers"
	"github.com/ManuelReschke/NotesKart/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// The webhook stays outside the limiter: dropping provider events to
	// rate limiting would defeat the durability backstop.
	app.Post("/api/webhook/razorpay", controllers.HandleRazorpayWebhook)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))

	api.Get("/config/razorpay-key", controllers.HandleGetRazorpayKey)
	api.Get("/products", controllers.HandleGetProducts)
	api.Get("/product/:id", controllers.HandleGetProduct)

	api.Post("/create-order", controllers.HandleCreateOrder)
	api.Post("/verify-payment", controllers.HandleVerifyPayment)
	api.Get("/order/:orderId", controllers.HandleGetOrder)
	api.Get("/order-pdfs/:orderId", controllers.HandleOrderPDFs)

	api.Post("/admin/login", controllers.HandleAdminLogin)
	api.Get("/orders", middleware.RequireAdmin, controllers.HandleAdminOrders)
	api.Post("/products", middleware.RequireAdmin, controllers.HandleAdminProductCreate)
	api.Put("/products/:id", middleware.RequireAdmin, controllers.HandleAdminProductUpdate)
	api.Delete("/products/:id", middleware.RequireAdmin, controllers.HandleAdminProductDelete)
	api.Post("/test-email", middleware.RequireAdmin, controllers.HandleAdminTestEmail)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
