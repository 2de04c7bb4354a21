package router

import (
	"time"

	"github.com/ManuelReschke/NotesKart/app/controllers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	h.registerPageRoutes(app)
	h.registerDownloadRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) registerPageRoutes(app *fiber.App) {
	app.Get("/", controllers.HandleHome)
	app.Get("/products", controllers.HandleProductsPage)
	app.Get("/cart", controllers.HandleCartPage)
	app.Get("/checkout", controllers.HandleCheckoutPage)
	app.Get("/success", controllers.HandleSuccessPage)
	app.Get("/failed", controllers.HandleFailedPage)
	app.Get("/payment", controllers.HandlePaymentPage)

	app.Get("/admin/login", controllers.HandleAdminLoginPage)
	app.Get("/admin", controllers.HandleAdminDashboardPage)
	app.Get("/admin/products", controllers.HandleAdminProductsPage)
	app.Get("/admin/orders", controllers.HandleAdminOrdersPage)
}

func (h HttpRouter) registerDownloadRoutes(app *fiber.App) {
	// Order ids are bearer capabilities with no expiry; the limiter keeps
	// a leaked id from being farmed.
	dl := app.Group("/", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	dl.Get("/download/:orderId", controllers.HandleDownload)
	dl.Get("/download-all/:orderId", controllers.HandleDownloadAll)
}
