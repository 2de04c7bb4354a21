package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/app/repository"
	"github.com/ManuelReschke/NotesKart/internal/pkg/cache"
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
	"github.com/ManuelReschke/NotesKart/internal/pkg/mail"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const adminTokenTTL = 12 * time.Hour
const adminTokenKeyPrefix = "admin_token:"

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type productRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=255"`
	Description   string `json:"description"`
	Price         int    `json:"price" validate:"required,gt=0"`
	OriginalPrice int    `json:"originalPrice"`
	Image         string `json:"image"`
	Category      string `json:"category"`
	Featured      bool   `json:"featured"`
	InStock       *bool  `json:"inStock"`
	PaymentLink   string `json:"paymentLink"`
	SamplePDF     string `json:"samplePdf"`
	AssetPath     string `json:"assetPath" validate:"required"`
	AssetIsFolder bool   `json:"assetIsFolder"`
}

// HandleAdminLogin issues an opaque bearer token kept in the cache.
// Prefer ADMIN_PASSWORD_HASH (bcrypt); the plain ADMIN_PASS comparison
// only exists for local setups without hashed credentials.
func HandleAdminLogin(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if req.Username != env.GetEnv("ADMIN_USER", "admin") || !adminPasswordMatches(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Invalid credentials"})
	}

	token := uuid.NewString()
	if err := cache.Set(adminTokenKeyPrefix+token, "1", adminTokenTTL); err != nil {
		log.Printf("storing admin token failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "Login temporarily unavailable"})
	}
	return c.JSON(fiber.Map{"success": true, "token": token})
}

func adminPasswordMatches(password string) bool {
	if hash := env.GetEnv("ADMIN_PASSWORD_HASH", ""); hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return password != "" && password == env.GetEnv("ADMIN_PASS", "")
}

// HandleAdminOrders lists all orders, most recent first.
func HandleAdminOrders(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetOrderRepository()
	orders, err := repo.ListNewestFirst()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load orders"})
	}
	return c.JSON(orders)
}

// HandleAdminProductCreate adds a catalog entry.
func HandleAdminProductCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	product := productFromRequest(&req)
	product.ID = models.NewProductID()

	repo := repository.GetGlobalFactory().GetProductRepository()
	if err := repo.Create(product); err != nil {
		log.Printf("product create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add product"})
	}
	return c.JSON(product)
}

// HandleAdminProductUpdate replaces a catalog entry.
func HandleAdminProductUpdate(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProductRepository()
	existing, err := repo.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load product"})
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated := productFromRequest(&req)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := repo.Update(updated); err != nil {
		log.Printf("product update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(updated)
}

// HandleAdminProductDelete removes a catalog entry. Existing orders keep
// working off their snapshots.
func HandleAdminProductDelete(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProductRepository()
	if err := repo.Delete(c.Params("id")); err != nil {
		log.Printf("product delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// HandleAdminTestEmail sends a test mail to verify SMTP settings. The
// recipient defaults to the configured sender address.
func HandleAdminTestEmail(c *fiber.Ctx) error {
	var req struct {
		To string `json:"to"`
	}
	_ = c.BodyParser(&req)

	to := req.To
	if to == "" {
		to = env.GetEnv("SMTP_SENDER", "")
	}
	if to == "" {
		return c.JSON(fiber.Map{"success": false, "error": "SMTP_SENDER is not configured"})
	}
	err := mail.SendMail(to, "NotesKart - Email Test",
		"<h1>Email Test Successful!</h1><p>If you receive this email, the email system is working correctly.</p>")
	if err != nil {
		return c.JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Test email sent successfully!"})
}

func productFromRequest(req *productRequest) *models.Product {
	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	return &models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Image:         req.Image,
		Category:      req.Category,
		Featured:      req.Featured,
		InStock:       inStock,
		PaymentLink:   req.PaymentLink,
		SamplePDF:     req.SamplePDF,
		AssetPath:     req.AssetPath,
		AssetIsFolder: req.AssetIsFolder,
	}
}
