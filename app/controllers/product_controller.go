package controllers

import (
	"errors"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/app/repository"
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleGetRazorpayKey exposes the public Razorpay key id for checkout.js.
func HandleGetRazorpayKey(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"keyId": env.GetEnv("RAZORPAY_KEY_ID", "")})
}

// HandleGetProducts returns the public catalog. Asset locations are
// stripped from the projection.
func HandleGetProducts(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProductRepository()
	products, err := repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load products"})
	}

	safe := make([]models.PublicProduct, 0, len(products))
	for i := range products {
		safe = append(safe, products[i].Public())
	}
	return c.JSON(safe)
}

// HandleGetProduct returns a single public product.
func HandleGetProduct(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetProductRepository()
	product, err := repo.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load product"})
	}
	return c.JSON(product.Public())
}
