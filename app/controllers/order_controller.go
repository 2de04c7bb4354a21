package controllers

import (
	"errors"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/app/repository"
	"github.com/ManuelReschke/NotesKart/internal/pkg/delivery"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleGetOrder returns an order with its product for the success page.
// The order id acts as the capability: whoever holds it may query it.
func HandleGetOrder(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	order, err := repos.Order.GetByID(c.Params("orderId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load order"})
	}
	if order.Status != models.OrderStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment not completed"})
	}

	var product *models.PublicProduct
	if p, err := repos.Product.GetByID(order.ProductID); err == nil {
		pp := p.Public()
		product = &pp
	}

	return c.JSON(fiber.Map{
		"order":         order,
		"product":       product,
		"downloadReady": true,
	})
}

// HandleOrderPDFs lists the deliverable files of an order for preview.
func HandleOrderPDFs(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()
	order, err := repos.Order.GetByID(c.Params("orderId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load order"})
	}
	if order.Status != models.OrderStatusCompleted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment not completed"})
	}

	files, err := delivery.ResolveFiles(delivery.StorageRoot(), order)
	if err != nil {
		if errors.Is(err, delivery.ErrAssetMissing) {
			return c.JSON(fiber.Map{"productName": order.ProductName, "files": []delivery.File{}, "totalFiles": 0})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list files"})
	}

	return c.JSON(fiber.Map{
		"productName": order.ProductName,
		"files":       files,
		"totalFiles":  len(files),
	})
}
