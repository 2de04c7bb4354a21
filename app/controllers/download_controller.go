package controllers

import (
	"errors"
	"log"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/app/repository"
	"github.com/ManuelReschke/NotesKart/internal/pkg/delivery"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// The download routes answer with plain text on failure: the customer
// lands here from a mail link and there is no retry path besides support.

func loadDownloadableOrder(c *fiber.Ctx) (*models.Order, error) {
	repo := repository.GetGlobalFactory().GetOrderRepository()
	order, err := repo.GetByID(c.Params("orderId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).SendString("Order not found. Please contact support.")
		}
		return nil, c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please contact support.")
	}
	if err := delivery.CheckDownloadable(order); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).SendString("Payment not completed. Please make payment to get PDFs.")
	}
	return order, nil
}

// HandleDownload streams the first deliverable document of an order.
func HandleDownload(c *fiber.Ctx) error {
	order, err := loadDownloadableOrder(c)
	if order == nil {
		return err
	}

	files, err := delivery.ResolveFiles(delivery.StorageRoot(), order)
	if err != nil {
		if errors.Is(err, delivery.ErrAssetMissing) {
			return c.Status(fiber.StatusNotFound).SendString("PDF not found. Please contact support.")
		}
		log.Printf("download for order %s failed: %v", order.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please contact support.")
	}

	return c.Download(files[0].Path, files[0].Name)
}

// HandleDownloadAll streams every document of a folder asset as one ZIP.
func HandleDownloadAll(c *fiber.Ctx) error {
	order, err := loadDownloadableOrder(c)
	if order == nil {
		return err
	}
	if !order.AssetIsFolder {
		return c.Status(fiber.StatusNotFound).SendString("PDF folder not found. Please contact support.")
	}

	files, err := delivery.ResolveFiles(delivery.StorageRoot(), order)
	if err != nil {
		if errors.Is(err, delivery.ErrAssetMissing) {
			return c.Status(fiber.StatusNotFound).SendString("No PDFs found. Please contact support.")
		}
		log.Printf("download-all for order %s failed: %v", order.ID, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please contact support.")
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Attachment(delivery.ArchiveName(order.ProductName))
	if err := delivery.WriteArchive(c, files); err != nil {
		// Headers are already out; all we can do is log the broken stream.
		log.Printf("zip stream for order %s failed: %v", order.ID, err)
	}
	return nil
}
