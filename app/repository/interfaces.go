package repository

import (
	"github.com/ManuelReschke/NotesKart/app/models"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for catalog database operations
type ProductRepository interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	GetAll() ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id string) error
	Count() (int64, error)
}

// OrderRepository defines the interface for order database operations.
// CreateIfNotExists is the single write path for orders: it inserts the
// record only when no order with the same provider payment id exists and
// reports whether this call won the insert.
type OrderRepository interface {
	CreateIfNotExists(order *models.Order) (bool, *models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByPaymentID(razorpayPaymentID string) (*models.Order, error)
	ListNewestFirst() ([]models.Order, error)
	Count() (int64, error)
}

// WebhookEventRepository defines the interface for webhook event persistence
type WebhookEventRepository interface {
	CreateIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkProcessed(id uint, processingError string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	Product      ProductRepository
	Order        OrderRepository
	WebhookEvent WebhookEventRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:      NewProductRepository(db),
		Order:        NewOrderRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
	}
}
