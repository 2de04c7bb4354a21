package payment

import (
	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/app/repository"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the payment service.
type Repository interface {
	GetProductByID(id string) (*models.Product, error)
	CreateOrderIfNotExists(order *models.Order) (bool, *models.Order, error)
	GetOrderByID(id string) (*models.Order, error)
	CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	events   repository.WebhookEventRepository
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{
		products: repository.NewProductRepository(db),
		orders:   repository.NewOrderRepository(db),
		events:   repository.NewWebhookEventRepository(db),
	}
}

func (r *gormRepository) GetProductByID(id string) (*models.Product, error) {
	return r.products.GetByID(id)
}

func (r *gormRepository) CreateOrderIfNotExists(order *models.Order) (bool, *models.Order, error) {
	return r.orders.CreateIfNotExists(order)
}

func (r *gormRepository) GetOrderByID(id string) (*models.Order, error) {
	return r.orders.GetByID(id)
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.PaymentWebhookEvent) (bool, *models.PaymentWebhookEvent, error) {
	return r.events.CreateIfNotExists(event)
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	return r.events.MarkProcessed(id, processingError)
}
