package repository

import (
	"github.com/ManuelReschke/NotesKart/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateIfNotExists inserts the order unless one already exists for the
// same provider payment id. The unique index on razorpay_payment_id makes
// the check-and-insert atomic, so two concurrent confirmations for the
// same payment converge on a single row. Returns whether this call
// created the row, plus the stored record either way.
func (r *orderRepository) CreateIfNotExists(order *models.Order) (bool, *models.Order, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "razorpay_payment_id"},
		},
		DoNothing: true,
	}).Create(order)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.Order
	if err := r.db.Where("razorpay_payment_id = ?", order.RazorpayPaymentID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

// GetByID retrieves an order by its ID
func (r *orderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByPaymentID retrieves an order by its provider payment id
func (r *orderRepository) GetByPaymentID(razorpayPaymentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("razorpay_payment_id = ?", razorpayPaymentID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListNewestFirst retrieves all orders, most recent first
func (r *orderRepository) ListNewestFirst() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Count returns the total number of orders
func (r *orderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}
