package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a purchasable set of study materials. Price is the
// canonical amount in whole rupees; client-submitted amounts are always
// validated against it.
type Product struct {
	ID            string    `gorm:"type:varchar(40);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=3,max=255"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         int       `gorm:"not null" json:"price" validate:"required,gt=0"`
	OriginalPrice int       `json:"originalPrice"`
	Image         string    `gorm:"type:varchar(255)" json:"image"`
	Category      string    `gorm:"type:varchar(100);index" json:"category"`
	Featured      bool      `gorm:"default:false" json:"featured"`
	InStock       bool      `gorm:"default:true" json:"inStock"`
	PaymentLink   string    `gorm:"type:varchar(255)" json:"paymentLink"`
	SamplePDF     string    `gorm:"type:varchar(255)" json:"samplePdf"`
	AssetPath     string    `gorm:"type:varchar(255);not null" json:"-" validate:"required"`
	AssetIsFolder bool      `gorm:"default:false" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// NewProductID generates a fresh catalog identifier.
func NewProductID() string {
	return "prod_" + uuid.NewString()[:8]
}

// PublicProduct is the customer-facing projection of a product. The
// asset location never leaves the server.
type PublicProduct struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int    `json:"price"`
	OriginalPrice int    `json:"originalPrice"`
	Image         string `json:"image"`
	Category      string `json:"category"`
	Featured      bool   `json:"featured"`
	InStock       bool   `json:"inStock"`
	PaymentLink   string `json:"paymentLink"`
	SamplePDF     string `json:"samplePdf"`
}

// Public strips server-only fields for API responses.
func (p *Product) Public() PublicProduct {
	return PublicProduct{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Category:      p.Category,
		Featured:      p.Featured,
		InStock:       p.InStock,
		PaymentLink:   p.PaymentLink,
		SamplePDF:     p.SamplePDF,
	}
}
