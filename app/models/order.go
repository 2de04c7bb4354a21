package models

import "time"

// Order status values. Orders are only ever written after a verified
// payment, so `completed` is the single reachable state.
const (
	OrderStatusCompleted = "completed"
)

// Order provenance: who confirmed the payment first.
const (
	OrderSourceClient  = "client"
	OrderSourceWebhook = "webhook"
)

// Order is the durable proof that a payment was verified and a product
// was unlocked. The unique index on razorpay_payment_id is the
// idempotency contract: at most one order can ever exist per provider
// payment. Product name and asset location are snapshotted at creation
// time so later catalog edits never break old downloads.
type Order struct {
	ID                string    `gorm:"type:varchar(40);primaryKey" json:"id"`
	RazorpayOrderID   string    `gorm:"type:varchar(64);not null;index" json:"razorpayOrderId"`
	RazorpayPaymentID string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_orders_razorpay_payment_id" json:"razorpayPaymentId"`
	ProductID         string    `gorm:"type:varchar(40);not null;index" json:"productId"`
	ProductName       string    `gorm:"type:varchar(255);not null" json:"productName"`
	AssetPath         string    `gorm:"type:varchar(255);not null" json:"-"`
	AssetIsFolder     bool      `gorm:"default:false" json:"-"`
	CustomerEmail     string    `gorm:"type:varchar(255)" json:"customerEmail"`
	CustomerName      string    `gorm:"type:varchar(255)" json:"customerName"`
	Amount            int       `gorm:"not null" json:"amount"`
	Status            string    `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod     string    `gorm:"type:varchar(40)" json:"paymentMethod,omitempty"`
	Source            string    `gorm:"type:varchar(20);not null;default:'client'" json:"source"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
