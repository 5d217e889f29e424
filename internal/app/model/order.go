package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodPayPay      PaymentMethod = "paypay"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodConvenience PaymentMethod = "convenience"
)

// IsValid reports whether m is an accepted payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPayPay, PaymentMethodCard, PaymentMethodConvenience:
		return true
	}
	return false
}

type Order struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	AddressID     uint          `gorm:"not null" json:"address_id"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	TotalAmount   float64       `gorm:"not null" json:"total_amount"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relationships
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Address *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshot of one cart line at checkout time. Price is copied
// from the cart item, never re-read from the drink.
type OrderItem struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"order_id"`
	DrinkID  uint    `gorm:"not null;index" json:"drink_id"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"`

	Drink *Drink `gorm:"foreignKey:DrinkID" json:"drink,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
