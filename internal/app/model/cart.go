package model

import (
	"time"
)

// Cart is a user's single shopping cart, created lazily on first add
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is one drink line in a cart. Price is captured from the drink at
// the time the item is added and is the price the order will charge.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_drink" json:"cart_id"`
	DrinkID   uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_drink" json:"drink_id"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Drink *Drink `gorm:"foreignKey:DrinkID" json:"drink,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns the line total for this item
func (ci *CartItem) Subtotal() float64 {
	return ci.Price * float64(ci.Quantity)
}
