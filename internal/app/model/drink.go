package model

import (
	"time"
)

// Drink is a concrete hot-chocolate recipe. Two drinks with the same set of
// ingredients and quantities are the same drink: UniqueID is the canonical
// encoding of the composition and carries a unique index, so the recipe
// catalogue is deduplicated at the database level.
type Drink struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Description string    `gorm:"type:text" json:"description"`
	BasePrice   float64   `gorm:"not null" json:"base_price"`
	ImageURL    string    `json:"image_url"`
	UniqueID    string    `gorm:"uniqueIndex;not null" json:"unique_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	DrinkProducts []DrinkProduct `gorm:"foreignKey:DrinkID" json:"drink_products,omitempty"`
	UserDrinks    []UserDrink    `gorm:"foreignKey:DrinkID" json:"-"`
}

func (Drink) TableName() string {
	return "drinks"
}

// DrinkProduct is one ingredient line of a drink recipe
type DrinkProduct struct {
	ID        uint `gorm:"primarykey" json:"id"`
	DrinkID   uint `gorm:"not null;index" json:"drink_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (DrinkProduct) TableName() string {
	return "drink_products"
}

// UserDrink is a user's saved (named) drink. A user can save a given drink
// only once; the name is theirs, the recipe is shared.
type UserDrink struct {
	ID        uint      `gorm:"primarykey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_drinks_user_drink" json:"user_id"`
	DrinkID   uint      `gorm:"not null;uniqueIndex:idx_user_drinks_user_drink" json:"drink_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Drink *Drink `gorm:"foreignKey:DrinkID" json:"drink,omitempty"`
}

func (UserDrink) TableName() string {
	return "user_drinks"
}
