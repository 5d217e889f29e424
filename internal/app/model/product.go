package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductCategory classifies an ingredient within a drink recipe
type ProductCategory string

const (
	CategoryBase    ProductCategory = "base"    // cocoa bases
	CategoryMilk    ProductCategory = "milk"    // milk and milk substitutes
	CategorySyrup   ProductCategory = "syrup"   // flavour syrups
	CategoryTopping ProductCategory = "topping" // whipped cream, marshmallow, ...
)

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         float64         `gorm:"not null" json:"price"`
	Category      ProductCategory `gorm:"type:varchar(50)" json:"category"`
	StockQuantity int             `gorm:"default:0" json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	DrinkProducts []DrinkProduct `gorm:"foreignKey:ProductID" json:"-"`
	Reviews       []Review       `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
