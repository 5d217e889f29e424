package model

import (
	"time"

	"gorm.io/gorm"
)

// Review is a product review. One review per user per product.
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID uint           `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"product_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1 to 5
	Content   string         `gorm:"type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
