package model

import (
	"time"

	"gorm.io/gorm"
)

type Address struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"`
	Recipient     string         `gorm:"not null" json:"recipient"`
	Phone         string         `gorm:"not null" json:"phone"`
	ZipCode       string         `gorm:"not null" json:"zip_code"`
	Address       string         `gorm:"not null" json:"address"`
	DetailAddress string         `json:"detail_address"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Address) TableName() string {
	return "addresses"
}
