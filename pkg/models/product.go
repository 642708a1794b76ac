package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product prices are in coins. A nil Stock means the product is not stock-tracked.
type Product struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	MerchantID  string    `gorm:"type:uuid;not null;index" json:"merchant_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"index" json:"category"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Price       int64     `gorm:"not null" json:"price"`
	Stock       *int      `json:"stock,omitempty"`
	IsActive    bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
