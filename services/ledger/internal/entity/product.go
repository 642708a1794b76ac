package entity

import "time"

type ProductType string

const (
	ProductTypePhysical ProductType = "PHYSICAL"
	ProductTypeDigital  ProductType = "DIGITAL"
)

func (t ProductType) Valid() bool {
	return t == ProductTypePhysical || t == ProductTypeDigital
}

// Product is merchandise priced in coins. Stock is nil when not tracked.
type Product struct {
	ID          string      `json:"id"`
	MerchantID  string      `json:"merchant_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Type        ProductType `json:"type"`
	Price       int64       `json:"price"`
	Stock       *int        `json:"stock,omitempty"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (p *Product) OutOfStock() bool {
	return p.Stock != nil && *p.Stock <= 0
}
