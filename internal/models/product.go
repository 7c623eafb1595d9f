// internal/models/product.go
package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `json:"name" gorm:"size:255;not null;index:idx_products_name,unique,where:deleted_at IS NULL"`
	SKU         string          `json:"sku" gorm:"size:100;not null;index:idx_products_sku,unique,where:deleted_at IS NULL"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0.00"`
	Stock       int             `json:"stock" gorm:"not null;default:0"`
	Image       string          `json:"image,omitempty" gorm:"size:512"`
	Status      ProductStatus   `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`

	// Relationships
	Categories []Category `json:"categories" gorm:"many2many:product_category"`
}
