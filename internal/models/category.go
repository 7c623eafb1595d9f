// internal/models/category.go
package models

type Category struct {
	BaseModel
	Name string `json:"name" gorm:"size:255;not null"`

	// Relationships
	Products []Product `json:"products,omitempty" gorm:"many2many:product_category"`
}
