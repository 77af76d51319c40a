package models

import (
	"time"

	"github.com/google/uuid"
)

// UnlimitedStock marks a product whose stock is not tracked.
const UnlimitedStock = -1

// Product represents a catalog item, covering both physical products and
// e-service offerings. Price, discount, description, type and image may be
// inherited from the owning sub-category or category at creation time; the
// persisted record always carries resolved values.
type Product struct {
	ID            uuid.UUID   `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	Description   string      `db:"description" json:"description"`
	Price         *float64    `db:"price" json:"price"`
	Discount      float64     `db:"discount" json:"discount"`
	Image         string      `db:"image" json:"image"`
	Type          CatalogType `db:"type" json:"type"`
	CategoryID    uuid.UUID   `db:"category_id" json:"category"`
	SubCategoryID *uuid.UUID  `db:"sub_category_id" json:"subCategory,omitempty"`
	DisplayOrder  int         `db:"display_order" json:"order"`
	Stock         int         `db:"stock" json:"stock"`
	Active        bool        `db:"active" json:"active"`
	Currency      *string     `db:"currency" json:"currency,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`

	// Calculated fields populated on read, not stored.
	FinalPrice             float64 `db:"-" json:"finalPrice"`
	CategoryName           string  `db:"category_name" json:"categoryName,omitempty"`
	SubCategoryName        *string `db:"sub_category_name" json:"subCategoryName,omitempty"`
	SubCategoryDescription *string `db:"sub_category_description" json:"subCategoryDescription,omitempty"`
}

// RecalcFinalPrice refreshes the discount-adjusted price. Products with an
// unresolved price report a final price of zero.
func (p *Product) RecalcFinalPrice() {
	if p.Price == nil {
		p.FinalPrice = 0
		return
	}
	p.FinalPrice = *p.Price * (1 - p.Discount/100)
}
