package models

import (
	"time"

	"github.com/google/uuid"
)

// SubCategory is a second-level catalog grouping owned by a category. Its
// display order is scoped to siblings under the same parent.
type SubCategory struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Name            string      `db:"name" json:"name"`
	Slug            string      `db:"slug" json:"slug"`
	Description     string      `db:"description" json:"description"`
	Image           string      `db:"image" json:"image"`
	DefaultPrice    *float64    `db:"default_price" json:"defaultPrice,omitempty"`
	DefaultDiscount float64     `db:"default_discount" json:"defaultDiscount"`
	CategoryID      uuid.UUID   `db:"category_id" json:"category"`
	Type            CatalogType `db:"type" json:"type"`
	Currency        *string     `db:"currency" json:"currency,omitempty"`
	DisplayOrder    int         `db:"display_order" json:"order"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`

	// Populated on read from the parent join, not stored.
	CategoryName string `db:"category_name" json:"categoryName,omitempty"`
}
