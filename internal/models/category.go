package models

import (
	"time"

	"github.com/google/uuid"
)

// CatalogType distinguishes physical products from e-service offerings.
// Legacy rows created before the field existed carry an empty value and are
// treated as products on the read side.
type CatalogType string

const (
	TypeProduct  CatalogType = "product"
	TypeEService CatalogType = "eservice"
)

// Valid reports whether t is a known catalog type.
func (t CatalogType) Valid() bool {
	return t == TypeProduct || t == TypeEService
}

// Supported store currencies.
const (
	CurrencySYP = "SYP"
	CurrencyUSD = "USD"
)

// ValidCurrency reports whether c is a supported currency code.
func ValidCurrency(c string) bool {
	return c == CurrencySYP || c == CurrencyUSD
}

// Category is a top-level catalog grouping. Its default price, discount and
// description seed products created underneath it.
type Category struct {
	ID              uuid.UUID   `db:"id" json:"id"`
	Name            string      `db:"name" json:"name"`
	Slug            string      `db:"slug" json:"slug"`
	Description     string      `db:"description" json:"description"`
	Image           string      `db:"image" json:"image"`
	DefaultPrice    *float64    `db:"default_price" json:"defaultPrice,omitempty"`
	DefaultDiscount float64     `db:"default_discount" json:"defaultDiscount"`
	Type            CatalogType `db:"type" json:"type"`
	Currency        *string     `db:"currency" json:"currency,omitempty"`
	ParentCategory  *uuid.UUID  `db:"parent_category" json:"parentCategory,omitempty"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time   `db:"updated_at" json:"updatedAt"`
}
