// Package catalog implements the default inheritance rules of the product
// catalog: the category → sub-category → product value chain used when a
// product is created or updated with partial input. It is free of I/O.
package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/utils"
)

// ProductInput is a patch-style view of the caller-supplied product fields.
// A nil pointer means the field was absent from the request, which is not
// the same as a present zero value (e.g. an explicit discount of 0).
type ProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Discount    *float64
	Image       *string
	Type        *models.CatalogType
	Currency    *string
}

// Resolved holds the effective values to persist for a product after the
// inheritance chain has been applied.
type Resolved struct {
	CategoryID  uuid.UUID
	Price       float64
	Discount    float64
	Description string
	Type        models.CatalogType
	Image       string
	Currency    *string
}

// ResolveProductDefaults computes the effective persisted values for a
// product given its declared ancestry. When sub is non-nil its parent
// category is authoritative and cat is expected to be that parent; a
// directly-supplied category id has already been overwritten by the caller.
//
// Image policy: a product always keeps its own image. Sub-category images are
// never substituted, even for e-service items.
func ResolveProductDefaults(in ProductInput, cat *models.Category, sub *models.SubCategory) (*Resolved, error) {
	if cat == nil && sub == nil {
		return nil, utils.Validation("category required")
	}

	out := &Resolved{}
	if sub != nil {
		out.CategoryID = sub.CategoryID
	} else {
		out.CategoryID = cat.ID
	}

	out.Type = resolveType(in, cat, sub)
	if out.Type == models.TypeEService && sub == nil {
		return nil, utils.Validation("sub-category required for e-services")
	}

	price, ok := resolvePrice(in, cat, sub)
	if !ok {
		return nil, utils.Validation("price required")
	}
	out.Price = price

	out.Discount = resolveDiscount(in, cat, sub)
	out.Description = resolveDescription(in, cat, sub)
	out.Currency = resolveCurrency(in, cat, sub)

	if in.Image != nil {
		out.Image = *in.Image
	}

	return out, nil
}

func resolveType(in ProductInput, cat *models.Category, sub *models.SubCategory) models.CatalogType {
	if in.Type != nil && *in.Type != "" {
		return *in.Type
	}
	if sub != nil && sub.Type != "" {
		return sub.Type
	}
	if cat != nil && cat.Type != "" {
		return cat.Type
	}
	return models.TypeProduct
}

func resolvePrice(in ProductInput, cat *models.Category, sub *models.SubCategory) (float64, bool) {
	if in.Price != nil {
		return *in.Price, true
	}
	if sub != nil && sub.DefaultPrice != nil {
		return *sub.DefaultPrice, true
	}
	if cat != nil && cat.DefaultPrice != nil {
		return *cat.DefaultPrice, true
	}
	return 0, false
}

// resolveDiscount mirrors the price chain. Default discounts are stored as
// plain numbers with 0 meaning unset, so a zero ancestor value falls through
// to the next level and the floor is 0.
func resolveDiscount(in ProductInput, cat *models.Category, sub *models.SubCategory) float64 {
	if in.Discount != nil {
		return *in.Discount
	}
	if sub != nil && sub.DefaultDiscount != 0 {
		return sub.DefaultDiscount
	}
	if cat != nil && cat.DefaultDiscount != 0 {
		return cat.DefaultDiscount
	}
	return 0
}

func resolveDescription(in ProductInput, cat *models.Category, sub *models.SubCategory) string {
	if in.Description != nil {
		if d := strings.TrimSpace(*in.Description); d != "" {
			return d
		}
	}
	if sub != nil && sub.Description != "" {
		return sub.Description
	}
	if cat != nil && cat.Description != "" {
		return cat.Description
	}
	return ""
}

func resolveCurrency(in ProductInput, cat *models.Category, sub *models.SubCategory) *string {
	if in.Currency != nil && *in.Currency != "" {
		c := *in.Currency
		return &c
	}
	if sub != nil && sub.Currency != nil {
		c := *sub.Currency
		return &c
	}
	if cat != nil && cat.Currency != nil {
		c := *cat.Currency
		return &c
	}
	return nil
}
