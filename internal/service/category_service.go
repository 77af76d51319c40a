package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/cache"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/utils"
)

// CategoryService handles category CRUD and default propagation.
type CategoryService struct {
	categories *repository.CategoryRepository
	cache      *cache.CatalogCache
	images     ImageStore
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories *repository.CategoryRepository, catalogCache *cache.CatalogCache, images ImageStore) *CategoryService {
	return &CategoryService{categories: categories, cache: catalogCache, images: images}
}

// CreateCategoryRequest represents the request to create a category.
type CreateCategoryRequest struct {
	Name            string     `json:"name" binding:"required"`
	Description     string     `json:"description"`
	Image           string     `json:"image"`
	DefaultPrice    *float64   `json:"defaultPrice"`
	DefaultDiscount *float64   `json:"defaultDiscount"`
	Type            string     `json:"type"`
	Currency        *string    `json:"currency"`
	ParentCategory  *uuid.UUID `json:"parentCategory"`
}

// UpdateCategoryRequest represents a partial category update. Nil pointer
// fields were absent from the request and stay untouched.
type UpdateCategoryRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Image           *string    `json:"image"`
	DefaultPrice    *float64   `json:"defaultPrice"`
	DefaultDiscount *float64   `json:"defaultDiscount"`
	Type            *string    `json:"type"`
	Currency        *string    `json:"currency"`
	ParentCategory  *uuid.UUID `json:"parentCategory"`

	// When set, the supplied defaults are also pushed down to every product
	// in the category.
	ApplyDefaultsToProducts bool `json:"applyDefaultsToProducts"`
}

// List returns categories, optionally filtered by type.
func (s *CategoryService) List(ctx context.Context, catalogType string) ([]models.Category, error) {
	categories, err := s.categories.GetAll(ctx, catalogType)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to retrieve categories")
	}
	return categories, nil
}

// Get returns a single category.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Category not found")
		}
		return nil, utils.Unknown(err, "Failed to retrieve category")
	}
	return c, nil
}

// Create adds a new category. The slug is derived from the name; both must
// be unique.
func (s *CategoryService) Create(ctx context.Context, req *CreateCategoryRequest) (*models.Category, error) {
	catalogType := models.CatalogType(req.Type)
	if catalogType == "" {
		catalogType = models.TypeProduct
	}
	if !catalogType.Valid() {
		return nil, utils.Validation("invalid type %q", req.Type)
	}
	if req.Currency != nil && !models.ValidCurrency(*req.Currency) {
		return nil, utils.Validation("invalid currency %q", *req.Currency)
	}

	c := &models.Category{
		ID:             uuid.New(),
		Name:           req.Name,
		Slug:           utils.Slugify(req.Name),
		Description:    req.Description,
		Image:          req.Image,
		DefaultPrice:   req.DefaultPrice,
		Type:           catalogType,
		Currency:       req.Currency,
		ParentCategory: req.ParentCategory,
	}
	if req.DefaultDiscount != nil {
		c.DefaultDiscount = *req.DefaultDiscount
	}

	taken, err := s.categories.NameOrSlugExists(ctx, c.Name, c.Slug, c.ID)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to create category")
	}
	if taken {
		return nil, utils.Validation("category name already exists")
	}

	if image, err := s.images.StoreImage(ctx, "category", c.ID, c.Image); err != nil {
		return nil, utils.Validation("%s", err.Error())
	} else {
		c.Image = image
	}

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, utils.Unknown(err, "Failed to create category")
	}
	s.cache.InvalidateCatalog(ctx)
	return c, nil
}

// Update applies a partial update. Renaming regenerates the slug.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Category not found")
		}
		return nil, utils.Unknown(err, "Failed to update category")
	}

	if req.Name != nil {
		c.Name = *req.Name
		c.Slug = utils.Slugify(*req.Name)
		taken, err := s.categories.NameOrSlugExists(ctx, c.Name, c.Slug, c.ID)
		if err != nil {
			return nil, utils.Unknown(err, "Failed to update category")
		}
		if taken {
			return nil, utils.Validation("category name already exists")
		}
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Image != nil {
		image, err := s.images.StoreImage(ctx, "category", c.ID, *req.Image)
		if err != nil {
			return nil, utils.Validation("%s", err.Error())
		}
		c.Image = image
	}
	if req.DefaultPrice != nil {
		c.DefaultPrice = req.DefaultPrice
	}
	if req.DefaultDiscount != nil {
		c.DefaultDiscount = *req.DefaultDiscount
	}
	if req.Type != nil {
		t := models.CatalogType(*req.Type)
		if !t.Valid() {
			return nil, utils.Validation("invalid type %q", *req.Type)
		}
		c.Type = t
	}
	if req.Currency != nil {
		if *req.Currency != "" && !models.ValidCurrency(*req.Currency) {
			return nil, utils.Validation("invalid currency %q", *req.Currency)
		}
		c.Currency = req.Currency
	}
	if req.ParentCategory != nil {
		c.ParentCategory = req.ParentCategory
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, utils.Unknown(err, "Failed to update category")
	}

	if req.ApplyDefaultsToProducts {
		if err := s.categories.ApplyDefaultsToProducts(ctx, c.ID, req.DefaultPrice, req.DefaultDiscount, req.Description); err != nil {
			log.Error().Err(err).Str("category", c.ID.String()).Msg("default propagation failed")
		}
	}

	s.cache.InvalidateCatalog(ctx)
	return c, nil
}

// Delete removes a category. Products keep their now-dangling reference;
// listings treat it as no category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Category not found")
		}
		return utils.Unknown(err, "Failed to delete category")
	}
	s.cache.InvalidateCatalog(ctx)
	return nil
}
