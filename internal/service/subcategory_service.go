package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/cache"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/ordering"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/utils"
)

// SubCategoryService handles sub-category CRUD and sibling reordering.
type SubCategoryService struct {
	subCategories *repository.SubCategoryRepository
	categories    *repository.CategoryRepository
	cache         *cache.CatalogCache
	images        ImageStore
}

// NewSubCategoryService constructs a SubCategoryService.
func NewSubCategoryService(subCategories *repository.SubCategoryRepository, categories *repository.CategoryRepository, catalogCache *cache.CatalogCache, images ImageStore) *SubCategoryService {
	return &SubCategoryService{subCategories: subCategories, categories: categories, cache: catalogCache, images: images}
}

// CreateSubCategoryRequest represents the request to create a sub-category.
type CreateSubCategoryRequest struct {
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	DefaultPrice    *float64  `json:"defaultPrice"`
	DefaultDiscount *float64  `json:"defaultDiscount"`
	CategoryID      uuid.UUID `json:"category" binding:"required"`
	Type            string    `json:"type"`
	Currency        *string   `json:"currency"`
}

// UpdateSubCategoryRequest represents a partial sub-category update.
type UpdateSubCategoryRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Image           *string    `json:"image"`
	DefaultPrice    *float64   `json:"defaultPrice"`
	DefaultDiscount *float64   `json:"defaultDiscount"`
	CategoryID      *uuid.UUID `json:"category"`
	Type            *string    `json:"type"`
	Currency        *string    `json:"currency"`
}

// List returns sub-categories filtered by type and/or parent.
func (s *SubCategoryService) List(ctx context.Context, catalogType string, categoryID *uuid.UUID) ([]models.SubCategory, error) {
	subs, err := s.subCategories.GetAll(ctx, catalogType, categoryID)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to retrieve sub-categories")
	}
	return subs, nil
}

// Get returns a single sub-category.
func (s *SubCategoryService) Get(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	sub, err := s.subCategories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Sub-category not found")
		}
		return nil, utils.Unknown(err, "Failed to retrieve sub-category")
	}
	return sub, nil
}

// Create adds a sub-category at the end of its parent's display order. The
// parent category must exist; missing defaults fall back to the parent at
// product-creation time, not here.
func (s *SubCategoryService) Create(ctx context.Context, req *CreateSubCategoryRequest) (*models.SubCategory, error) {
	parent, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.Validation("Invalid parent category")
		}
		return nil, utils.Unknown(err, "Failed to create sub-category")
	}

	catalogType := models.CatalogType(req.Type)
	if catalogType == "" {
		catalogType = parent.Type
	}
	if catalogType == "" {
		catalogType = models.TypeProduct
	}
	if !catalogType.Valid() {
		return nil, utils.Validation("invalid type %q", req.Type)
	}
	if req.Currency != nil && !models.ValidCurrency(*req.Currency) {
		return nil, utils.Validation("invalid currency %q", *req.Currency)
	}

	order, err := ordering.NextOrder(ctx, s.subCategories.ScopeStore(parent.ID))
	if err != nil {
		return nil, utils.Unknown(err, "Failed to create sub-category")
	}

	sub := &models.SubCategory{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         utils.Slugify(req.Name),
		Description:  req.Description,
		Image:        req.Image,
		DefaultPrice: req.DefaultPrice,
		CategoryID:   parent.ID,
		Type:         catalogType,
		Currency:     req.Currency,
		DisplayOrder: order,
	}
	if req.DefaultDiscount != nil {
		sub.DefaultDiscount = *req.DefaultDiscount
	}

	if image, err := s.images.StoreImage(ctx, "subcategory", sub.ID, sub.Image); err != nil {
		return nil, utils.Validation("%s", err.Error())
	} else {
		sub.Image = image
	}

	if err := s.subCategories.Create(ctx, sub); err != nil {
		return nil, utils.Unknown(err, "Failed to create sub-category")
	}
	sub.CategoryName = parent.Name
	s.cache.InvalidateCatalog(ctx)
	return sub, nil
}

// Update applies a partial update. Moving to another parent appends the
// sub-category to the end of the new parent's order.
func (s *SubCategoryService) Update(ctx context.Context, id uuid.UUID, req *UpdateSubCategoryRequest) (*models.SubCategory, error) {
	sub, err := s.subCategories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Sub-category not found")
		}
		return nil, utils.Unknown(err, "Failed to update sub-category")
	}

	if req.Name != nil {
		sub.Name = *req.Name
		sub.Slug = utils.Slugify(*req.Name)
	}
	if req.Description != nil {
		sub.Description = *req.Description
	}
	if req.Image != nil {
		image, err := s.images.StoreImage(ctx, "subcategory", sub.ID, *req.Image)
		if err != nil {
			return nil, utils.Validation("%s", err.Error())
		}
		sub.Image = image
	}
	if req.DefaultPrice != nil {
		sub.DefaultPrice = req.DefaultPrice
	}
	if req.DefaultDiscount != nil {
		sub.DefaultDiscount = *req.DefaultDiscount
	}
	if req.Type != nil {
		t := models.CatalogType(*req.Type)
		if !t.Valid() {
			return nil, utils.Validation("invalid type %q", *req.Type)
		}
		sub.Type = t
	}
	if req.Currency != nil {
		if *req.Currency != "" && !models.ValidCurrency(*req.Currency) {
			return nil, utils.Validation("invalid currency %q", *req.Currency)
		}
		sub.Currency = req.Currency
	}
	if req.CategoryID != nil && *req.CategoryID != sub.CategoryID {
		parent, err := s.categories.GetByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, utils.Validation("Invalid parent category")
			}
			return nil, utils.Unknown(err, "Failed to update sub-category")
		}
		order, err := ordering.NextOrder(ctx, s.subCategories.ScopeStore(parent.ID))
		if err != nil {
			return nil, utils.Unknown(err, "Failed to update sub-category")
		}
		sub.CategoryID = parent.ID
		sub.CategoryName = parent.Name
		sub.DisplayOrder = order
	}

	if err := s.subCategories.Update(ctx, sub); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Sub-category not found")
		}
		return nil, utils.Unknown(err, "Failed to update sub-category")
	}
	s.cache.InvalidateCatalog(ctx)
	return sub, nil
}

// Move shifts a sub-category one step up or down among its siblings.
func (s *SubCategoryService) Move(ctx context.Context, id uuid.UUID, dir ordering.Direction) (*ordering.MoveResult, error) {
	if !dir.Valid() {
		return nil, utils.Validation("direction must be up or down")
	}
	sub, err := s.subCategories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Sub-category not found")
		}
		return nil, utils.Unknown(err, "Failed to move sub-category")
	}

	res, err := ordering.Move(ctx, s.subCategories.ScopeStore(sub.CategoryID), id, dir)
	if err != nil {
		if errors.Is(err, ordering.ErrNotInScope) {
			return nil, utils.NotFound("Sub-category not found")
		}
		return nil, utils.Unknown(err, "Failed to move sub-category")
	}
	s.cache.InvalidateCatalog(ctx)
	return res, nil
}

// Delete removes a sub-category. Products keep their dangling reference.
func (s *SubCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.subCategories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Sub-category not found")
		}
		return utils.Unknown(err, "Failed to delete sub-category")
	}
	s.cache.InvalidateCatalog(ctx)
	return nil
}
