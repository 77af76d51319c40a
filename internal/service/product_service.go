package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/catalog"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/ordering"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/utils"
)

// ProductStore is the product persistence surface the service drives.
type ProductStore interface {
	GetAll(ctx context.Context, filter *repository.ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Reassign(ctx context.Context, id uuid.UUID, categoryID uuid.UUID, subCategoryID *uuid.UUID, order int, description *string) error
	ScopeStore(scope repository.ProductScope) ordering.Store
}

// CategoryReader resolves categories by id or slug.
type CategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// SubCategoryReader resolves sub-categories by id or slug.
type SubCategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error)
	GetBySlug(ctx context.Context, slug string) (*models.SubCategory, error)
}

// Cacher is the slice of the catalog cache the services use.
type Cacher interface {
	GetSettings(ctx context.Context) *models.Settings
	SetSettings(ctx context.Context, s *models.Settings)
	InvalidateSettings(ctx context.Context)
	GetListing(ctx context.Context, key string, out interface{}) bool
	SetListing(ctx context.Context, key string, payload interface{})
	InvalidateCatalog(ctx context.Context)
}

// ProductService handles product CRUD, default resolution, reordering and
// batch re-scoping.
type ProductService struct {
	products      ProductStore
	categories    CategoryReader
	subCategories SubCategoryReader
	cache         Cacher
	images        ImageStore
}

// NewProductService constructs a ProductService.
func NewProductService(products ProductStore, categories CategoryReader, subCategories SubCategoryReader, catalogCache Cacher, images ImageStore) *ProductService {
	return &ProductService{
		products:      products,
		categories:    categories,
		subCategories: subCategories,
		cache:         catalogCache,
		images:        images,
	}
}

// ProductListQuery holds the raw listing parameters. Category and
// SubCategory accept an id or a slug.
type ProductListQuery struct {
	Category    string
	SubCategory string
	Type        string
	Search      string
	PublicOnly  bool
}

// CreateProductRequest represents the request to create a product. Pointer
// fields feed the default-resolution chain: nil means "inherit".
type CreateProductRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	Discount    *float64   `json:"discount"`
	Image       *string    `json:"image"`
	Type        *string    `json:"type"`
	Category    *uuid.UUID `json:"category"`
	SubCategory *uuid.UUID `json:"subCategory"`
	Stock       *int       `json:"stock"`
	Active      *bool      `json:"active"`
	Currency    *string    `json:"currency"`
}

// UpdateProductRequest represents a partial product update. Nil fields were
// absent from the request; an explicit zero (e.g. discount 0) is applied.
type UpdateProductRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Price       *float64   `json:"price"`
	Discount    *float64   `json:"discount"`
	Image       *string    `json:"image"`
	Type        *string    `json:"type"`
	Category    *uuid.UUID `json:"category"`
	SubCategory *uuid.UUID `json:"subCategory"`
	Stock       *int       `json:"stock"`
	Active      *bool      `json:"active"`
	Currency    *string    `json:"currency"`
}

// BatchUpdateRequest re-scopes a set of products and/or rewrites their
// description in one call.
type BatchUpdateRequest struct {
	IDs         []uuid.UUID `json:"ids" binding:"required"`
	Category    *uuid.UUID  `json:"category"`
	SubCategory *uuid.UUID  `json:"subCategory"`
	Description *string     `json:"description"`
}

// List returns products matching the query, sorted by display order. An
// unresolvable category or sub-category reference degrades to an unfiltered
// listing rather than an error. Public listings are served through the
// catalog cache.
func (s *ProductService) List(ctx context.Context, q *ProductListQuery) ([]models.Product, error) {
	filter := &repository.ProductFilter{
		Type:       q.Type,
		Search:     q.Search,
		ActiveOnly: q.PublicOnly,
	}
	if q.Category != "" {
		filter.CategoryID = s.resolveCategoryRef(ctx, q.Category)
	}
	if q.SubCategory != "" {
		filter.SubCategoryID = s.resolveSubCategoryRef(ctx, q.SubCategory)
	}

	var cacheKey string
	if q.PublicOnly && q.Search == "" {
		cacheKey = listingKey(filter)
		var cached []models.Product
		if s.cache.GetListing(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	products, err := s.products.GetAll(ctx, filter)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to retrieve products")
	}
	if cacheKey != "" {
		s.cache.SetListing(ctx, cacheKey, products)
	}
	return products, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Unknown(err, "Failed to retrieve product")
	}
	return p, nil
}

// Create resolves defaults from the catalog ancestry and appends the product
// to the end of its scope's display order.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Currency != nil && *req.Currency != "" && !models.ValidCurrency(*req.Currency) {
		return nil, utils.Validation("invalid currency %q", *req.Currency)
	}

	cat, sub, err := s.loadAncestry(ctx, req.Category, req.SubCategory)
	if err != nil {
		return nil, err
	}

	in := catalog.ProductInput{
		Name:        &req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Image:       req.Image,
		Currency:    req.Currency,
	}
	if req.Type != nil {
		t := models.CatalogType(*req.Type)
		if *req.Type != "" && !t.Valid() {
			return nil, utils.Validation("invalid type %q", *req.Type)
		}
		in.Type = &t
	}

	resolved, err := catalog.ResolveProductDefaults(in, cat, sub)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		ID:            uuid.New(),
		Name:          req.Name,
		Description:   resolved.Description,
		Price:         &resolved.Price,
		Discount:      resolved.Discount,
		Image:         resolved.Image,
		Type:          resolved.Type,
		CategoryID:    resolved.CategoryID,
		SubCategoryID: req.SubCategory,
		Stock:         models.UnlimitedStock,
		Active:        true,
		Currency:      resolved.Currency,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	order, err := ordering.NextOrder(ctx, s.products.ScopeStore(repository.ScopeOf(p)))
	if err != nil {
		return nil, utils.Unknown(err, "Failed to create product")
	}
	p.DisplayOrder = order

	if image, err := s.images.StoreImage(ctx, "product", p.ID, p.Image); err != nil {
		return nil, utils.Validation("%s", err.Error())
	} else {
		p.Image = image
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, utils.Unknown(err, "Failed to create product")
	}
	s.cache.InvalidateCatalog(ctx)
	return p, nil
}

// Update applies a partial update. Changing category or sub-category moves
// the product to the end of its new scope and re-checks the e-service
// sub-category requirement.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Unknown(err, "Failed to update product")
	}

	rescoped := false
	if req.SubCategory != nil || req.Category != nil {
		catID := req.Category
		if catID == nil {
			catID = &p.CategoryID
		}
		cat, sub, err := s.loadAncestry(ctx, catID, req.SubCategory)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			p.CategoryID = sub.CategoryID
			p.SubCategoryID = &sub.ID
		} else {
			p.CategoryID = cat.ID
			p.SubCategoryID = req.SubCategory
		}
		rescoped = true
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = req.Price
	}
	if req.Discount != nil {
		p.Discount = *req.Discount
	}
	if req.Image != nil {
		image, err := s.images.StoreImage(ctx, "product", p.ID, *req.Image)
		if err != nil {
			return nil, utils.Validation("%s", err.Error())
		}
		p.Image = image
	}
	if req.Type != nil {
		t := models.CatalogType(*req.Type)
		if !t.Valid() {
			return nil, utils.Validation("invalid type %q", *req.Type)
		}
		p.Type = t
		rescoped = true
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Active != nil {
		p.Active = *req.Active
	}
	if req.Currency != nil {
		if *req.Currency != "" && !models.ValidCurrency(*req.Currency) {
			return nil, utils.Validation("invalid currency %q", *req.Currency)
		}
		p.Currency = req.Currency
	}

	if p.Type == models.TypeEService && p.SubCategoryID == nil {
		return nil, utils.Validation("sub-category required for e-services")
	}

	if rescoped {
		order, err := ordering.NextOrder(ctx, s.products.ScopeStore(repository.ScopeOf(p)))
		if err != nil {
			return nil, utils.Unknown(err, "Failed to update product")
		}
		p.DisplayOrder = order
	}

	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Unknown(err, "Failed to update product")
	}
	s.cache.InvalidateCatalog(ctx)
	return p, nil
}

// Move shifts a product one step up or down among its scope siblings.
func (s *ProductService) Move(ctx context.Context, id uuid.UUID, dir ordering.Direction) (*ordering.MoveResult, error) {
	if !dir.Valid() {
		return nil, utils.Validation("direction must be up or down")
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Unknown(err, "Failed to move product")
	}

	res, err := ordering.Move(ctx, s.products.ScopeStore(repository.ScopeOf(p)), id, dir)
	if err != nil {
		if errors.Is(err, ordering.ErrNotInScope) {
			return nil, utils.NotFound("Product not found")
		}
		return nil, utils.Unknown(err, "Failed to move product")
	}
	s.cache.InvalidateCatalog(ctx)
	return res, nil
}

// BatchUpdate moves a set of products into a new category/sub-category
// and/or rewrites their description. Re-scoped products receive sequential
// display orders starting past the target scope's current maximum, in the
// order the ids were supplied; type is ignored when counting scope siblings.
// Missing ids are skipped; the updated count is returned.
func (s *ProductService) BatchUpdate(ctx context.Context, req *BatchUpdateRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, utils.Validation("ids required")
	}

	// Description-only batch: no scope change, no reordering.
	if req.Category == nil && req.SubCategory == nil {
		if req.Description == nil {
			return 0, utils.Validation("nothing to update")
		}
		updated := 0
		for _, id := range req.IDs {
			p, err := s.products.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return updated, utils.Unknown(err, "Failed to update products")
			}
			p.Description = *req.Description
			if err := s.products.Update(ctx, p); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return updated, utils.Unknown(err, "Failed to update products")
			}
			updated++
		}
		s.cache.InvalidateCatalog(ctx)
		return updated, nil
	}

	cat, sub, err := s.loadAncestry(ctx, req.Category, req.SubCategory)
	if err != nil {
		return 0, err
	}
	if sub != nil && req.Category != nil && sub.CategoryID != *req.Category {
		return 0, utils.Validation("sub-category %s does not belong to category %s", sub.ID, *req.Category)
	}
	var targetCategory uuid.UUID
	var targetSub *uuid.UUID
	if sub != nil {
		targetCategory = sub.CategoryID
		targetSub = &sub.ID
	} else {
		targetCategory = cat.ID
	}
	if cat != nil && cat.Type == models.TypeEService && targetSub == nil {
		return 0, utils.Validation("sub-category required for e-services")
	}

	scope := repository.ProductScope{CategoryID: targetCategory, SubCategoryID: targetSub}
	next, err := ordering.NextOrder(ctx, s.products.ScopeStore(scope))
	if err != nil {
		return 0, utils.Unknown(err, "Failed to update products")
	}

	updated := 0
	for _, id := range req.IDs {
		err := s.products.Reassign(ctx, id, targetCategory, targetSub, next, req.Description)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return updated, utils.Unknown(err, "Failed to update products")
		}
		next++
		updated++
	}
	s.cache.InvalidateCatalog(ctx)
	return updated, nil
}

// Delete removes a product permanently.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Product not found")
		}
		return utils.Unknown(err, "Failed to delete product")
	}
	s.cache.InvalidateCatalog(ctx)
	return nil
}

// loadAncestry fetches the category and optional sub-category a product is
// being placed under. A supplied sub-category's parent is authoritative and
// overrides any directly-supplied category.
func (s *ProductService) loadAncestry(ctx context.Context, categoryID, subCategoryID *uuid.UUID) (*models.Category, *models.SubCategory, error) {
	var sub *models.SubCategory
	if subCategoryID != nil {
		var err error
		sub, err = s.subCategories.GetByID(ctx, *subCategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, utils.Validation("sub-category %s not found", *subCategoryID)
			}
			return nil, nil, utils.Unknown(err, "Failed to resolve catalog ancestry")
		}
		categoryID = &sub.CategoryID
	}
	if categoryID == nil {
		return nil, nil, utils.Validation("category required")
	}
	cat, err := s.categories.GetByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The parent may have been deleted out from under the
			// sub-category; defaults then come from the sub-category alone.
			if sub != nil {
				return nil, sub, nil
			}
			return nil, nil, utils.Validation("category %s not found", *categoryID)
		}
		return nil, nil, utils.Unknown(err, "Failed to resolve catalog ancestry")
	}
	return cat, sub, nil
}

// resolveCategoryRef turns an id-or-slug reference into a category id, or
// nil when it resolves to nothing.
func (s *ProductService) resolveCategoryRef(ctx context.Context, ref string) *uuid.UUID {
	if id, err := uuid.Parse(ref); err == nil {
		return &id
	}
	c, err := s.categories.GetBySlug(ctx, ref)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("ref", ref).Msg("category reference lookup failed")
		}
		return nil
	}
	return &c.ID
}

// resolveSubCategoryRef is the sub-category counterpart of
// resolveCategoryRef.
func (s *ProductService) resolveSubCategoryRef(ctx context.Context, ref string) *uuid.UUID {
	if id, err := uuid.Parse(ref); err == nil {
		return &id
	}
	sub, err := s.subCategories.GetBySlug(ctx, ref)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("ref", ref).Msg("sub-category reference lookup failed")
		}
		return nil
	}
	return &sub.ID
}

func listingKey(f *repository.ProductFilter) string {
	cat, sub := "", ""
	if f.CategoryID != nil {
		cat = f.CategoryID.String()
	}
	if f.SubCategoryID != nil {
		sub = f.SubCategoryID.String()
	}
	return fmt.Sprintf("products:%s:%s:%s", cat, sub, f.Type)
}
