package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mystickies/store-api/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

const categoryColumns = `id, name, slug, description, image, default_price, default_discount,
	type, currency, parent_category, created_at, updated_at`

// CategoryRepository handles data access for categories.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns categories, optionally filtered by type. A "product" filter
// also matches legacy rows with a missing type, preserving records created
// before the type field existed.
func (r *CategoryRepository) GetAll(ctx context.Context, catalogType string) ([]models.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	args := []interface{}{}
	switch catalogType {
	case "":
	case string(models.TypeProduct):
		q += ` WHERE (type = $1 OR type IS NULL OR type = '')`
		args = append(args, catalogType)
	default:
		q += ` WHERE type = $1`
		args = append(args, catalogType)
	}
	q += ` ORDER BY created_at ASC`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, q, args...); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns a single category by id.
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetBySlug returns a single category by slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	err := r.db.GetContext(ctx, &c, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// NameOrSlugExists reports whether another category already uses the name or slug.
func (r *CategoryRepository) NameOrSlugExists(ctx context.Context, name, slug string, excludeID uuid.UUID) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(1) FROM categories
		WHERE (name = $1 OR slug = $2) AND id <> $3`, name, slug, excludeID)
	return n > 0, err
}

// Create inserts a new category.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO categories (id, name, slug, description, image, default_price, default_discount, type, currency, parent_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.DefaultPrice, c.DefaultDiscount,
		c.Type, c.Currency, c.ParentCategory,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// Update rewrites a category row.
func (r *CategoryRepository) Update(ctx context.Context, c *models.Category) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE categories
		SET name = $2, slug = $3, description = $4, image = $5, default_price = $6,
		    default_discount = $7, type = $8, currency = $9, parent_category = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Name, c.Slug, c.Description, c.Image, c.DefaultPrice, c.DefaultDiscount,
		c.Type, c.Currency, c.ParentCategory,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a category. Products under it keep their dangling reference.
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyDefaultsToProducts propagates the supplied default values to every
// product under the category. Nil fields are left untouched.
func (r *CategoryRepository) ApplyDefaultsToProducts(ctx context.Context, id uuid.UUID, price *float64, discount *float64, description *string) error {
	if price == nil && discount == nil && description == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET price = COALESCE($2, price),
		    discount = COALESCE($3, discount),
		    description = COALESCE($4, description),
		    updated_at = $5
		WHERE category_id = $1`,
		id, price, discount, description, time.Now())
	return err
}
