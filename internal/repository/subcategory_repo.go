package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/ordering"
)

const subCategoryColumns = `s.id, s.name, s.slug, s.description, s.image, s.default_price,
	s.default_discount, s.category_id, s.type, s.currency, s.display_order, s.created_at, s.updated_at,
	COALESCE(c.name, '') AS category_name`

const subCategoryFrom = ` FROM subcategories s LEFT JOIN categories c ON c.id = s.category_id`

// SubCategoryRepository handles data access for sub-categories.
type SubCategoryRepository struct {
	db *sqlx.DB
}

// NewSubCategoryRepository creates a new SubCategoryRepository.
func NewSubCategoryRepository(db *sqlx.DB) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

// GetAll returns sub-categories filtered by type and/or parent category,
// sorted by their display order within each parent.
func (r *SubCategoryRepository) GetAll(ctx context.Context, catalogType string, categoryID *uuid.UUID) ([]models.SubCategory, error) {
	q := `SELECT ` + subCategoryColumns + subCategoryFrom + ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if catalogType != "" {
		q += fmt.Sprintf(" AND s.type = $%d", idx)
		args = append(args, catalogType)
		idx++
	}
	if categoryID != nil {
		q += fmt.Sprintf(" AND s.category_id = $%d", idx)
		args = append(args, *categoryID)
		idx++
	}
	q += ` ORDER BY s.category_id, s.display_order ASC, s.created_at ASC`

	subs := []models.SubCategory{}
	if err := r.db.SelectContext(ctx, &subs, q, args...); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetByID returns a single sub-category by id.
func (r *SubCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	var s models.SubCategory
	err := r.db.GetContext(ctx, &s, `SELECT `+subCategoryColumns+subCategoryFrom+` WHERE s.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetBySlug returns a single sub-category by slug.
func (r *SubCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.SubCategory, error) {
	var s models.SubCategory
	err := r.db.GetContext(ctx, &s, `SELECT `+subCategoryColumns+subCategoryFrom+` WHERE s.slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new sub-category.
func (r *SubCategoryRepository) Create(ctx context.Context, s *models.SubCategory) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO subcategories (id, name, slug, description, image, default_price, default_discount, category_id, type, currency, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.Slug, s.Description, s.Image, s.DefaultPrice, s.DefaultDiscount,
		s.CategoryID, s.Type, s.Currency, s.DisplayOrder,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// Update rewrites a sub-category row.
func (r *SubCategoryRepository) Update(ctx context.Context, s *models.SubCategory) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE subcategories
		SET name = $2, slug = $3, description = $4, image = $5, default_price = $6,
		    default_discount = $7, category_id = $8, type = $9, currency = $10,
		    display_order = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		s.ID, s.Name, s.Slug, s.Description, s.Image, s.DefaultPrice, s.DefaultDiscount,
		s.CategoryID, s.Type, s.Currency, s.DisplayOrder,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes a sub-category.
func (r *SubCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
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

// ScopeStore returns an ordering store over the siblings under one parent
// category.
func (r *SubCategoryRepository) ScopeStore(categoryID uuid.UUID) ordering.Store {
	return &subCategoryScopeStore{db: r.db, categoryID: categoryID}
}

type subCategoryScopeStore struct {
	db         *sqlx.DB
	categoryID uuid.UUID
}

type orderedRow struct {
	ID        uuid.UUID `db:"id"`
	Order     int       `db:"display_order"`
	CreatedAt time.Time `db:"created_at"`
}

func (row orderedRow) toRow() ordering.Row {
	return ordering.Row{ID: row.ID, Order: row.Order, CreatedAt: row.CreatedAt}
}

func (st *subCategoryScopeStore) Get(ctx context.Context, id uuid.UUID) (*ordering.Row, error) {
	var row orderedRow
	err := st.db.GetContext(ctx, &row, `
		SELECT id, display_order, created_at FROM subcategories
		WHERE id = $1 AND category_id = $2`, id, st.categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := row.toRow()
	return &r, nil
}

func (st *subCategoryScopeStore) Neighbor(ctx context.Context, order int, dir ordering.Direction) (*ordering.Row, error) {
	q := `
		SELECT id, display_order, created_at FROM subcategories
		WHERE category_id = $1 AND display_order < $2
		ORDER BY display_order DESC, created_at DESC LIMIT 1`
	if dir == ordering.Down {
		q = `
		SELECT id, display_order, created_at FROM subcategories
		WHERE category_id = $1 AND display_order > $2
		ORDER BY display_order ASC, created_at ASC LIMIT 1`
	}
	var row orderedRow
	err := st.db.GetContext(ctx, &row, q, st.categoryID, order)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := row.toRow()
	return &r, nil
}

func (st *subCategoryScopeStore) List(ctx context.Context) ([]ordering.Row, error) {
	var raw []orderedRow
	err := st.db.SelectContext(ctx, &raw, `
		SELECT id, display_order, created_at FROM subcategories
		WHERE category_id = $1
		ORDER BY display_order ASC, created_at ASC`, st.categoryID)
	if err != nil {
		return nil, err
	}
	rows := make([]ordering.Row, len(raw))
	for i, row := range raw {
		rows[i] = row.toRow()
	}
	return rows, nil
}

func (st *subCategoryScopeStore) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	_, err := st.db.ExecContext(ctx, `
		UPDATE subcategories SET display_order = $2, updated_at = now() WHERE id = $1`, id, order)
	return err
}

func (st *subCategoryScopeStore) MaxOrder(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	err := st.db.GetContext(ctx, &max, `
		SELECT MAX(display_order) FROM subcategories WHERE category_id = $1`, st.categoryID)
	if err != nil {
		return 0, false, err
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}
