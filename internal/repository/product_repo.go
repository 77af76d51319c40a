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

const productColumns = `p.id, p.name, p.description, p.price, p.discount, p.image, p.type,
	p.category_id, p.sub_category_id, p.display_order, p.stock, p.active, p.currency,
	p.created_at, p.updated_at,
	COALESCE(c.name, '') AS category_name, s.name AS sub_category_name,
	s.description AS sub_category_description`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategories s ON s.id = p.sub_category_id`

// ProductFilter holds the read-side predicates for product listings. All
// non-scope predicates AND together; search is a single OR group over name
// and description.
type ProductFilter struct {
	CategoryID    *uuid.UUID
	SubCategoryID *uuid.UUID
	Type          string
	Search        string
	ActiveOnly    bool
}

// ProductScope identifies the sibling set a product's display order is
// meaningful in: products sharing the same sub-category, or the same
// category without a sub-category, partitioned by type.
type ProductScope struct {
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Type          models.CatalogType
}

// ScopeOf derives the ordering scope of a product.
func ScopeOf(p *models.Product) ProductScope {
	return ProductScope{CategoryID: p.CategoryID, SubCategoryID: p.SubCategoryID, Type: p.Type}
}

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// typePredicate appends the catalog type condition. A "product" filter also
// matches legacy rows with a missing type.
func typePredicate(where string, args []interface{}, idx int, col, catalogType string) (string, []interface{}, int) {
	if catalogType == "" {
		return where, args, idx
	}
	if catalogType == string(models.TypeProduct) {
		where += fmt.Sprintf(" AND (%s = $%d OR %s IS NULL OR %s = '')", col, idx, col, col)
	} else {
		where += fmt.Sprintf(" AND %s = $%d", col, idx)
	}
	return where, append(args, catalogType), idx + 1
}

// GetAll returns products matching the filter, sorted by display order then
// creation time.
func (r *ProductRepository) GetAll(ctx context.Context, filter *ProductFilter) ([]models.Product, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if filter.ActiveOnly {
		where += ` AND p.active = true`
	}
	if filter.CategoryID != nil {
		where += fmt.Sprintf(" AND p.category_id = $%d", idx)
		args = append(args, *filter.CategoryID)
		idx++
	}
	if filter.SubCategoryID != nil {
		where += fmt.Sprintf(" AND p.sub_category_id = $%d", idx)
		args = append(args, *filter.SubCategoryID)
		idx++
	}
	where, args, idx = typePredicate(where, args, idx, "p.type", filter.Type)
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (p.name ILIKE $%d OR p.description ILIKE $%d)", idx, idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	q := `SELECT ` + productColumns + productFrom + `
	` + where + `
	ORDER BY p.display_order ASC, p.created_at ASC`

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, args...); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].RecalcFinalPrice()
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.RecalcFinalPrice()
	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO products (id, name, description, price, discount, image, type, category_id, sub_category_id, display_order, stock, active, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.Image, p.Type,
		p.CategoryID, p.SubCategoryID, p.DisplayOrder, p.Stock, p.Active, p.Currency,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.RecalcFinalPrice()
	return nil
}

// Update rewrites a product row.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRowxContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, discount = $5, image = $6, type = $7,
		    category_id = $8, sub_category_id = $9, display_order = $10, stock = $11,
		    active = $12, currency = $13, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Discount, p.Image, p.Type,
		p.CategoryID, p.SubCategoryID, p.DisplayOrder, p.Stock, p.Active, p.Currency,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	p.RecalcFinalPrice()
	return nil
}

// Delete removes a product permanently.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
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

// Reassign moves a product into a new scope with a fresh display order,
// optionally rewriting its description.
func (r *ProductRepository) Reassign(ctx context.Context, id uuid.UUID, categoryID uuid.UUID, subCategoryID *uuid.UUID, order int, description *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = $2, sub_category_id = $3, display_order = $4,
		    description = COALESCE($5, description), updated_at = $6
		WHERE id = $1`,
		id, categoryID, subCategoryID, order, description, time.Now())
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

// ScopeStore returns an ordering store over one product scope.
func (r *ProductRepository) ScopeStore(scope ProductScope) ordering.Store {
	return &productScopeStore{db: r.db, scope: scope}
}

type productScopeStore struct {
	db    *sqlx.DB
	scope ProductScope
}

// scopeWhere builds the sibling predicate. Products inside a sub-category
// are scoped by it alone; products directly under a category only count
// siblings that also lack a sub-category.
func (st *productScopeStore) scopeWhere() (string, []interface{}) {
	where := `WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if st.scope.SubCategoryID != nil {
		where += fmt.Sprintf(" AND sub_category_id = $%d", idx)
		args = append(args, *st.scope.SubCategoryID)
		idx++
	} else {
		where += fmt.Sprintf(" AND category_id = $%d AND sub_category_id IS NULL", idx)
		args = append(args, st.scope.CategoryID)
		idx++
	}
	where, args, _ = typePredicate(where, args, idx, "type", string(st.scope.Type))
	return where, args
}

func (st *productScopeStore) Get(ctx context.Context, id uuid.UUID) (*ordering.Row, error) {
	where, args := st.scopeWhere()
	q := fmt.Sprintf(`SELECT id, display_order, created_at FROM products %s AND id = $%d`, where, len(args)+1)
	args = append(args, id)

	var row orderedRow
	err := st.db.GetContext(ctx, &row, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := row.toRow()
	return &r, nil
}

func (st *productScopeStore) Neighbor(ctx context.Context, order int, dir ordering.Direction) (*ordering.Row, error) {
	where, args := st.scopeWhere()
	cmp, sort := "<", "DESC"
	if dir == ordering.Down {
		cmp, sort = ">", "ASC"
	}
	q := fmt.Sprintf(`
		SELECT id, display_order, created_at FROM products %s AND display_order %s $%d
		ORDER BY display_order %s, created_at %s LIMIT 1`,
		where, cmp, len(args)+1, sort, sort)
	args = append(args, order)

	var row orderedRow
	err := st.db.GetContext(ctx, &row, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r := row.toRow()
	return &r, nil
}

func (st *productScopeStore) List(ctx context.Context) ([]ordering.Row, error) {
	where, args := st.scopeWhere()
	q := fmt.Sprintf(`
		SELECT id, display_order, created_at FROM products %s
		ORDER BY display_order ASC, created_at ASC`, where)

	var raw []orderedRow
	if err := st.db.SelectContext(ctx, &raw, q, args...); err != nil {
		return nil, err
	}
	rows := make([]ordering.Row, len(raw))
	for i, row := range raw {
		rows[i] = row.toRow()
	}
	return rows, nil
}

func (st *productScopeStore) SetOrder(ctx context.Context, id uuid.UUID, order int) error {
	_, err := st.db.ExecContext(ctx, `
		UPDATE products SET display_order = $2, updated_at = now() WHERE id = $1`, id, order)
	return err
}

func (st *productScopeStore) MaxOrder(ctx context.Context) (int, bool, error) {
	where, args := st.scopeWhere()
	q := fmt.Sprintf(`SELECT MAX(display_order) FROM products %s`, where)

	var max sql.NullInt64
	if err := st.db.GetContext(ctx, &max, q, args...); err != nil {
		return 0, false, err
	}
	if !max.Valid {
		return 0, false, nil
	}
	return int(max.Int64), true, nil
}
