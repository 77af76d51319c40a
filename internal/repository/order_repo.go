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
)

const orderColumns = `id, order_number, customer, items, total_amount, status, notes, created_at, updated_at`

// OrderRepository handles data access for orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order. The order number is generated here,
// immediately before the insert: a timestamp combined with a running count
// of existing orders. Uniqueness is advisory, not transactional; concurrent
// checkouts are disambiguated by the millisecond component.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if o.OrderNumber == "" {
		var count int
		if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM orders`); err != nil {
			return err
		}
		o.OrderNumber = fmt.Sprintf("ORD-%d-%d", time.Now().UnixMilli(), count+1)
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO orders (id, order_number, customer, items, total_amount, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		o.ID, o.OrderNumber, o.Customer, o.Items, o.TotalAmount, o.Status, o.Notes,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
}

// GetAll returns orders, newest first, optionally filtered by status.
func (r *OrderRepository) GetAll(ctx context.Context, status string) ([]models.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	orders := []models.Order{}
	if err := r.db.SelectContext(ctx, &orders, q, args...); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns a single order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	err := r.db.GetContext(ctx, &o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus changes the mutable fields of an order: status and notes.
// Item snapshots are never touched after creation.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) (*models.Order, error) {
	var o models.Order
	err := r.db.GetContext(ctx, &o, `
		UPDATE orders SET status = $2, notes = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status, notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
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
