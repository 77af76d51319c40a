package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mystickies/store-api/internal/models"
)

const adminColumns = `id, username, email, password_hash, role, created_at, updated_at`

// AdminUserRepository handles data access for admin accounts.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetByEmail returns an admin by email.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.GetContext(ctx, &u, `SELECT `+adminColumns+` FROM admin_users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns an admin by id.
func (r *AdminUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var u models.AdminUser
	err := r.db.GetContext(ctx, &u, `SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UsernameOrEmailExists reports whether an admin already uses the username or email.
func (r *AdminUserRepository) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(1) FROM admin_users WHERE username = $1 OR email = $2`, username, email)
	return n > 0, err
}

// Create inserts a new admin account.
func (r *AdminUserRepository) Create(ctx context.Context, u *models.AdminUser) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = "admin"
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO admin_users (id, username, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}
