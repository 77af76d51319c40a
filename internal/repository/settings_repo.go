package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mystickies/store-api/internal/models"
)

// SettingsRepository handles access to the store settings singleton.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings singleton, lazily creating it with defaults on
// first read. The fixed id plus ON CONFLICT makes concurrent first reads
// converge on a single row.
func (r *SettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, currency) VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING`, models.SettingsID, models.CurrencySYP)
	if err != nil {
		return nil, err
	}

	var s models.Settings
	if err := r.db.GetContext(ctx, &s, `
		SELECT id, currency, updated_at FROM settings WHERE id = $1`, models.SettingsID); err != nil {
		return nil, err
	}
	return &s, nil
}

// Update sets the store currency.
func (r *SettingsRepository) Update(ctx context.Context, currency string) (*models.Settings, error) {
	var s models.Settings
	err := r.db.GetContext(ctx, &s, `
		INSERT INTO settings (id, currency, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET currency = EXCLUDED.currency, updated_at = now()
		RETURNING id, currency, updated_at`, models.SettingsID, currency)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
