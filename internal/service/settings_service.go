package service

import (
	"context"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/utils"
)

// SettingsStore is the settings persistence surface the service drives.
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, currency string) (*models.Settings, error)
}

// SettingsService manages the store settings singleton through the cache.
type SettingsService struct {
	settings SettingsStore
	cache    Cacher
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(settings SettingsStore, catalogCache Cacher) *SettingsService {
	return &SettingsService{settings: settings, cache: catalogCache}
}

// UpdateSettingsRequest changes the store currency.
type UpdateSettingsRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// Get returns the settings singleton, creating it with defaults on first
// read.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	if cached := s.cache.GetSettings(ctx); cached != nil {
		return cached, nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to retrieve settings")
	}
	s.cache.SetSettings(ctx, settings)
	return settings, nil
}

// Update sets the store currency.
func (s *SettingsService) Update(ctx context.Context, req *UpdateSettingsRequest) (*models.Settings, error) {
	if !models.ValidCurrency(req.Currency) {
		return nil, utils.Validation("invalid currency %q", req.Currency)
	}
	settings, err := s.settings.Update(ctx, req.Currency)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to update settings")
	}
	s.cache.InvalidateSettings(ctx)
	s.cache.SetSettings(ctx, settings)
	return settings, nil
}
