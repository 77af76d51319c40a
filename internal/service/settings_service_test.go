package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

type fakeSettingsStore struct {
	settings *models.Settings
	gets     int
	updates  int
}

func (f *fakeSettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	f.gets++
	cp := *f.settings
	return &cp, nil
}

func (f *fakeSettingsStore) Update(ctx context.Context, currency string) (*models.Settings, error) {
	f.updates++
	f.settings.Currency = currency
	cp := *f.settings
	return &cp, nil
}

func newSettingsService() (*service.SettingsService, *fakeSettingsStore) {
	store := &fakeSettingsStore{
		settings: &models.Settings{ID: models.SettingsID, Currency: models.CurrencySYP},
	}
	return service.NewSettingsService(store, &fakeCache{}), store
}

func TestSettingsSingletonCachedAfterFirstRead(t *testing.T) {
	t.Parallel()

	svc, store := newSettingsService()

	first, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, first.ID)
	assert.Equal(t, 1, store.gets)

	second, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SettingsID, second.ID)
	assert.Equal(t, 1, store.gets, "second read must come from the cache")
}

func TestSettingsUpdateRejectsInvalidCurrency(t *testing.T) {
	t.Parallel()

	svc, store := newSettingsService()

	_, err := svc.Update(context.Background(), &service.UpdateSettingsRequest{Currency: "EUR"})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Equal(t, 0, store.updates)
}

func TestSettingsUpdateRefreshesCache(t *testing.T) {
	t.Parallel()

	svc, store := newSettingsService()

	updated, err := svc.Update(context.Background(), &service.UpdateSettingsRequest{Currency: models.CurrencyUSD})
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyUSD, updated.Currency)
	assert.Equal(t, 1, store.updates)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CurrencyUSD, got.Currency)
	assert.Equal(t, 0, store.gets, "read after update must come from the cache")
}
