package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/ordering"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

type fakeCache struct {
	settings             *models.Settings
	catalogInvalidations int
}

func (f *fakeCache) GetSettings(ctx context.Context) *models.Settings { return f.settings }

func (f *fakeCache) SetSettings(ctx context.Context, s *models.Settings) { f.settings = s }

func (f *fakeCache) InvalidateSettings(ctx context.Context) { f.settings = nil }

func (f *fakeCache) GetListing(ctx context.Context, key string, out interface{}) bool {
	return false
}

func (f *fakeCache) SetListing(ctx context.Context, key string, payload interface{}) {}

func (f *fakeCache) InvalidateCatalog(ctx context.Context) { f.catalogInvalidations++ }

type reassignment struct {
	id            uuid.UUID
	categoryID    uuid.UUID
	subCategoryID *uuid.UUID
	order         int
}

type fakeProductStore struct {
	products   map[uuid.UUID]*models.Product
	maxOrder   int
	hasRows    bool
	reassigned []reassignment
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeProductStore) GetAll(ctx context.Context, filter *repository.ProductFilter) ([]models.Product, error) {
	return nil, nil
}

func (f *fakeProductStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) Create(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) Update(ctx context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) Reassign(ctx context.Context, id uuid.UUID, categoryID uuid.UUID, subCategoryID *uuid.UUID, order int, description *string) error {
	if _, ok := f.products[id]; !ok {
		return repository.ErrNotFound
	}
	f.reassigned = append(f.reassigned, reassignment{id: id, categoryID: categoryID, subCategoryID: subCategoryID, order: order})
	return nil
}

func (f *fakeProductStore) ScopeStore(scope repository.ProductScope) ordering.Store {
	return fixedMaxStore{max: f.maxOrder, hasRows: f.hasRows}
}

// fixedMaxStore serves only the append path of the ordering engine.
type fixedMaxStore struct {
	max     int
	hasRows bool
}

func (s fixedMaxStore) Get(ctx context.Context, id uuid.UUID) (*ordering.Row, error) {
	return nil, ordering.ErrNotInScope
}

func (s fixedMaxStore) Neighbor(ctx context.Context, order int, dir ordering.Direction) (*ordering.Row, error) {
	return nil, nil
}

func (s fixedMaxStore) List(ctx context.Context) ([]ordering.Row, error) { return nil, nil }

func (s fixedMaxStore) SetOrder(ctx context.Context, id uuid.UUID, order int) error { return nil }

func (s fixedMaxStore) MaxOrder(ctx context.Context) (int, bool, error) {
	return s.max, s.hasRows, nil
}

type fakeCategoryReader struct {
	categories map[uuid.UUID]*models.Category
}

func (f *fakeCategoryReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCategoryReader) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeSubCategoryReader struct {
	subs map[uuid.UUID]*models.SubCategory
}

func (f *fakeSubCategoryReader) GetByID(ctx context.Context, id uuid.UUID) (*models.SubCategory, error) {
	s, ok := f.subs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSubCategoryReader) GetBySlug(ctx context.Context, slug string) (*models.SubCategory, error) {
	for _, s := range f.subs {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

type batchFixture struct {
	svc      *service.ProductService
	store    *fakeProductStore
	stickers *models.Category
	courses  *models.Category
	holo     *models.SubCategory
	golang   *models.SubCategory
}

func newBatchFixture() *batchFixture {
	stickers := &models.Category{ID: uuid.New(), Name: "Stickers", Slug: "stickers", Type: models.TypeProduct}
	courses := &models.Category{ID: uuid.New(), Name: "Courses", Slug: "courses", Type: models.TypeEService}
	holo := &models.SubCategory{ID: uuid.New(), Name: "Holographic", Slug: "holographic", CategoryID: stickers.ID, Type: models.TypeProduct}
	golang := &models.SubCategory{ID: uuid.New(), Name: "Go", Slug: "go", CategoryID: courses.ID, Type: models.TypeEService}

	store := newFakeProductStore()
	svc := service.NewProductService(
		store,
		&fakeCategoryReader{categories: map[uuid.UUID]*models.Category{stickers.ID: stickers, courses.ID: courses}},
		&fakeSubCategoryReader{subs: map[uuid.UUID]*models.SubCategory{holo.ID: holo, golang.ID: golang}},
		&fakeCache{},
		service.NoopImageStore{},
	)
	return &batchFixture{svc: svc, store: store, stickers: stickers, courses: courses, holo: holo, golang: golang}
}

func TestBatchUpdateRejectsMismatchedScope(t *testing.T) {
	t.Parallel()

	fix := newBatchFixture()
	// holo belongs to stickers, not courses.
	_, err := fix.svc.BatchUpdate(context.Background(), &service.BatchUpdateRequest{
		IDs:         []uuid.UUID{uuid.New()},
		Category:    &fix.courses.ID,
		SubCategory: &fix.holo.ID,
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Contains(t, utils.MessageOf(err), "does not belong to category")
	assert.Empty(t, fix.store.reassigned)
}

func TestBatchUpdateEServiceRequiresSubCategory(t *testing.T) {
	t.Parallel()

	fix := newBatchFixture()
	_, err := fix.svc.BatchUpdate(context.Background(), &service.BatchUpdateRequest{
		IDs:      []uuid.UUID{uuid.New()},
		Category: &fix.courses.ID,
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
	assert.Contains(t, utils.MessageOf(err), "sub-category required for e-services")
	assert.Empty(t, fix.store.reassigned)
}

func TestBatchUpdateReassignsSequentiallyAndSkipsMissing(t *testing.T) {
	t.Parallel()

	fix := newBatchFixture()
	a := &models.Product{ID: uuid.New(), Name: "A"}
	b := &models.Product{ID: uuid.New(), Name: "B"}
	fix.store.products[a.ID] = a
	fix.store.products[b.ID] = b
	fix.store.maxOrder = 4
	fix.store.hasRows = true

	updated, err := fix.svc.BatchUpdate(context.Background(), &service.BatchUpdateRequest{
		IDs:         []uuid.UUID{a.ID, uuid.New(), b.ID},
		SubCategory: &fix.holo.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	require.Len(t, fix.store.reassigned, 2)
	// Orders append past the scope's max, in the order ids were supplied.
	assert.Equal(t, a.ID, fix.store.reassigned[0].id)
	assert.Equal(t, 5, fix.store.reassigned[0].order)
	assert.Equal(t, b.ID, fix.store.reassigned[1].id)
	assert.Equal(t, 6, fix.store.reassigned[1].order)
	// The sub-category's parent fixes the category.
	assert.Equal(t, fix.stickers.ID, fix.store.reassigned[0].categoryID)
}
