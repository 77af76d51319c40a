package catalog_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/catalog"
	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/utils"
)

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func typePtr(t models.CatalogType) *models.CatalogType { return &t }

func testCategory(defaultPrice *float64) *models.Category {
	return &models.Category{
		ID:           uuid.New(),
		Name:         "Stickers",
		Description:  "category description",
		DefaultPrice: defaultPrice,
		Type:         models.TypeProduct,
	}
}

func testSubCategory(parent uuid.UUID, defaultPrice *float64) *models.SubCategory {
	return &models.SubCategory{
		ID:           uuid.New(),
		Name:         "Holographic",
		Description:  "sub-category description",
		DefaultPrice: defaultPrice,
		CategoryID:   parent,
		Type:         models.TypeProduct,
	}
}

func TestResolvePricePriority(t *testing.T) {
	t.Parallel()

	t.Run("sub-category default beats category default", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		sub := testSubCategory(cat.ID, f64Ptr(100))

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Name: strPtr("p")}, cat, sub)
		require.NoError(t, err)
		assert.Equal(t, float64(100), res.Price)
	})

	t.Run("category default used without sub-category", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Name: strPtr("p")}, cat, nil)
		require.NoError(t, err)
		assert.Equal(t, float64(50), res.Price)
	})

	t.Run("explicit price beats both defaults", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		sub := testSubCategory(cat.ID, f64Ptr(100))

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Price: f64Ptr(75)}, cat, sub)
		require.NoError(t, err)
		assert.Equal(t, float64(75), res.Price)
	})

	t.Run("no resolvable price fails", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(nil)

		_, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, nil)
		require.Error(t, err)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
		assert.Contains(t, err.Error(), "price required")
	})
}

func TestResolveDiscount(t *testing.T) {
	t.Parallel()

	t.Run("explicit zero discount is kept", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		cat.DefaultDiscount = 20

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Discount: f64Ptr(0)}, cat, nil)
		require.NoError(t, err)
		assert.Equal(t, float64(0), res.Discount)
	})

	t.Run("zero ancestor discount falls through", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		cat.DefaultDiscount = 15
		sub := testSubCategory(cat.ID, nil)
		sub.DefaultDiscount = 0

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, sub)
		require.NoError(t, err)
		assert.Equal(t, float64(15), res.Discount)
	})

	t.Run("floor is zero", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, nil)
		require.NoError(t, err)
		assert.Equal(t, float64(0), res.Discount)
	})
}

func TestResolveDescription(t *testing.T) {
	t.Parallel()

	t.Run("whitespace-only input falls back to sub-category", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		sub := testSubCategory(cat.ID, nil)

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Description: strPtr("   ")}, cat, sub)
		require.NoError(t, err)
		assert.Equal(t, "sub-category description", res.Description)
	})

	t.Run("category description is the last fallback", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, nil)
		require.NoError(t, err)
		assert.Equal(t, "category description", res.Description)
	})
}

func TestResolveType(t *testing.T) {
	t.Parallel()

	t.Run("eservice without sub-category fails", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))

		_, err := catalog.ResolveProductDefaults(catalog.ProductInput{Type: typePtr(models.TypeEService)}, cat, nil)
		require.Error(t, err)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err))
		assert.Contains(t, err.Error(), "sub-category required")
	})

	t.Run("eservice category type inherited via sub-category", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		cat.Type = models.TypeEService
		sub := testSubCategory(cat.ID, nil)
		sub.Type = models.TypeEService

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, sub)
		require.NoError(t, err)
		assert.Equal(t, models.TypeEService, res.Type)
		assert.Equal(t, cat.ID, res.CategoryID)
	})

	t.Run("defaults to product", func(t *testing.T) {
		t.Parallel()
		cat := testCategory(f64Ptr(50))
		cat.Type = ""

		res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, nil)
		require.NoError(t, err)
		assert.Equal(t, models.TypeProduct, res.Type)
	})
}

// Pins the image ownership policy: a product keeps its own image, the
// sub-category image is never substituted, even for e-services.
func TestImageOwnership(t *testing.T) {
	t.Parallel()

	cat := testCategory(f64Ptr(50))
	cat.Type = models.TypeEService
	sub := testSubCategory(cat.ID, nil)
	sub.Type = models.TypeEService
	sub.Image = "sub-image.png"

	res, err := catalog.ResolveProductDefaults(catalog.ProductInput{Image: strPtr("own-image.png")}, cat, sub)
	require.NoError(t, err)
	assert.Equal(t, "own-image.png", res.Image)

	res, err = catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, sub)
	require.NoError(t, err)
	assert.Empty(t, res.Image)
}

func TestCategoryFromSubCategoryParent(t *testing.T) {
	t.Parallel()

	cat := testCategory(f64Ptr(50))
	sub := testSubCategory(cat.ID, f64Ptr(100))

	res, err := catalog.ResolveProductDefaults(catalog.ProductInput{}, cat, sub)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, res.CategoryID)
}

func TestMissingAncestry(t *testing.T) {
	t.Parallel()

	_, err := catalog.ResolveProductDefaults(catalog.ProductInput{Price: f64Ptr(10)}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}
