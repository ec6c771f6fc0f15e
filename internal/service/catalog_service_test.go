package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/repository"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/storage"
)

func newCatalogService(t *testing.T) (*CatalogService, *repository.MemoryProductRepository, *storage.MemoryImageStore) {
	t.Helper()
	products := repository.NewMemoryProductRepository()
	images := storage.NewMemoryImageStore("http://localhost:8080/static")
	svc := NewCatalogService(products, repository.NewMemoryCatalogRepository(), images, zap.NewNop(), 3)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return svc, products, images
}

func dressInput() domain.ProductInput {
	return domain.ProductInput{
		ProductName: "  Linen Dress ",
		Category:    "Dresses",
		Price:       80,
		Discount:    25,
		Images:      []string{"https://img/1.jpg", "https://img/2.jpg"},
		ProductColors: []domain.ColorVariant{
			red(5, 3),
			{ColorCode: "#000", ColorName: "Black", Sizes: domain.SizeStock{{Label: "L", Count: 2}}},
		},
	}
}

func TestCreateProductDerivesPriceAndStock(t *testing.T) {
	svc, _, _ := newCatalogService(t)

	p, err := svc.CreateProduct(context.Background(), dressInput())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Linen Dress", p.ProductName)
	assert.Equal(t, 60.0, p.FinalPrice)
	assert.Equal(t, 10, p.TotalStock)

	in := dressInput()
	final := 72.0
	in.FinalPrice = &final
	p, err = svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Discount)
	assert.Equal(t, 72.0, p.FinalPrice)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newCatalogService(t)
	in := dressInput()
	in.ProductName = ""
	in.ProductColors = append(in.ProductColors, red(1, 1))

	_, err := svc.CreateProduct(context.Background(), in)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "productName")
	assert.Contains(t, verr.Fields, "productColors[2].colorName")
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)
	p, err := svc.CreateProduct(ctx, dressInput())
	require.NoError(t, err)

	in := dressInput()
	in.ProductColors = []domain.ColorVariant{red(1, 1)}
	updated, err := svc.UpdateProduct(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalStock)
	assert.Equal(t, int64(1), updated.Version)

	stale := int64(0)
	in.Version = &stale
	_, err = svc.UpdateProduct(ctx, p.ID, in)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	_, err = svc.UpdateProduct(ctx, "missing", in)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProductsFilters(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)
	_, err := svc.CreateProduct(ctx, dressInput())
	require.NoError(t, err)
	in := dressInput()
	in.ProductName = "Wool Coat"
	in.Category = "Coats"
	_, err = svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	all, err := svc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	coats, err := svc.ListProducts(ctx, domain.ProductFilter{Category: "Coats"})
	require.NoError(t, err)
	require.Len(t, coats, 1)
	assert.Equal(t, "Wool Coat", coats[0].ProductName)

	linen, err := svc.ListProducts(ctx, domain.ProductFilter{Query: "LINEN"})
	require.NoError(t, err)
	assert.Len(t, linen, 1)
}

func TestRelatedProductsExcludesSelf(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)
	svc.shuffle = func(int, func(i, j int)) {}

	var first *domain.Product
	for i := 0; i < 6; i++ {
		p, err := svc.CreateProduct(ctx, dressInput())
		require.NoError(t, err)
		if first == nil {
			first = p
		}
	}

	related, err := svc.RelatedProducts(ctx, first.ID, 0)
	require.NoError(t, err)
	assert.Len(t, related, DefaultRelatedCount)
	for _, p := range related {
		assert.NotEqual(t, first.ID, p.ID)
	}

	_, err = svc.RelatedProducts(ctx, "missing", 4)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestVariantOptions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)
	in := dressInput()
	in.ProductColors = []domain.ColorVariant{red(0, 3)}
	p, err := svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	opts, err := svc.VariantOptions(ctx, p.ID, "Red", "S")
	require.NoError(t, err)
	assert.False(t, opts.CanAddToCart)
	require.Len(t, opts.Sizes, 2)
	assert.True(t, opts.Sizes[0].Disabled)

	opts, err = svc.VariantOptions(ctx, p.ID, "Red", "M")
	require.NoError(t, err)
	assert.True(t, opts.CanAddToCart)
	assert.Equal(t, 3, opts.MaxQuantity)
}

func TestReconcileStock(t *testing.T) {
	ctx := context.Background()
	svc, products, _ := newCatalogService(t)
	require.NoError(t, products.CreateProduct(ctx, &domain.Product{
		ID:            "drift",
		ProductName:   "Drifted",
		ProductColors: []domain.ColorVariant{red(5, 3)},
		TotalStock:    2,
	}))

	changed, err := svc.ReconcileStock(ctx, "drift")
	require.NoError(t, err)
	assert.True(t, changed)

	p, err := products.GetProduct(ctx, "drift")
	require.NoError(t, err)
	assert.Equal(t, 8, p.TotalStock)

	changed, err = svc.ReconcileStock(ctx, "drift")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestUploadImage(t *testing.T) {
	svc, _, images := newCatalogService(t)

	url, err := svc.UploadImage(context.Background(), "front.jpg", "image/jpeg", 4, strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/products/front.jpg", url)
	_, ok := images.Object("products/front.jpg")
	assert.True(t, ok)

	_, err = svc.UploadImage(context.Background(), " ", "", 0, strings.NewReader(""))
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCategoriesAndSizes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)

	c, err := svc.AddCategory(ctx, " Dresses ")
	require.NoError(t, err)
	assert.Equal(t, "Dresses", c.Name)

	_, err = svc.AddCategory(ctx, "dresses")
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = svc.AddCategory(ctx, "")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddSize(ctx, "XL")
	require.NoError(t, err)
	_, err = svc.AddSize(ctx, "xl")
	assert.ErrorIs(t, err, domain.ErrSizeExists)

	opts, err := svc.FormOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts.Categories, 1)
	assert.Len(t, opts.Sizes, 1)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, c.ID), domain.ErrCategoryNotFound)
}

func TestSaveContact(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newCatalogService(t)

	_, err := svc.SaveContact(ctx, domain.SiteContact{Email: "shop", Instagram: "not a url"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email address", verr.Fields["email"])
	assert.Equal(t, "Invalid URL", verr.Fields["instagram"])

	saved, err := svc.SaveContact(ctx, domain.SiteContact{
		Instagram: "https://instagram.com/boutique",
		Email:     "hello@boutique.fr",
		Phone:     "0102030405",
	})
	require.NoError(t, err)

	got, err := svc.GetContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, *saved, *got)
}
