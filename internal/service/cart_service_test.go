package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/cart"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
	"github.com/cloud-wave-best-zizon/boutique-service/internal/repository"
)

func newCartService(t *testing.T) *CartService {
	t.Helper()
	products := repository.NewMemoryProductRepository()
	require.NoError(t, products.CreateProduct(context.Background(), &domain.Product{
		ID:            "P",
		ProductName:   "Silk Shirt",
		Price:         50,
		FinalPrice:    40,
		Images:        []string{"https://img/shirt.jpg"},
		ProductColors: []domain.ColorVariant{red(5, 0)},
		TotalStock:    5,
	}))
	return NewCartService(products, cart.NewMemoryStore(), zap.NewNop())
}

func addReq(color, size string, qty int) domain.AddToCartRequest {
	return domain.AddToCartRequest{ProductID: "P", SelectedColor: color, SelectedSize: size, Quantity: qty}
}

func TestAddLineMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t)

	sum, err := svc.AddLine(ctx, "s1", addReq("Red", "S", 2))
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)
	assert.Equal(t, 40.0, sum.Items[0].Price)
	assert.Equal(t, "https://img/shirt.jpg", sum.Items[0].Image)

	sum, err = svc.AddLine(ctx, "s1", addReq("Red", "S", 1))
	require.NoError(t, err)
	require.Len(t, sum.Items, 1)
	assert.Equal(t, 3, sum.Items[0].Quantity)
	assert.Equal(t, 120.0, sum.Total)
}

func TestAddLineChecksStock(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t)

	_, err := svc.AddLine(ctx, "s1", addReq("Red", "S", 6))
	assert.ErrorIs(t, err, domain.ErrVariantUnavailable)

	_, err = svc.AddLine(ctx, "s1", addReq("Red", "M", 1))
	assert.ErrorIs(t, err, domain.ErrVariantUnavailable)

	_, err = svc.AddLine(ctx, "s1", addReq("Blue", "S", 1))
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = svc.AddLine(ctx, "s1", addReq("Red", "S", 0))
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestIncrementDecrementRemove(t *testing.T) {
	ctx := context.Background()
	svc := newCartService(t)
	_, err := svc.AddLine(ctx, "s1", addReq("Red", "S", 1))
	require.NoError(t, err)
	key := domain.LineKey{ProductID: "P", Color: "Red", Size: "S"}

	sum, err := svc.Increment(ctx, "s1", key)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Items[0].Quantity)

	for i := 0; i < 3; i++ {
		sum, err = svc.Decrement(ctx, "s1", key)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, sum.Items[0].Quantity)

	sum, err = svc.Remove(ctx, "s1", key)
	require.NoError(t, err)
	assert.Empty(t, sum.Items)
	assert.Zero(t, sum.Total)

	_, err = svc.Increment(ctx, "s1", key)
	assert.ErrorIs(t, err, domain.ErrCartLineNotFound)
}

func TestSummaryOfEmptyCart(t *testing.T) {
	svc := newCartService(t)
	sum, err := svc.Summary(context.Background(), "fresh")
	require.NoError(t, err)
	assert.NotNil(t, sum.Items)
	assert.Empty(t, sum.Items)
}
