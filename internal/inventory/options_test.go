package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

func TestOptionsNoSelection(t *testing.T) {
	p := &domain.Product{ID: "p1", ProductColors: sampleColors(), TotalStock: 10}

	opts := Options(p, "", "")
	assert.Len(t, opts.Colors, 2)
	assert.Empty(t, opts.Sizes)
	assert.Equal(t, 0, opts.AvailableStock)
	assert.False(t, opts.CanAddToCart)
	assert.False(t, opts.SoldOut)
}

func TestOptionsDisablesEmptySizes(t *testing.T) {
	colors := sampleColors()
	colors[0].Sizes.Set("M", 0)
	p := &domain.Product{ID: "p1", ProductColors: colors, TotalStock: 7}

	opts := Options(p, "Red", "M")
	assert.Equal(t, []SizeOption{
		{Label: "S", Stock: 5, Disabled: false},
		{Label: "M", Stock: 0, Disabled: true},
	}, opts.Sizes)
	assert.Equal(t, 0, opts.MaxQuantity)
	assert.False(t, opts.CanAddToCart)

	opts = Options(p, "Red", "S")
	assert.Equal(t, 5, opts.AvailableStock)
	assert.True(t, opts.CanAddToCart)
	assert.Equal(t, 5, opts.ClampQuantity(9))
	assert.Equal(t, 1, opts.ClampQuantity(0))
}

func TestOptionsSoldOut(t *testing.T) {
	p := &domain.Product{ID: "p1", TotalStock: 0}
	opts := Options(p, "Red", "S")
	assert.True(t, opts.SoldOut)
	assert.Equal(t, 0, opts.ClampQuantity(1))
}
