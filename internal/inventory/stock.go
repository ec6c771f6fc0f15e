// Package inventory holds the per-variant stock model: aggregating nested
// color/size counts and applying quantity deltas to a single variant.
package inventory

import (
	"fmt"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

// TotalStock returns the sum of every size count across all colors.
func TotalStock(colors []domain.ColorVariant) int {
	total := 0
	for _, c := range colors {
		total += c.Sizes.Total()
	}
	return total
}

// AdjustStock returns a copy of colors with delta added to the stock of
// (colorName, sizeLabel). The input is never modified.
//
// When the color or size does not exist the returned copy is unchanged and the
// error wraps domain.ErrVariantNotFound. Stock is not clamped: a decrement may
// leave a negative count.
func AdjustStock(colors []domain.ColorVariant, colorName, sizeLabel string, delta int) ([]domain.ColorVariant, error) {
	out := domain.CloneColors(colors)
	for i := range out {
		if out[i].ColorName != colorName {
			continue
		}
		if !out[i].Sizes.Add(sizeLabel, delta) {
			return out, fmt.Errorf("%w: size %q of color %q", domain.ErrVariantNotFound, sizeLabel, colorName)
		}
		return out, nil
	}
	return out, fmt.Errorf("%w: color %q", domain.ErrVariantNotFound, colorName)
}

// Available is the stock of one variant, or 0 when it does not exist.
func Available(p *domain.Product, colorName, sizeLabel string) int {
	c, ok := p.Color(colorName)
	if !ok {
		return 0
	}
	n, _ := c.Sizes.Get(sizeLabel)
	return n
}

// Recount sets p.TotalStock from its variants and reports whether it changed.
func Recount(p *domain.Product) bool {
	total := TotalStock(p.ProductColors)
	if total == p.TotalStock {
		return false
	}
	p.TotalStock = total
	return true
}
