package inventory

import "github.com/cloud-wave-best-zizon/boutique-service/internal/domain"

type ColorOption struct {
	Name string `json:"colorName"`
	Code string `json:"colorCode"`
}

type SizeOption struct {
	Label    string `json:"size"`
	Stock    int    `json:"stock"`
	Disabled bool   `json:"disabled"`
}

// VariantOptions is what a product page can offer for the current selection.
type VariantOptions struct {
	ProductID      string        `json:"productId"`
	SelectedColor  string        `json:"selectedColor"`
	SelectedSize   string        `json:"selectedSize"`
	Colors         []ColorOption `json:"colors"`
	Sizes          []SizeOption  `json:"sizes"`
	AvailableStock int           `json:"availableStock"`
	MaxQuantity    int           `json:"maxQuantity"`
	CanAddToCart   bool          `json:"canAddToCart"`
	SoldOut        bool          `json:"soldOut"`
}

// Options derives selectable colors and sizes from current stock. Sizes are
// only listed once a known color is selected; a size with no stock left is
// listed but disabled.
func Options(p *domain.Product, colorName, sizeLabel string) VariantOptions {
	opts := VariantOptions{
		ProductID:     p.ID,
		SelectedColor: colorName,
		SelectedSize:  sizeLabel,
		Colors:        make([]ColorOption, 0, len(p.ProductColors)),
		Sizes:         []SizeOption{},
		SoldOut:       p.TotalStock == 0,
	}
	for _, c := range p.ProductColors {
		opts.Colors = append(opts.Colors, ColorOption{Name: c.ColorName, Code: c.ColorCode})
	}

	if c, ok := p.Color(colorName); ok {
		for _, sc := range c.Sizes {
			opts.Sizes = append(opts.Sizes, SizeOption{
				Label:    sc.Label,
				Stock:    sc.Count,
				Disabled: sc.Count <= 0,
			})
		}
	}

	if stock := Available(p, colorName, sizeLabel); stock > 0 {
		opts.AvailableStock = stock
		opts.MaxQuantity = stock
	}
	opts.CanAddToCart = colorName != "" && sizeLabel != "" && opts.AvailableStock > 0
	return opts
}

// ClampQuantity keeps a requested quantity within 1..MaxQuantity. It returns
// 0 when nothing can be bought.
func (o VariantOptions) ClampQuantity(q int) int {
	if o.MaxQuantity <= 0 {
		return 0
	}
	if q < 1 {
		return 1
	}
	if q > o.MaxQuantity {
		return o.MaxQuantity
	}
	return q
}
