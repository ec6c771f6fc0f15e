package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type ColorVariant struct {
	ColorCode string    `dynamodbav:"colorCode" json:"colorCode"`
	ColorName string    `dynamodbav:"colorName" json:"colorName"`
	Sizes     SizeStock `dynamodbav:"sizes"     json:"sizes"`
}

func (c ColorVariant) Clone() ColorVariant {
	c.Sizes = c.Sizes.Clone()
	return c
}

// CloneColors deep-copies a variant sequence.
func CloneColors(colors []ColorVariant) []ColorVariant {
	if colors == nil {
		return nil
	}
	out := make([]ColorVariant, len(colors))
	for i, c := range colors {
		out[i] = c.Clone()
	}
	return out
}

type Product struct {
	ID            string         `dynamodbav:"id"            json:"id"`
	ProductName   string         `dynamodbav:"productName"   json:"productName"`
	Description   string         `dynamodbav:"description"   json:"description"`
	Category      string         `dynamodbav:"category"      json:"category"`
	Price         float64        `dynamodbav:"price"         json:"price"`
	Discount      float64        `dynamodbav:"discount"      json:"discount"`
	FinalPrice    float64        `dynamodbav:"finalPrice"    json:"finalPrice"`
	Images        []string       `dynamodbav:"images"        json:"images"`
	ProductColors []ColorVariant `dynamodbav:"productColors" json:"productColors"`
	TotalStock    int            `dynamodbav:"totalStock"    json:"totalStock"`
	Version       int64          `dynamodbav:"version"       json:"version"`
	CreatedAt     time.Time      `dynamodbav:"createdAt"     json:"createdAt"`
	UpdatedAt     time.Time      `dynamodbav:"updatedAt"     json:"updatedAt"`
}

// Color returns the variant named colorName.
func (p *Product) Color(colorName string) (ColorVariant, bool) {
	for _, c := range p.ProductColors {
		if c.ColorName == colorName {
			return c, true
		}
	}
	return ColorVariant{}, false
}

// UnitPrice is what a cart line is charged: the final price when set, the list price otherwise.
func (p *Product) UnitPrice() float64 {
	if p.FinalPrice > 0 {
		return p.FinalPrice
	}
	return p.Price
}

func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p *Product) Clone() *Product {
	cp := *p
	cp.Images = append([]string(nil), p.Images...)
	cp.ProductColors = CloneColors(p.ProductColors)
	return &cp
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks a product before it is written.
func (p *Product) Validate() error {
	verr := &ValidationError{Fields: map[string]string{}}
	if strings.TrimSpace(p.ProductName) == "" {
		verr.Fields["productName"] = "Product name is required"
	}
	if p.Price < 0 {
		verr.Fields["price"] = "Price must not be negative"
	}
	if p.FinalPrice < 0 {
		verr.Fields["finalPrice"] = "Final price must not be negative"
	}
	if p.Discount < 0 || p.Discount > 100 {
		verr.Fields["discount"] = "Discount must be between 0 and 100"
	}

	seen := make(map[string]bool, len(p.ProductColors))
	for i, c := range p.ProductColors {
		field := fmt.Sprintf("productColors[%d]", i)
		name := strings.TrimSpace(c.ColorName)
		switch {
		case name == "":
			verr.Fields[field+".colorName"] = "Color name is required"
		case seen[name]:
			verr.Fields[field+".colorName"] = fmt.Sprintf("Duplicate color %q", name)
		}
		seen[name] = true
		if c.ColorCode != "" && !hexColor.MatchString(c.ColorCode) {
			verr.Fields[field+".colorCode"] = "Color code must be a hex value"
		}
		for _, sc := range c.Sizes {
			if strings.TrimSpace(sc.Label) == "" {
				verr.Fields[field+".sizes"] = "Size label is required"
			}
			if sc.Count < 0 {
				verr.Fields[field+".sizes."+sc.Label] = "Stock must not be negative"
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

type ProductFilter struct {
	Category string
	Query    string
}

// Matches applies category equality and a case-insensitive name substring match.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return q == "" || strings.Contains(strings.ToLower(p.ProductName), q)
}

type ProductInput struct {
	ProductName   string         `json:"productName"`
	Description   string         `json:"description"`
	Category      string         `json:"category"`
	Price         float64        `json:"price"`
	Discount      float64        `json:"discount"`
	FinalPrice    *float64       `json:"finalPrice"`
	Images        []string       `json:"images"`
	ProductColors []ColorVariant `json:"productColors"`
	// Version, when set on an update, must match the stored version.
	Version       *int64         `json:"version,omitempty"`
}

type ProductSummary struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Images     []string `json:"images"`
	Category   string   `json:"category"`
	Price      float64  `json:"price"`
	FinalPrice float64  `json:"finalPrice"`
	Discount   float64  `json:"discount"`
	TotalStock int      `json:"totalStock"`
	SoldOut    bool     `json:"soldOut"`
}

func (p *Product) Summary() ProductSummary {
	return ProductSummary{
		ID:         p.ID,
		Title:      p.ProductName,
		Images:     p.Images,
		Category:   p.Category,
		Price:      p.Price,
		FinalPrice: p.FinalPrice,
		Discount:   p.Discount,
		TotalStock: p.TotalStock,
		SoldOut:    p.TotalStock == 0,
	}
}
