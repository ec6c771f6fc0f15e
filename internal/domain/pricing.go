package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// FinalPriceFor applies a percentage discount: price - price*discount/100.
func FinalPriceFor(price, discount float64) float64 {
	p := decimal.NewFromFloat(price)
	off := p.Mul(decimal.NewFromFloat(discount)).Div(hundred)
	return round2(p.Sub(off))
}

// DiscountFor derives the percentage discount that turns price into finalPrice.
func DiscountFor(price, finalPrice float64) float64 {
	if price <= 0 {
		return 0
	}
	p := decimal.NewFromFloat(price)
	return round2(p.Sub(decimal.NewFromFloat(finalPrice)).Div(p).Mul(hundred))
}

func LineTotal(l CartLine) float64 {
	return round2(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// TotalAmount is the sum of price*quantity over all lines.
func TotalAmount(lines []CartLine) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return round2(sum)
}
