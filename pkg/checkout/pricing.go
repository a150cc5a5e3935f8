// Package checkout derives order prices from cart contents.
//
// Prices are recomputed from the items every time they are needed and are
// never persisted. All arithmetic runs on decimals built from each float's
// shortest representation, so 1.005 rounds to 1.01 rather than drifting to
// 1.00.
package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/storefront/pkg/state"
)

var (
	freeShippingAbove = decimal.NewFromInt(100)
	flatShipping      = decimal.NewFromInt(10)
	taxRate           = decimal.RequireFromString("0.15")
)

// Pricing is the price breakdown sent with an order.
type Pricing struct {
	ItemsPrice    float64 `json:"itemsPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

// Round2 rounds x half-up (away from zero) to two decimal places.
func Round2(x float64) float64 {
	f, _ := round2(decimal.NewFromFloat(x)).Float64()
	return f
}

func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Compute prices items:
//
//	itemsPrice    = round2(Σ qty·price)
//	shippingPrice = 0 when itemsPrice > 100, else 10
//	taxPrice      = round2(0.15 · itemsPrice)
//	totalPrice    = itemsPrice + shippingPrice + taxPrice
func Compute(items []state.CartItem) Pricing {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty))))
	}

	itemsPrice := round2(sum)
	shipping := flatShipping
	if itemsPrice.GreaterThan(freeShippingAbove) {
		shipping = decimal.Zero
	}
	tax := round2(taxRate.Mul(itemsPrice))
	total := itemsPrice.Add(shipping).Add(tax)

	return Pricing{
		ItemsPrice:    itemsPrice.InexactFloat64(),
		ShippingPrice: shipping.InexactFloat64(),
		TaxPrice:      tax.InexactFloat64(),
		TotalPrice:    total.InexactFloat64(),
	}
}
