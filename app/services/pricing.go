package services

import "github.com/shashiranjanraj/galeria/app/models"

// Totals is the priced breakdown of a cart. All amounts are whole pesos.
type Totals struct {
	Subtotal     int64 `json:"subtotal"`
	ShippingCost int64 `json:"shippingCost"`
	Discount     int64 `json:"discount"`
	Total        int64 `json:"total"`
}

// ComputeDiscount returns what coupon takes off a cart of subtotal, before
// the payable clamp applied by ComputeTotals. A nil coupon discounts nothing.
func ComputeDiscount(subtotal int64, coupon *models.Coupon) int64 {
	if coupon == nil || subtotal <= 0 {
		return 0
	}

	var discount int64
	switch coupon.DiscountType {
	case models.DiscountFixed:
		discount = coupon.DiscountValue
	case models.DiscountPercentage:
		// (subtotal*value+50)/100 split on subtotal's hundreds so large
		// subtotals cannot overflow; half-up to the peso
		discount = subtotal/100*coupon.DiscountValue + (subtotal%100*coupon.DiscountValue+50)/100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	}

	if discount < 0 {
		return 0
	}
	return discount
}

// ComputeTotals prices a cart. The discount never exceeds subtotal plus
// shipping, so Total is never negative.
func ComputeTotals(subtotal, shipping int64, coupon *models.Coupon) Totals {
	discount := ComputeDiscount(subtotal, coupon)
	if payable := subtotal + shipping; discount > payable {
		discount = payable
	}
	return Totals{
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Discount:     discount,
		Total:        subtotal + shipping - discount,
	}
}
