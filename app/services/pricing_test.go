package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/galeria/app/models"
)

func percent(value, max int64) *models.Coupon {
	return &models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: value, MaxDiscount: max}
}

func fixed(value int64) *models.Coupon {
	return &models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: value}
}

func TestPercentageDiscountNeverExceedsMax(t *testing.T) {
	c := percent(25, 8000)
	for subtotal := int64(0); subtotal <= 1_000_000; subtotal += 7_919 {
		d := ComputeDiscount(subtotal, c)
		assert.LessOrEqual(t, d, int64(8000), "subtotal %d", subtotal)
		assert.GreaterOrEqual(t, d, int64(0))
	}
}

func TestTotalsWithCappedPercentage(t *testing.T) {
	got := ComputeTotals(100000, 5000, percent(10, 8000))
	assert.Equal(t, Totals{Subtotal: 100000, ShippingCost: 5000, Discount: 8000, Total: 97000}, got)
}

func TestTotalsWithoutCoupon(t *testing.T) {
	got := ComputeTotals(40000, 5000, nil)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(45000), got.Total)
}

func TestTotalIdentityHolds(t *testing.T) {
	coupons := []*models.Coupon{nil, percent(15, 0), percent(50, 3000), fixed(2000), fixed(500000)}
	for _, c := range coupons {
		for _, subtotal := range []int64{0, 1, 999, 25000, 130000} {
			got := ComputeTotals(subtotal, 5000, c)
			assert.Equal(t, got.Subtotal+got.ShippingCost-got.Discount, got.Total)
			assert.GreaterOrEqual(t, got.Total, int64(0))
		}
	}
}

func TestFixedDiscountLargerThanPayableClampsToZero(t *testing.T) {
	got := ComputeTotals(10000, 5000, fixed(20000))
	assert.Equal(t, int64(15000), got.Discount)
	assert.Equal(t, int64(0), got.Total)
}

func TestPercentageRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(2), ComputeDiscount(15, percent(10, 0)))
	assert.Equal(t, int64(1), ComputeDiscount(14, percent(10, 0)))
}

func TestPercentageMatchesHalfUpFormula(t *testing.T) {
	for _, value := range []int64{1, 7, 10, 33, 50, 99, 100} {
		for subtotal := int64(0); subtotal <= 2_000; subtotal++ {
			want := (subtotal*value + 50) / 100
			assert.Equal(t, want, ComputeDiscount(subtotal, percent(value, 0)), "subtotal %d value %d", subtotal, value)
		}
	}
}

func TestPercentageDoesNotOverflowLargeSubtotals(t *testing.T) {
	d := ComputeDiscount(math.MaxInt64, percent(10, 0))
	assert.Equal(t, int64(922337203685477581), d)

	full := ComputeDiscount(math.MaxInt64, percent(100, 0))
	assert.Positive(t, full)
	assert.LessOrEqual(t, full, int64(math.MaxInt64))
}
