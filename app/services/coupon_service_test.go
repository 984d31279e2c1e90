package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		Base:          models.Base{ID: "c-1"},
		Code:          "VERANO10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	}
}

func TestValidateCouponReasons(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(c *models.Coupon)
		subtotal int64
		want     error
	}{
		{"inactive", func(c *models.Coupon) { c.IsActive = false }, 10000, ErrCouponInactive},
		{"not yet valid", func(c *models.Coupon) { c.ValidFrom = timePtr(testNow.Add(time.Hour)) }, 10000, ErrCouponNotYetValid},
		{"expired", func(c *models.Coupon) { c.ValidUntil = timePtr(testNow.Add(-time.Minute)) }, 10000, ErrCouponExpired},
		{"limit reached", func(c *models.Coupon) { c.UsageLimit, c.UsageCount = 3, 3 }, 10000, ErrCouponLimitReached},
		{"below minimum", func(c *models.Coupon) { c.MinPurchase = 50000 }, 40000, ErrCouponBelowMinimum},
		{"inactive wins over expired", func(c *models.Coupon) {
			c.IsActive = false
			c.ValidUntil = timePtr(testNow.Add(-time.Hour))
		}, 10000, ErrCouponInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockCoupons{}
			c := activeCoupon()
			tc.mutate(c)
			repo.On("FindByCode", mock.Anything, "VERANO10").Return(c, nil)

			_, err := NewCouponService(repo, fixedClock(testNow)).Validate(context.Background(), " verano10 ", tc.subtotal)

			require.ErrorIs(t, err, tc.want)
			var ce *CouponError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "VERANO10", ce.Code)
			assert.NotEmpty(t, ce.ReasonCode())
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestExpiredCouponStaysExpiredAfterHourlyReport(t *testing.T) {
	ctx := context.Background()
	store := sqlStore(t)
	require.NoError(t, store.Coupons.Create(ctx, &models.Coupon{
		Code: "VIEJO", DiscountType: models.DiscountFixed, DiscountValue: 2000,
		ValidUntil: timePtr(testNow.Add(-48 * time.Hour)), IsActive: true,
	}))
	svc := NewCouponService(store.Coupons, fixedClock(testNow))

	_, err := svc.Validate(ctx, "viejo", 10000)
	require.ErrorIs(t, err, ErrCouponExpired)

	n, err := svc.CountExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Validate(ctx, "viejo", 10000)
	require.ErrorIs(t, err, ErrCouponExpired)
	var ce *CouponError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "expired", ce.ReasonCode())
}

func TestValidateCouponNotFound(t *testing.T) {
	repo := &mockCoupons{}
	repo.On("FindByCode", mock.Anything, "NOEXISTE").Return(nil, repositories.ErrNotFound)

	_, err := NewCouponService(repo, fixedClock(testNow)).Validate(context.Background(), "noexiste", 10000)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = NewCouponService(repo, fixedClock(testNow)).Validate(context.Background(), "   ", 10000)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidateCouponWindowBoundsAreInclusive(t *testing.T) {
	repo := &mockCoupons{}
	c := activeCoupon()
	c.ValidFrom = timePtr(testNow)
	c.ValidUntil = timePtr(testNow)
	repo.On("FindByCode", mock.Anything, "VERANO10").Return(c, nil)

	got, err := NewCouponService(repo, fixedClock(testNow)).Validate(context.Background(), "VERANO10", 10000)
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
}

func TestValidateCouponDoesNotRedeem(t *testing.T) {
	repo := &mockCoupons{}
	c := activeCoupon()
	c.UsageLimit, c.UsageCount = 5, 4
	repo.On("FindByCode", mock.Anything, "VERANO10").Return(c, nil)

	_, err := NewCouponService(repo, fixedClock(testNow)).Validate(context.Background(), "VERANO10", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(4), c.UsageCount)
	repo.AssertExpectations(t)
}

func TestCheckBelowMinimumPricesWithoutCoupon(t *testing.T) {
	repo := &mockCoupons{}
	c := activeCoupon()
	c.MinPurchase = 50000
	repo.On("FindByCode", mock.Anything, "VERANO10").Return(c, nil)

	summary, totals, err := NewCouponService(repo, fixedClock(testNow)).Check(context.Background(), "VERANO10", 40000, 5000)

	var ce *CouponError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "below_minimum", ce.ReasonCode())
	assert.Equal(t, int64(50000), ce.MinPurchase)
	assert.Nil(t, summary)
	assert.Equal(t, int64(45000), totals.Total)
}

func TestCreateCouponNormalizesAndChecksRules(t *testing.T) {
	repo := &mockCoupons{}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Coupon")).Return(nil)
	svc := NewCouponService(repo, fixedClock(testNow))

	c, err := svc.Create(context.Background(), CouponInput{
		Code: " otono15 ", DiscountType: models.DiscountPercentage, DiscountValue: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "OTONO15", c.Code)
	assert.True(t, c.IsActive)

	_, err = svc.Create(context.Background(), CouponInput{
		Code: "MAL", DiscountType: models.DiscountPercentage, DiscountValue: 150,
	})
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "discountValue")

	_, err = svc.Create(context.Background(), CouponInput{
		Code: "FECHAS", DiscountType: models.DiscountFixed, DiscountValue: 1000,
		ValidFrom: timePtr(testNow), ValidUntil: timePtr(testNow.Add(-time.Hour)),
	})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "validUntil")
}

func TestCreateCouponDuplicateCode(t *testing.T) {
	repo := &mockCoupons{}
	repo.On("Create", mock.Anything, mock.Anything).Return(repositories.ErrDuplicate)

	_, err := NewCouponService(repo, fixedClock(testNow)).Create(context.Background(), CouponInput{
		Code: "VERANO10", DiscountType: models.DiscountFixed, DiscountValue: 1000,
	})
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr, "code")
}

func TestToggleFlipsActive(t *testing.T) {
	repo := &mockCoupons{}
	c := activeCoupon()
	repo.On("Get", mock.Anything, "c-1").Return(c, nil)
	repo.On("SetActive", mock.Anything, "c-1", false).Return(&models.Coupon{Base: c.Base, IsActive: false}, nil)

	got, err := NewCouponService(repo, fixedClock(testNow)).Toggle(context.Background(), "c-1")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	repo.AssertExpectations(t)
}
