package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
)

// Reasons a coupon is refused. They are always wrapped in a *CouponError.
var (
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponInactive     = errors.New("coupon inactive")
	ErrCouponNotYetValid  = errors.New("coupon not yet valid")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponLimitReached = errors.New("coupon usage limit reached")
	ErrCouponBelowMinimum = errors.New("subtotal below coupon minimum")
)

var couponReasons = map[error]string{
	ErrCouponNotFound:     "not_found",
	ErrCouponInactive:     "inactive",
	ErrCouponNotYetValid:  "not_yet_valid",
	ErrCouponExpired:      "expired",
	ErrCouponLimitReached: "limit_reached",
	ErrCouponBelowMinimum: "below_minimum",
}

// CouponError explains why a code was refused.
type CouponError struct {
	Reason      error
	Code        string
	MinPurchase int64
}

func (e *CouponError) Error() string { return fmt.Sprintf("coupon %q: %v", e.Code, e.Reason) }
func (e *CouponError) Unwrap() error { return e.Reason }

// ReasonCode is the machine-readable reason sent to clients.
func (e *CouponError) ReasonCode() string { return couponReasons[e.Reason] }

func rejectCoupon(reason error, code string, minPurchase int64) *CouponError {
	err := &CouponError{Reason: reason, Code: code, MinPurchase: minPurchase}
	metrics.CouponRejections.WithLabelValues(err.ReasonCode()).Inc()
	return err
}

// CouponSummary is what the storefront learns about an accepted code.
type CouponSummary struct {
	Code          string              `json:"code"`
	Description   string              `json:"description"`
	DiscountType  models.DiscountType `json:"discountType"`
	DiscountValue int64               `json:"discountValue"`
	MaxDiscount   int64               `json:"maxDiscount,omitempty"`
	MinPurchase   int64               `json:"minPurchase,omitempty"`
}

func summarize(c *models.Coupon) *CouponSummary {
	return &CouponSummary{
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MaxDiscount:   c.MaxDiscount,
		MinPurchase:   c.MinPurchase,
	}
}

// CouponInput is the admin create/update payload.
type CouponInput struct {
	Code          string              `json:"code" validate:"required,max=64"`
	Description   string              `json:"description" validate:"nullable,max=500"`
	DiscountType  models.DiscountType `json:"discountType" validate:"required,in=percentage,fixed"`
	DiscountValue int64               `json:"discountValue" validate:"gt=0"`
	MinPurchase   int64               `json:"minPurchase" validate:"gte=0"`
	MaxDiscount   int64               `json:"maxDiscount" validate:"gte=0"`
	ValidFrom     *time.Time          `json:"validFrom"`
	ValidUntil    *time.Time          `json:"validUntil"`
	UsageLimit    int64               `json:"usageLimit" validate:"gte=0"`
	IsActive      *bool               `json:"isActive"`
}

func (in CouponInput) check() error {
	errs := ValidationError{}
	if in.DiscountType == models.DiscountPercentage && in.DiscountValue > 100 {
		errs["discountValue"] = "El porcentaje de descuento no puede superar 100."
	}
	if in.DiscountType == models.DiscountFixed && in.MaxDiscount > 0 {
		errs["maxDiscount"] = "El descuento máximo solo aplica a cupones porcentuales."
	}
	if in.ValidFrom != nil && in.ValidUntil != nil && in.ValidUntil.Before(*in.ValidFrom) {
		errs["validUntil"] = "La fecha de término debe ser posterior a la de inicio."
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (in CouponInput) apply(c *models.Coupon) {
	c.Code = models.NormalizeCode(in.Code)
	c.Description = in.Description
	c.DiscountType = in.DiscountType
	c.DiscountValue = in.DiscountValue
	c.MinPurchase = in.MinPurchase
	c.MaxDiscount = in.MaxDiscount
	c.ValidFrom = in.ValidFrom
	c.ValidUntil = in.ValidUntil
	c.UsageLimit = in.UsageLimit
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

type CouponService struct {
	coupons repositories.CouponRepository
	now     Clock
}

func NewCouponService(coupons repositories.CouponRepository, now Clock) *CouponService {
	return &CouponService{coupons: coupons, now: orClock(now)}
}

// Validate checks code against a cart of subtotal and returns the coupon to
// price with. The checks run in a fixed order and the first failure wins.
// Usage is never touched here; PlaceOrder redeems.
func (s *CouponService) Validate(ctx context.Context, code string, subtotal int64) (*models.Coupon, error) {
	code = models.NormalizeCode(code)
	if code == "" {
		return nil, rejectCoupon(ErrCouponNotFound, code, 0)
	}

	c, err := s.coupons.FindByCode(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, rejectCoupon(ErrCouponNotFound, code, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("validate coupon: %w", err)
	}

	now := s.now()
	switch {
	case !c.IsActive:
		return nil, rejectCoupon(ErrCouponInactive, code, 0)
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		return nil, rejectCoupon(ErrCouponNotYetValid, code, 0)
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		return nil, rejectCoupon(ErrCouponExpired, code, 0)
	case c.Exhausted():
		return nil, rejectCoupon(ErrCouponLimitReached, code, 0)
	case c.MinPurchase > 0 && subtotal < c.MinPurchase:
		return nil, rejectCoupon(ErrCouponBelowMinimum, code, c.MinPurchase)
	}
	return c, nil
}

// Check is the storefront's "apply code" call: it validates and prices the
// code against subtotal without redeeming it.
func (s *CouponService) Check(ctx context.Context, code string, subtotal int64, shipping int64) (*CouponSummary, Totals, error) {
	c, err := s.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, ComputeTotals(subtotal, shipping, nil), err
	}
	return summarize(c), ComputeTotals(subtotal, shipping, c), nil
}

func (s *CouponService) List(ctx context.Context, page models.Page) ([]models.Coupon, models.PageMeta, error) {
	page = page.Normalize()
	items, total, err := s.coupons.List(ctx, page)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list coupons: %w", err)
	}
	return items, models.NewPageMeta(page, total), nil
}

func (s *CouponService) Get(ctx context.Context, id string) (*models.Coupon, error) {
	return s.coupons.Get(ctx, id)
}

func (s *CouponService) Create(ctx context.Context, in CouponInput) (*models.Coupon, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	c := &models.Coupon{IsActive: true}
	in.apply(c)
	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, duplicateCode(err)
	}
	return c, nil
}

// Update rewrites the coupon's rule. UsageCount is kept.
func (s *CouponService) Update(ctx context.Context, id string, in CouponInput) (*models.Coupon, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	c, err := s.coupons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(c)
	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, duplicateCode(err)
	}
	return c, nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	return s.coupons.Delete(ctx, id)
}

// Toggle flips IsActive.
func (s *CouponService) Toggle(ctx context.Context, id string) (*models.Coupon, error) {
	c, err := s.coupons.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.coupons.SetActive(ctx, id, !c.IsActive)
}

// CountExpired reports active coupons past their window. They stay active;
// Validate already refuses them as Expired.
func (s *CouponService) CountExpired(ctx context.Context) (int64, error) {
	return s.coupons.CountExpired(ctx, s.now())
}

func duplicateCode(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return ValidationError{"code": "Ya existe un cupón con ese código."}
	}
	return err
}
