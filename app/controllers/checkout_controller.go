package controllers

import (
	"errors"

	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type CheckoutController struct {
	checkout *services.CheckoutService
	coupons  *services.CouponService
	shipping int64
}

func NewCheckoutController(checkout *services.CheckoutService, coupons *services.CouponService, shipping int64) *CheckoutController {
	return &CheckoutController{checkout: checkout, coupons: coupons, shipping: shipping}
}

// Quote prices the cart the way PlaceOrder would. A refused coupon still
// returns the quote without the discount so the UI can show both.
func (c *CheckoutController) Quote(x *ctx.Context) {
	var req services.QuoteRequest
	if !x.BindJSON(&req) {
		return
	}

	q, err := c.checkout.Quote(x.Context(), req)
	var cerr *services.CouponError
	if errors.As(err, &cerr) {
		rejectCoupon(x, cerr, couponRejection{Quote: q})
		return
	}
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(q)
}

// Place creates the order. A logged-in customer is linked to it.
func (c *CheckoutController) Place(x *ctx.Context) {
	var req services.CheckoutRequest
	if !x.BindJSON(&req) {
		return
	}
	req.CustomerID = x.UserID()

	order, err := c.checkout.PlaceOrder(x.Context(), req)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(order)
}

type validateCouponRequest struct {
	Code     string `json:"code" validate:"required,max=64"`
	Subtotal int64  `json:"subtotal" validate:"gte=0,lte=1000000000000"`
}

type validateCouponResponse struct {
	Coupon *services.CouponSummary `json:"coupon"`
	services.Totals
}

// ValidateCoupon checks a code against a client-side subtotal. Nothing is
// redeemed.
func (c *CheckoutController) ValidateCoupon(x *ctx.Context) {
	var req validateCouponRequest
	if !x.BindJSON(&req) {
		return
	}

	summary, totals, err := c.coupons.Check(x.Context(), req.Code, req.Subtotal, c.shipping)
	var cerr *services.CouponError
	if errors.As(err, &cerr) {
		rejectCoupon(x, cerr, couponRejection{Totals: &totals})
		return
	}
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(validateCouponResponse{Coupon: summary, Totals: totals})
}
