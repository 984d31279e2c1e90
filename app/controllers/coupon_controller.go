package controllers

import (
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type CouponController struct {
	coupons *services.CouponService
}

func NewCouponController(coupons *services.CouponService) *CouponController {
	return &CouponController{coupons: coupons}
}

func (c *CouponController) Index(x *ctx.Context) {
	items, meta, err := c.coupons.List(x.Context(), page(x))
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *CouponController) Show(x *ctx.Context) {
	coupon, err := c.coupons.Get(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(coupon)
}

func (c *CouponController) Store(x *ctx.Context) {
	var in services.CouponInput
	if !x.BindJSON(&in) {
		return
	}
	coupon, err := c.coupons.Create(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(coupon)
}

func (c *CouponController) Update(x *ctx.Context) {
	var in services.CouponInput
	if !x.BindJSON(&in) {
		return
	}
	coupon, err := c.coupons.Update(x.Context(), x.Param("id"), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(coupon)
}

func (c *CouponController) Toggle(x *ctx.Context) {
	coupon, err := c.coupons.Toggle(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(coupon)
}

func (c *CouponController) Destroy(x *ctx.Context) {
	if err := c.coupons.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Cupón eliminado")
}
