package controllers

import (
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Track is the public confirmation lookup. The email must match the one on
// the order; a mismatch is indistinguishable from an unknown number.
func (c *OrderController) Track(x *ctx.Context) {
	email := x.Query("email")
	if email == "" {
		x.ValidationError(map[string]string{"email": "El correo es obligatorio"})
		return
	}
	o, err := c.orders.Track(x.Context(), x.Param("number"), email)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(o)
}

func (c *OrderController) Index(x *ctx.Context) {
	items, meta, err := c.orders.List(x.Context(), models.OrderFilter{
		Status: models.OrderStatus(x.Query("status")),
		Page:   page(x),
	})
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *OrderController) Show(x *ctx.Context) {
	o, err := c.orders.Get(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(o)
}

func (c *OrderController) UpdateStatus(x *ctx.Context) {
	var in services.StatusInput
	if !x.BindJSON(&in) {
		return
	}
	c.respond(x)(c.orders.UpdateStatus(x.Context(), x.Param("id"), in))
}

func (c *OrderController) UpdateShipping(x *ctx.Context) {
	var in services.ShippingInput
	if !x.BindJSON(&in) {
		return
	}
	c.respond(x)(c.orders.UpdateShipping(x.Context(), x.Param("id"), in))
}

func (c *OrderController) UpdatePayment(x *ctx.Context) {
	var in services.PaymentInput
	if !x.BindJSON(&in) {
		return
	}
	c.respond(x)(c.orders.UpdatePayment(x.Context(), x.Param("id"), in))
}

func (c *OrderController) respond(x *ctx.Context) func(*models.Order, error) {
	return func(o *models.Order, err error) {
		if err != nil {
			fail(x, err)
			return
		}
		x.Success(o)
	}
}

func (c *OrderController) Destroy(x *ctx.Context) {
	if err := c.orders.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Pedido eliminado")
}

// Stats backs the admin dashboard.
func (c *OrderController) Stats(x *ctx.Context) {
	stats, err := c.orders.Stats(x.Context())
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(stats)
}
