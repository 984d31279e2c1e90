package controllers

import (
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type CustomOrderController struct {
	requests *services.CustomOrderService
}

func NewCustomOrderController(requests *services.CustomOrderService) *CustomOrderController {
	return &CustomOrderController{requests: requests}
}

func (c *CustomOrderController) Store(x *ctx.Context) {
	var in services.CustomOrderInput
	if !x.BindJSON(&in) {
		return
	}
	co, err := c.requests.Submit(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(co)
}

func (c *CustomOrderController) Index(x *ctx.Context) {
	items, meta, err := c.requests.List(x.Context(), models.CustomOrderStatus(x.Query("status")), page(x))
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *CustomOrderController) Show(x *ctx.Context) {
	co, err := c.requests.Get(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(co)
}

func (c *CustomOrderController) Update(x *ctx.Context) {
	var in services.CustomOrderUpdate
	if !x.BindJSON(&in) {
		return
	}
	co, err := c.requests.Update(x.Context(), x.Param("id"), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(co)
}

func (c *CustomOrderController) Destroy(x *ctx.Context) {
	if err := c.requests.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Solicitud eliminada")
}
