package controllers

import (
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

// PaintingController serves the public catalog and its admin CRUD.
type PaintingController struct {
	catalog *services.CatalogService
}

func NewPaintingController(catalog *services.CatalogService) *PaintingController {
	return &PaintingController{catalog: catalog}
}

func (c *PaintingController) Index(x *ctx.Context) {
	items, meta, err := c.catalog.List(x.Context(), models.PaintingFilter{
		Category:  x.Query("category"),
		Search:    x.Query("search"),
		Available: optionalBool(x, "available"),
		Featured:  optionalBool(x, "featured"),
		Page:      page(x),
	})
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *PaintingController) Show(x *ctx.Context) {
	p, err := c.catalog.Get(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(p)
}

func (c *PaintingController) Store(x *ctx.Context) {
	var in services.PaintingInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.catalog.Create(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(p)
}

func (c *PaintingController) Update(x *ctx.Context) {
	var in services.PaintingInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.catalog.Update(x.Context(), x.Param("id"), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(p)
}

func (c *PaintingController) Destroy(x *ctx.Context) {
	if err := c.catalog.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Obra eliminada")
}
