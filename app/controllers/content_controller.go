package controllers

import (
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

type BlogController struct {
	blog *services.BlogService
}

func NewBlogController(blog *services.BlogService) *BlogController {
	return &BlogController{blog: blog}
}

// Index lists published posts for the storefront.
func (c *BlogController) Index(x *ctx.Context) { c.list(x, true) }

// AdminIndex also lists drafts.
func (c *BlogController) AdminIndex(x *ctx.Context) { c.list(x, false) }

func (c *BlogController) list(x *ctx.Context, publishedOnly bool) {
	items, meta, err := c.blog.List(x.Context(), models.BlogFilter{
		PublishedOnly: publishedOnly,
		Tag:           x.Query("tag"),
		Page:          page(x),
	})
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

func (c *BlogController) ShowBySlug(x *ctx.Context) {
	p, err := c.blog.Published(x.Context(), x.Param("slug"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(p)
}

func (c *BlogController) Show(x *ctx.Context) {
	p, err := c.blog.Get(x.Context(), x.Param("id"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(p)
}

func (c *BlogController) Store(x *ctx.Context) {
	var in services.BlogInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.blog.Create(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(p)
}

func (c *BlogController) Update(x *ctx.Context) {
	var in services.BlogInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.blog.Update(x.Context(), x.Param("id"), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(p)
}

func (c *BlogController) Destroy(x *ctx.Context) {
	if err := c.blog.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Entrada eliminada")
}

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// Index shows approved reviews, optionally for one painting.
func (c *ReviewController) Index(x *ctx.Context) {
	approved := true
	c.list(x, &approved)
}

// AdminIndex lists every review; ?approved= narrows it.
func (c *ReviewController) AdminIndex(x *ctx.Context) {
	c.list(x, optionalBool(x, "approved"))
}

func (c *ReviewController) list(x *ctx.Context, approved *bool) {
	items, meta, err := c.reviews.List(x.Context(), models.ReviewFilter{
		PaintingID: x.Query("paintingId"),
		Approved:   approved,
		Page:       page(x),
	})
	if err != nil {
		fail(x, err)
		return
	}
	x.Paginated(items, meta)
}

// Store accepts a review for moderation.
func (c *ReviewController) Store(x *ctx.Context) {
	var in services.ReviewInput
	if !x.BindJSON(&in) {
		return
	}
	r, err := c.reviews.Submit(x.Context(), in)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(r)
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

func (c *ReviewController) SetApproved(x *ctx.Context) {
	var in approvalRequest
	if !x.BindJSON(&in) {
		return
	}
	r, err := c.reviews.SetApproved(x.Context(), x.Param("id"), in.Approved)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(r)
}

func (c *ReviewController) Destroy(x *ctx.Context) {
	if err := c.reviews.Delete(x.Context(), x.Param("id")); err != nil {
		fail(x, err)
		return
	}
	x.Message("Reseña eliminada")
}
