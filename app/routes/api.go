// Package routes is the route table. Every route is named so `galeria
// route:list` and router.URL can refer to it.
package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/galeria/app/controllers"
	"github.com/shashiranjanraj/galeria/pkg/auth"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
	"github.com/shashiranjanraj/galeria/pkg/middleware"
	"github.com/shashiranjanraj/galeria/pkg/rbac"
	"github.com/shashiranjanraj/galeria/pkg/response"
	"github.com/shashiranjanraj/galeria/pkg/router"
)

// Handlers is everything the route table mounts. Nil optional handlers are
// skipped.
type Handlers struct {
	Auth         *controllers.AuthController
	Paintings    *controllers.PaintingController
	Checkout     *controllers.CheckoutController
	Coupons      *controllers.CouponController
	Orders       *controllers.OrderController
	CustomOrders *controllers.CustomOrderController
	Reviews      *controllers.ReviewController
	Blog         *controllers.BlogController
	Settings     *controllers.SettingsController
	Uploads      *controllers.UploadController

	GraphQL     http.Handler
	LiveFeed    http.Handler
	// LiveFeedSSE is the EventSource variant of LiveFeed.
	LiveFeedSSE http.Handler
	// Storage serves the local disk under /storage/.
	Storage     http.Handler
}

func RegisterAPI(r *router.Router, h *Handlers) {
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", "metrics", metrics.Handler())
	if h.GraphQL != nil {
		r.Handle("/graphql", "graphql", h.GraphQL)
	}
	if h.LiveFeed != nil {
		r.Get("/ws/admin/orders", "ws.admin.orders", h.LiveFeed.ServeHTTP, AdminFromQuery)
	}
	if h.LiveFeedSSE != nil {
		r.Get("/sse/admin/orders", "sse.admin.orders", h.LiveFeedSSE.ServeHTTP, AdminFromQuery)
	}
	if h.Storage != nil {
		r.Handle("/storage/*", "storage", http.StripPrefix("/storage/", h.Storage))
	}

	api := r.Group("/api")
	storefront(api, h)
	admin(api.Group("/admin", middleware.Auth, rbac.Admin), h)
}

func storefront(api *router.Group, h *Handlers) {
	authLimit := middleware.RateLimit("auth", 10, time.Minute)
	checkoutLimit := middleware.RateLimit("checkout", 30, time.Minute)

	a := api.Group("/auth")
	a.Post("/register", "auth.register", ctx.Wrap(h.Auth.Register), authLimit, middleware.OptionalAuth, rbac.Guest)
	a.Post("/login", "auth.login", ctx.Wrap(h.Auth.Login), authLimit)
	a.Post("/refresh", "auth.refresh", ctx.Wrap(h.Auth.Refresh), authLimit)
	a.Get("/me", "auth.me", ctx.Wrap(h.Auth.Me), middleware.Auth)

	api.Get("/paintings", "paintings.index", ctx.Wrap(h.Paintings.Index))
	api.Get("/paintings/{id}", "paintings.show", ctx.Wrap(h.Paintings.Show))

	api.Post("/checkout/quote", "checkout.quote", ctx.Wrap(h.Checkout.Quote), checkoutLimit)
	api.Post("/checkout", "checkout.place", ctx.Wrap(h.Checkout.Place), checkoutLimit, middleware.OptionalAuth)
	api.Post("/coupons/validate", "coupons.validate", ctx.Wrap(h.Checkout.ValidateCoupon), checkoutLimit)

	api.Get("/orders/{number}", "orders.track", ctx.Wrap(h.Orders.Track))
	api.Post("/custom-orders", "custom-orders.store", ctx.Wrap(h.CustomOrders.Store), checkoutLimit)

	api.Get("/reviews", "reviews.index", ctx.Wrap(h.Reviews.Index))
	api.Post("/reviews", "reviews.store", ctx.Wrap(h.Reviews.Store), checkoutLimit)

	api.Get("/blog", "blog.index", ctx.Wrap(h.Blog.Index))
	api.Get("/blog/{slug}", "blog.show", ctx.Wrap(h.Blog.ShowBySlug))

	api.Get("/settings/{key}", "settings.show", ctx.Wrap(h.Settings.Show))
}

func admin(g *router.Group, h *Handlers) {
	g.Get("/stats", "admin.stats", ctx.Wrap(h.Orders.Stats))

	p := g.Group("/paintings")
	p.Get("", "admin.paintings.index", ctx.Wrap(h.Paintings.Index))
	p.Post("", "admin.paintings.store", ctx.Wrap(h.Paintings.Store))
	p.Get("/{id}", "admin.paintings.show", ctx.Wrap(h.Paintings.Show))
	p.Put("/{id}", "admin.paintings.update", ctx.Wrap(h.Paintings.Update))
	p.Delete("/{id}", "admin.paintings.destroy", ctx.Wrap(h.Paintings.Destroy))

	c := g.Group("/coupons")
	c.Get("", "admin.coupons.index", ctx.Wrap(h.Coupons.Index))
	c.Post("", "admin.coupons.store", ctx.Wrap(h.Coupons.Store))
	c.Get("/{id}", "admin.coupons.show", ctx.Wrap(h.Coupons.Show))
	c.Put("/{id}", "admin.coupons.update", ctx.Wrap(h.Coupons.Update))
	c.Patch("/{id}/toggle", "admin.coupons.toggle", ctx.Wrap(h.Coupons.Toggle))
	c.Delete("/{id}", "admin.coupons.destroy", ctx.Wrap(h.Coupons.Destroy))

	o := g.Group("/orders")
	o.Get("", "admin.orders.index", ctx.Wrap(h.Orders.Index))
	o.Get("/{id}", "admin.orders.show", ctx.Wrap(h.Orders.Show))
	o.Patch("/{id}/status", "admin.orders.status", ctx.Wrap(h.Orders.UpdateStatus))
	o.Patch("/{id}/shipping", "admin.orders.shipping", ctx.Wrap(h.Orders.UpdateShipping))
	o.Patch("/{id}/payment", "admin.orders.payment", ctx.Wrap(h.Orders.UpdatePayment))
	o.Delete("/{id}", "admin.orders.destroy", ctx.Wrap(h.Orders.Destroy))

	co := g.Group("/custom-orders")
	co.Get("", "admin.custom-orders.index", ctx.Wrap(h.CustomOrders.Index))
	co.Get("/{id}", "admin.custom-orders.show", ctx.Wrap(h.CustomOrders.Show))
	co.Patch("/{id}", "admin.custom-orders.update", ctx.Wrap(h.CustomOrders.Update))
	co.Delete("/{id}", "admin.custom-orders.destroy", ctx.Wrap(h.CustomOrders.Destroy))

	rv := g.Group("/reviews")
	rv.Get("", "admin.reviews.index", ctx.Wrap(h.Reviews.AdminIndex))
	rv.Patch("/{id}/approval", "admin.reviews.approval", ctx.Wrap(h.Reviews.SetApproved))
	rv.Delete("/{id}", "admin.reviews.destroy", ctx.Wrap(h.Reviews.Destroy))

	b := g.Group("/blog")
	b.Get("", "admin.blog.index", ctx.Wrap(h.Blog.AdminIndex))
	b.Post("", "admin.blog.store", ctx.Wrap(h.Blog.Store))
	b.Get("/{id}", "admin.blog.show", ctx.Wrap(h.Blog.Show))
	b.Put("/{id}", "admin.blog.update", ctx.Wrap(h.Blog.Update))
	b.Delete("/{id}", "admin.blog.destroy", ctx.Wrap(h.Blog.Destroy))

	u := g.Group("/users")
	u.Get("", "admin.users.index", ctx.Wrap(h.Auth.Users))
	u.Patch("/{id}/role", "admin.users.role", ctx.Wrap(h.Auth.SetRole))

	g.Put("/settings/{key}", "admin.settings.update", ctx.Wrap(h.Settings.Update))
	g.Get("/settings/{key}", "admin.settings.show", ctx.Wrap(h.Settings.Show))

	g.Post("/uploads", "admin.uploads.store", ctx.Wrap(h.Uploads.Store))
	g.Delete("/uploads", "admin.uploads.destroy", ctx.Wrap(h.Uploads.Destroy))
}

// AdminFromQuery authenticates the live feeds, where browsers cannot set an
// Authorization header, from ?token=.
func AdminFromQuery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ValidateToken(r.URL.Query().Get("token"))
		if err != nil {
			response.Unauthorized(w)
			return
		}
		if claims.Role != auth.RoleAdmin {
			response.Forbidden(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), claims.UserID, claims.Role)))
	})
}
