// Package repositories persists the models. Each repository has a MongoDB
// implementation (the default store) and a gorm one; services only see the
// interfaces bundled in Store.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
)

var (
	ErrNotFound  = errors.New("repositories: not found")
	ErrDuplicate = errors.New("repositories: duplicate key")

	// ErrCouponLimitReached is returned by PlaceOrder when the coupon's
	// conditional usage increment matched nothing.
	ErrCouponLimitReached = errors.New("repositories: coupon usage limit reached")
	// ErrInsufficientStock is returned by PlaceOrder when a tracked painting
	// no longer has enough stock.
	ErrInsufficientStock = errors.New("repositories: insufficient stock")
	// ErrInvalidQuantity is returned by PlaceOrder for a line whose quantity
	// is not positive. Such a line would add stock back.
	ErrInvalidQuantity = errors.New("repositories: invalid order quantity")
)

func checkQuantities(items []models.OrderItem) error {
	for _, it := range items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

type PaintingRepository interface {
	List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, int64, error)
	Get(ctx context.Context, id string) (*models.Painting, error)
	// GetMany returns the paintings found among ids, keyed by id.
	GetMany(ctx context.Context, ids []string) (map[string]*models.Painting, error)
	Create(ctx context.Context, p *models.Painting) error
	Update(ctx context.Context, p *models.Painting) error
	Delete(ctx context.Context, id string) error
	CountLowStock(ctx context.Context) (int64, error)
}

type CouponRepository interface {
	List(ctx context.Context, page models.Page) ([]models.Coupon, int64, error)
	Get(ctx context.Context, id string) (*models.Coupon, error)
	// FindByCode looks up by the normalized code.
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, c *models.Coupon) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (*models.Coupon, error)
	// CountExpired counts active coupons whose window closed before now.
	// Nothing is modified: expiry is purely time based.
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

type OrderRepository interface {
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	FindByNumber(ctx context.Context, number string) (*models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id string) error
	// Stats returns counts per status and revenue of non-cancelled orders.
	Stats(ctx context.Context) (models.OrderStats, error)

	// PlaceOrder inserts o, decrements stock of tracked paintings and, when
	// o.CouponID is set, increments that coupon's usage if below its limit.
	// All three happen in one transaction: on any failure nothing persists.
	PlaceOrder(ctx context.Context, o *models.Order) error
}

type CustomOrderRepository interface {
	List(ctx context.Context, status models.CustomOrderStatus, page models.Page) ([]models.CustomOrder, int64, error)
	Get(ctx context.Context, id string) (*models.CustomOrder, error)
	Create(ctx context.Context, c *models.CustomOrder) error
	Update(ctx context.Context, c *models.CustomOrder) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, status models.CustomOrderStatus) (int64, error)
}

type ReviewRepository interface {
	List(ctx context.Context, f models.ReviewFilter) ([]models.Review, int64, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Create(ctx context.Context, r *models.Review) error
	SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

type BlogRepository interface {
	List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error)
	Get(ctx context.Context, id string) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	// SlugTaken reports whether another post (not exceptID) uses slug.
	SlugTaken(ctx context.Context, slug, exceptID string) (bool, error)
	Create(ctx context.Context, p *models.BlogPost) error
	Update(ctx context.Context, p *models.BlogPost) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	List(ctx context.Context, page models.Page) ([]models.User, int64, error)
	Get(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetRole(ctx context.Context, id, role string) (*models.User, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Put(ctx context.Context, s *models.Setting) error
}

// Store bundles one implementation of every repository.
type Store struct {
	Paintings    PaintingRepository
	Coupons      CouponRepository
	Orders       OrderRepository
	CustomOrders CustomOrderRepository
	Reviews      ReviewRepository
	Blog         BlogRepository
	Users        UserRepository
	Settings     SettingsRepository
}
