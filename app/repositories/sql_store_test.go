package repositories

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(uuid.NewString(), "-", "") + "?mode=memory&cache=shared"
	db, err := database.Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(SQLModels()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func intPtr(n int) *int { return &n }

func seedPainting(t *testing.T, s *Store, price int64, stock *int) *models.Painting {
	t.Helper()
	p := &models.Painting{Title: "Atardecer en Valparaíso", Price: price, Available: true, Stock: stock}
	require.NoError(t, s.Paintings.Create(context.Background(), p))
	return p
}

func seedCoupon(t *testing.T, s *Store, limit, used int64) *models.Coupon {
	t.Helper()
	c := &models.Coupon{
		Code: " verano10 ", DiscountType: models.DiscountPercentage, DiscountValue: 10,
		UsageLimit: limit, UsageCount: used, IsActive: true,
	}
	require.NoError(t, s.Coupons.Create(context.Background(), c))
	return c
}

func newOrder(p *models.Painting, qty int, couponID string) *models.Order {
	return &models.Order{
		OrderNumber: "ORD-20260101-" + strings.ToUpper(uuid.NewString()[:8]),
		Items: []models.OrderItem{{
			PaintingID: p.ID, Title: p.Title, UnitPrice: p.Price, Quantity: qty, LineTotal: p.Price * int64(qty),
		}},
		Subtotal: p.Price * int64(qty), ShippingCost: 5000, Total: p.Price*int64(qty) + 5000,
		CouponID: couponID,
		ShippingInfo: models.ShippingInfo{FullName: "Ana Pérez", Email: "ana@example.cl"},
		Status:       models.OrderPending,
	}
}

func TestSQLPlaceOrderCommitsEverything(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 100000, intPtr(1))
	c := seedCoupon(t, s, 5, 0)

	o := newOrder(p, 1, c.ID)
	require.NoError(t, s.Orders.PlaceOrder(ctx, o))
	assert.NotEmpty(t, o.ID)

	got, err := s.Orders.FindByNumber(ctx, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, "Ana Pérez", got.ShippingInfo.FullName)

	painting, err := s.Paintings.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, painting.Stock)
	assert.Equal(t, 0, *painting.Stock)
	assert.False(t, painting.Available, "sold-out paintings become unavailable")

	coupon, err := s.Coupons.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), coupon.UsageCount)
	assert.Equal(t, "VERANO10", coupon.Code)
}

func TestSQLPlaceOrderRollsBackWhenCouponExhausted(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 50000, intPtr(3))
	c := seedCoupon(t, s, 2, 2)

	o := newOrder(p, 1, c.ID)
	err := s.Orders.PlaceOrder(ctx, o)
	assert.ErrorIs(t, err, ErrCouponLimitReached)

	_, err = s.Orders.FindByNumber(ctx, o.OrderNumber)
	assert.ErrorIs(t, err, ErrNotFound)

	painting, err := s.Paintings.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *painting.Stock, "stock decrement must roll back")
}

func TestSQLPlaceOrderInsufficientStock(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 50000, intPtr(1))

	err := s.Orders.PlaceOrder(ctx, newOrder(p, 2, ""))
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestSQLPlaceOrderRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 100000, intPtr(1))

	for _, qty := range []int{0, -2} {
		o := newOrder(p, qty, "")
		assert.ErrorIs(t, s.Orders.PlaceOrder(ctx, o), ErrInvalidQuantity)
		_, err := s.Orders.FindByNumber(ctx, o.OrderNumber)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	painting, err := s.Paintings.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, *painting.Stock)
	assert.True(t, painting.Available)
}

func TestSQLPlaceOrderUntrackedStock(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 20000, nil)

	require.NoError(t, s.Orders.PlaceOrder(ctx, newOrder(p, 4, "")))
	painting, err := s.Paintings.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, painting.Stock)
	assert.True(t, painting.Available)
}

func TestSQLConcurrentRedemptionOfLastUse(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 30000, nil)
	c := seedCoupon(t, s, 1, 0)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		exhausted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Orders.PlaceOrder(ctx, newOrder(p, 1, c.ID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, ErrCouponLimitReached):
				exhausted++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, exhausted)

	coupon, err := s.Coupons.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), coupon.UsageCount)
}

func TestSQLCouponUpdateKeepsUsageCount(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	c := seedCoupon(t, s, 10, 4)

	c.UsageCount = 0
	c.DiscountValue = 15
	require.NoError(t, s.Coupons.Update(ctx, c))

	got, err := s.Coupons.FindByCode(ctx, "verano10")
	require.NoError(t, err)
	assert.Equal(t, int64(15), got.DiscountValue)
	assert.Equal(t, int64(4), got.UsageCount)

	missing := &models.Coupon{Base: models.Base{ID: "nope"}, Code: "X"}
	assert.ErrorIs(t, s.Coupons.Update(ctx, missing), ErrNotFound)
}

func TestSQLCouponCodeIsUnique(t *testing.T) {
	s := NewSQLStore(newTestDB(t))
	seedCoupon(t, s, 0, 0)
	err := s.Coupons.Create(context.Background(), &models.Coupon{Code: "VERANO10", DiscountType: models.DiscountFixed, DiscountValue: 1})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSQLCountExpiredLeavesCouponsActive(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	now := time.Now().UTC()
	past, future := now.Add(-time.Hour), now.Add(time.Hour)

	expired := &models.Coupon{Code: "OLD", DiscountType: models.DiscountFixed, DiscountValue: 1000, ValidUntil: &past, IsActive: true}
	current := &models.Coupon{Code: "NEW", DiscountType: models.DiscountFixed, DiscountValue: 1000, ValidUntil: &future, IsActive: true}
	off := &models.Coupon{Code: "OFF", DiscountType: models.DiscountFixed, DiscountValue: 1000, ValidUntil: &past}
	for _, c := range []*models.Coupon{expired, current, off} {
		require.NoError(t, s.Coupons.Create(ctx, c))
	}
	_, err := s.Coupons.SetActive(ctx, off.ID, false)
	require.NoError(t, err)

	n, err := s.Coupons.CountExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Coupons.Get(ctx, expired.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestSQLOrderStats(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	p := seedPainting(t, s, 10000, nil)

	first := newOrder(p, 1, "")
	second := newOrder(p, 2, "")
	require.NoError(t, s.Orders.PlaceOrder(ctx, first))
	require.NoError(t, s.Orders.PlaceOrder(ctx, second))

	second.Status = models.OrderCancelled
	require.NoError(t, s.Orders.Update(ctx, second))

	stats, err := s.Orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.OrderCancelled])
	assert.Equal(t, first.Total, stats.Revenue)
}

func TestSQLPaintingFilters(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	require.NoError(t, s.Paintings.Create(ctx, &models.Painting{Title: "Cordillera", Category: "paisaje", Available: true, Featured: true}))
	require.NoError(t, s.Paintings.Create(ctx, &models.Painting{Title: "Retrato", Category: "retrato", Available: false}))

	yes := true
	list, total, err := s.Paintings.List(ctx, models.PaintingFilter{Available: &yes})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Cordillera", list[0].Title)

	list, _, err = s.Paintings.List(ctx, models.PaintingFilter{Search: "retr"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "retrato", list[0].Category)
}

func TestSQLSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))

	_, err := s.Settings.Get(ctx, models.SettingsHome)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Settings.Put(ctx, &models.Setting{Key: models.SettingsHome, Data: `{"heroTitle":"Hola"}`}))
	require.NoError(t, s.Settings.Put(ctx, &models.Setting{Key: models.SettingsHome, Data: `{"heroTitle":"Chao"}`}))

	got, err := s.Settings.Get(ctx, models.SettingsHome)
	require.NoError(t, err)
	assert.JSONEq(t, `{"heroTitle":"Chao"}`, got.Data)
}

func TestSQLBlogSlugTaken(t *testing.T) {
	ctx := context.Background()
	s := NewSQLStore(newTestDB(t))
	post := &models.BlogPost{Title: "Nueva serie", Slug: "nueva-serie"}
	require.NoError(t, s.Blog.Create(ctx, post))

	taken, err := s.Blog.SlugTaken(ctx, "nueva-serie", "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Blog.SlugTaken(ctx, "nueva-serie", post.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}
