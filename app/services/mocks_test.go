package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/galeria/app/models"
)

type mockPaintings struct{ mock.Mock }

func (m *mockPaintings) List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Painting), args.Get(1).(int64), args.Error(2)
}

func (m *mockPaintings) Get(ctx context.Context, id string) (*models.Painting, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Painting)
	return p, args.Error(1)
}

func (m *mockPaintings) GetMany(ctx context.Context, ids []string) (map[string]*models.Painting, error) {
	args := m.Called(ctx, ids)
	found, _ := args.Get(0).(map[string]*models.Painting)
	return found, args.Error(1)
}

func (m *mockPaintings) Create(ctx context.Context, p *models.Painting) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaintings) Update(ctx context.Context, p *models.Painting) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaintings) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPaintings) CountLowStock(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockCoupons struct{ mock.Mock }

func (m *mockCoupons) List(ctx context.Context, page models.Page) ([]models.Coupon, int64, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]models.Coupon), args.Get(1).(int64), args.Error(2)
}

func (m *mockCoupons) Get(ctx context.Context, id string) (*models.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*models.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) Create(ctx context.Context, c *models.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCoupons) Update(ctx context.Context, c *models.Coupon) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCoupons) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCoupons) SetActive(ctx context.Context, id string, active bool) (*models.Coupon, error) {
	args := m.Called(ctx, id, active)
	c, _ := args.Get(0).(*models.Coupon)
	return c, args.Error(1)
}

func (m *mockCoupons) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*models.Order)
	return o, args.Error(1)
}

func (m *mockOrders) Update(ctx context.Context, o *models.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockOrders) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOrders) Stats(ctx context.Context) (models.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.OrderStats), args.Error(1)
}

func (m *mockOrders) PlaceOrder(ctx context.Context, o *models.Order) error {
	return m.Called(ctx, o).Error(0)
}

// recorder collects fired events.
type recorder struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (r *recorder) FireAsync(_ context.Context, name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, name)
	r.data = append(r.data, payload)
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }
