package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
)

// OrderService is the admin side of orders. Status writes are unconditional
// between known values; each one fires order.updated.
type OrderService struct {
	orders       repositories.OrderRepository
	customOrders repositories.CustomOrderRepository
	paintings    repositories.PaintingRepository
	events       events.Firer
	now          Clock
}

func NewOrderService(
	orders repositories.OrderRepository,
	customOrders repositories.CustomOrderRepository,
	paintings repositories.PaintingRepository,
	ev events.Firer,
	now Clock,
) *OrderService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &OrderService{orders: orders, customOrders: customOrders, paintings: paintings, events: ev, now: orClock(now)}
}

type StatusInput struct {
	Status models.OrderStatus `json:"status" validate:"required,in=pending,confirmed,processing,shipped,delivered,cancelled"`
}

type ShippingInput struct {
	ShippingStatus models.ShippingStatus `json:"shippingStatus" validate:"required,in=pending,processing,shipped,delivered,cancelled"`
	TrackingNumber string                `json:"trackingNumber" validate:"nullable,max=100"`
}

type PaymentInput struct {
	Status        models.PaymentStatus `json:"status" validate:"required,in=pending,paid,failed,refunded"`
	TransactionID string               `json:"transactionId" validate:"nullable,max=120"`
}

func (s *OrderService) List(ctx context.Context, f models.OrderFilter) ([]models.Order, models.PageMeta, error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list orders: %w", err)
	}
	return items, models.NewPageMeta(f.Page, total), nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

// Track is the customer's confirmation lookup. A wrong email reads as not
// found so order numbers cannot be guessed.
func (s *OrderService) Track(ctx context.Context, number, email string) (*models.Order, error) {
	o, err := s.orders.FindByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
	if err != nil {
		return nil, err
	}
	if email == "" || !strings.EqualFold(strings.TrimSpace(email), o.ShippingInfo.Email) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, in StatusInput) (*models.Order, error) {
	if !models.ValidOrderStatus(in.Status) {
		return nil, ValidationError{"status": "Estado de pedido desconocido."}
	}
	return s.update(ctx, id, func(o *models.Order) { o.Status = in.Status })
}

func (s *OrderService) UpdateShipping(ctx context.Context, id string, in ShippingInput) (*models.Order, error) {
	if !models.ValidShippingStatus(in.ShippingStatus) {
		return nil, ValidationError{"shippingStatus": "Estado de envío desconocido."}
	}
	return s.update(ctx, id, func(o *models.Order) {
		o.ShippingStatus = in.ShippingStatus
		if in.TrackingNumber != "" {
			o.TrackingNumber = in.TrackingNumber
		}
	})
}

func (s *OrderService) UpdatePayment(ctx context.Context, id string, in PaymentInput) (*models.Order, error) {
	if !models.ValidPaymentStatus(in.Status) {
		return nil, ValidationError{"status": "Estado de pago desconocido."}
	}
	return s.update(ctx, id, func(o *models.Order) {
		o.PaymentInfo.Status = in.Status
		if in.TransactionID != "" {
			o.PaymentInfo.TransactionID = in.TransactionID
		}
	})
}

func (s *OrderService) update(ctx context.Context, id string, mutate func(*models.Order)) (*models.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	mutate(o)
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	s.events.FireAsync(ctx, events.OrderUpdated, events.OrderChanged{Order: *o, PreviousStatus: previous})
	return o, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// Stats backs the admin dashboard.
func (s *OrderService) Stats(ctx context.Context) (models.OrderStats, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("order stats: %w", err)
	}
	if stats.PendingCustomOrders, err = s.customOrders.CountByStatus(ctx, models.CustomPending); err != nil {
		return stats, fmt.Errorf("custom order stats: %w", err)
	}
	if stats.LowStockPaintings, err = s.paintings.CountLowStock(ctx); err != nil {
		return stats, fmt.Errorf("low stock stats: %w", err)
	}
	return stats, nil
}

// StalePending returns orders still pending after age, for the daily digest.
func (s *OrderService) StalePending(ctx context.Context, age time.Duration) ([]models.Order, time.Time, error) {
	cutoff := s.now().Add(-age)
	items, _, err := s.orders.List(ctx, models.OrderFilter{
		Status:        models.OrderPending,
		CreatedBefore: cutoff,
		Page:          models.Page{Number: 1, PerPage: models.MaxPerPage},
	})
	if err != nil {
		return nil, cutoff, fmt.Errorf("stale pending orders: %w", err)
	}
	return items, cutoff, nil
}
