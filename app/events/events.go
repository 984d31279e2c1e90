// Package events names the domain events the services fire and the payloads
// they carry. Listeners are registered in app/listeners.
package events

import (
	"context"

	"github.com/shashiranjanraj/galeria/app/models"
)

const (
	OrderCreated       = "order.created"
	OrderUpdated       = "order.updated"
	CustomOrderCreated = "custom_order.created"
	CustomOrderUpdated = "custom_order.updated"
	PaintingLowStock   = "painting.low_stock"
	ReviewCreated      = "review.created"
)

// Firer is the part of *event.Dispatcher the services use.
type Firer interface {
	FireAsync(ctx context.Context, name string, payload any)
}

type OrderPlaced struct {
	Order models.Order
}

// OrderChanged carries the order after an admin write and the status it had
// before.
type OrderChanged struct {
	Order          models.Order
	PreviousStatus models.OrderStatus
}

func (e OrderChanged) StatusChanged() bool { return e.Order.Status != e.PreviousStatus }

type CustomOrderPlaced struct {
	CustomOrder models.CustomOrder
}

type CustomOrderChanged struct {
	CustomOrder    models.CustomOrder
	PreviousStatus models.CustomOrderStatus
	PreviousQuote  int64
}

// Notify reports whether the customer should hear about the change: a new
// quote or a different status.
func (e CustomOrderChanged) Notify() bool {
	return e.CustomOrder.Status != e.PreviousStatus ||
		(e.CustomOrder.QuotedPrice > 0 && e.CustomOrder.QuotedPrice != e.PreviousQuote)
}

type LowStock struct {
	Painting models.Painting
}

type ReviewSubmitted struct {
	Review        models.Review
	PaintingTitle string
}

// Nop discards every event. Services fall back to it when built without a
// dispatcher.
type Nop struct{}

func (Nop) FireAsync(context.Context, string, any) {}
