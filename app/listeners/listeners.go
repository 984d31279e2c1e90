// Package listeners reacts to domain events: it queues the notification
// jobs, pushes order activity to the admin live feed and mirrors events to
// Kafka.
package listeners

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/jobs"
	"github.com/shashiranjanraj/galeria/pkg/broker"
	"github.com/shashiranjanraj/galeria/pkg/event"
)

// LiveFeed is the part of *ws.Hub used here.
type LiveFeed interface {
	Publish(eventType string, data any)
}

type Listeners struct {
	Queue      jobs.Dispatcher
	Feed       LiveFeed
	Broker     broker.Publisher
	AdminEmail string
}

// Register subscribes every listener on d.
func (l *Listeners) Register(d *event.Dispatcher) {
	if l.Broker == nil {
		l.Broker = broker.Nop{}
	}
	d.Listen(events.OrderCreated, l.orderCreated)
	d.Listen(events.OrderUpdated, l.orderUpdated)
	d.Listen(events.CustomOrderCreated, l.customOrderCreated)
	d.Listen(events.CustomOrderUpdated, l.customOrderUpdated)
	d.Listen(events.PaintingLowStock, l.lowStock)
	d.Listen(events.ReviewCreated, l.reviewCreated)
}

func payload[T any](name string, v any) (T, error) {
	p, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("listeners: %s: unexpected payload %T", name, v)
	}
	return p, nil
}

func (l *Listeners) publish(eventType string, data any) {
	if l.Feed != nil {
		l.Feed.Publish(eventType, data)
	}
}

func (l *Listeners) orderCreated(ctx context.Context, v any) error {
	e, err := payload[events.OrderPlaced](events.OrderCreated, v)
	if err != nil {
		return err
	}
	o := e.Order
	l.publish(events.OrderCreated, o)
	return errors.Join(
		l.Queue.Dispatch(ctx, jobs.New(jobs.OrderConfirmation{Order: o})),
		l.Queue.Dispatch(ctx, jobs.New(jobs.AdminNewOrder{To: l.AdminEmail, Order: o})),
		l.Broker.Publish(ctx, broker.TopicOrders, o.OrderNumber, events.OrderCreated, o),
	)
}

func (l *Listeners) orderUpdated(ctx context.Context, v any) error {
	e, err := payload[events.OrderChanged](events.OrderUpdated, v)
	if err != nil {
		return err
	}
	o := e.Order
	l.publish(events.OrderUpdated, o)
	errs := []error{l.Broker.Publish(ctx, broker.TopicOrders, o.OrderNumber, events.OrderUpdated, o)}
	if e.StatusChanged() {
		errs = append(errs, l.Queue.Dispatch(ctx, jobs.New(jobs.OrderStatusUpdate{Order: o})))
	}
	return errors.Join(errs...)
}

func (l *Listeners) customOrderCreated(ctx context.Context, v any) error {
	e, err := payload[events.CustomOrderPlaced](events.CustomOrderCreated, v)
	if err != nil {
		return err
	}
	c := e.CustomOrder
	l.publish(events.CustomOrderCreated, c)
	return errors.Join(
		l.Queue.Dispatch(ctx, jobs.New(jobs.CustomOrderReceived{CustomOrder: c})),
		l.Queue.Dispatch(ctx, jobs.New(jobs.AdminCustomOrder{To: l.AdminEmail, CustomOrder: c})),
		l.Broker.Publish(ctx, broker.TopicCustomOrders, c.RequestNumber, events.CustomOrderCreated, c),
	)
}

func (l *Listeners) customOrderUpdated(ctx context.Context, v any) error {
	e, err := payload[events.CustomOrderChanged](events.CustomOrderUpdated, v)
	if err != nil {
		return err
	}
	c := e.CustomOrder
	return errors.Join(
		l.Queue.Dispatch(ctx, jobs.New(jobs.CustomOrderUpdate{CustomOrder: c})),
		l.Broker.Publish(ctx, broker.TopicCustomOrders, c.RequestNumber, events.CustomOrderUpdated, c),
	)
}

func (l *Listeners) lowStock(ctx context.Context, v any) error {
	e, err := payload[events.LowStock](events.PaintingLowStock, v)
	if err != nil {
		return err
	}
	l.publish(events.PaintingLowStock, e.Painting)
	return l.Queue.Dispatch(ctx, jobs.New(jobs.LowStockAlert{To: l.AdminEmail, Painting: e.Painting}))
}

func (l *Listeners) reviewCreated(ctx context.Context, v any) error {
	e, err := payload[events.ReviewSubmitted](events.ReviewCreated, v)
	if err != nil {
		return err
	}
	return l.Queue.Dispatch(ctx, jobs.New(jobs.ReviewPending{
		To: l.AdminEmail, Review: e.Review, PaintingTitle: e.PaintingTitle,
	}))
}
