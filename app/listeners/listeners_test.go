package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/broker"
	"github.com/shashiranjanraj/galeria/pkg/event"
	"github.com/shashiranjanraj/galeria/pkg/queue"
)

type jobLog struct {
	mu    sync.Mutex
	names []string
}

func (l *jobLog) Dispatch(_ context.Context, j queue.Job) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, j.(queue.Named).JobName())
	return nil
}

type feed struct{ types []string }

func (f *feed) Publish(eventType string, _ any) { f.types = append(f.types, eventType) }

type published struct{ topic, key, eventType string }

type fakeBroker struct{ msgs []published }

func (b *fakeBroker) Publish(_ context.Context, topic, key, eventType string, _ any) error {
	b.msgs = append(b.msgs, published{topic, key, eventType})
	return nil
}

func (b *fakeBroker) Close() error { return nil }

func setup() (*event.Dispatcher, *jobLog, *feed, *fakeBroker) {
	d := event.NewDispatcher()
	q, f, b := &jobLog{}, &feed{}, &fakeBroker{}
	(&Listeners{Queue: q, Feed: f, Broker: b, AdminEmail: "admin@galeria.cl"}).Register(d)
	return d, q, f, b
}

func TestOrderCreatedQueuesBothEmails(t *testing.T) {
	d, q, f, b := setup()
	o := models.Order{OrderNumber: "ORD-20260315-ABCDEF12"}

	require.NoError(t, d.Fire(context.Background(), events.OrderCreated, events.OrderPlaced{Order: o}))

	assert.Equal(t, []string{"notify.order_confirmation", "notify.admin_new_order"}, q.names)
	assert.Equal(t, []string{events.OrderCreated}, f.types)
	assert.Equal(t, []published{{broker.TopicOrders, o.OrderNumber, events.OrderCreated}}, b.msgs)
}

func TestOrderUpdatedEmailsOnlyOnStatusChange(t *testing.T) {
	d, q, _, b := setup()
	o := models.Order{OrderNumber: "ORD-1", Status: models.OrderShipped}

	require.NoError(t, d.Fire(context.Background(), events.OrderUpdated,
		events.OrderChanged{Order: o, PreviousStatus: models.OrderShipped}))
	assert.Empty(t, q.names)

	require.NoError(t, d.Fire(context.Background(), events.OrderUpdated,
		events.OrderChanged{Order: o, PreviousStatus: models.OrderConfirmed}))
	assert.Equal(t, []string{"notify.order_status"}, q.names)
	assert.Len(t, b.msgs, 2)
}

func TestCustomOrderEvents(t *testing.T) {
	d, q, _, b := setup()
	c := models.CustomOrder{RequestNumber: "SOL-20260315-ABC123"}

	require.NoError(t, d.Fire(context.Background(), events.CustomOrderCreated, events.CustomOrderPlaced{CustomOrder: c}))
	require.NoError(t, d.Fire(context.Background(), events.CustomOrderUpdated, events.CustomOrderChanged{CustomOrder: c}))

	assert.Equal(t, []string{
		"notify.custom_order_received", "notify.admin_custom_order", "notify.custom_order_update",
	}, q.names)
	require.Len(t, b.msgs, 2)
	assert.Equal(t, broker.TopicCustomOrders, b.msgs[1].topic)
}

func TestCatalogAlerts(t *testing.T) {
	d, q, f, _ := setup()

	require.NoError(t, d.Fire(context.Background(), events.PaintingLowStock, events.LowStock{}))
	require.NoError(t, d.Fire(context.Background(), events.ReviewCreated, events.ReviewSubmitted{}))

	assert.Equal(t, []string{"notify.low_stock", "notify.review_pending"}, q.names)
	assert.Equal(t, []string{events.PaintingLowStock}, f.types)
}

func TestWrongPayloadIsAnError(t *testing.T) {
	d, _, _, _ := setup()
	assert.Error(t, d.Fire(context.Background(), events.OrderCreated, "not an order"))
}
