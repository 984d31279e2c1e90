package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
	"github.com/shashiranjanraj/galeria/pkg/notification"
	"github.com/shashiranjanraj/galeria/pkg/queue"
	"github.com/shashiranjanraj/galeria/pkg/schedule"
)

// captureDriver keeps pushed payloads instead of delivering them.
type captureDriver struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (d *captureDriver) Push(_ context.Context, p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, p)
	return nil
}

func (d *captureDriver) PushDelayed(ctx context.Context, p []byte, _ time.Duration) error {
	return d.Push(ctx, p)
}

func (d *captureDriver) Pop(context.Context) ([]byte, error) { return nil, nil }

type fakeSender struct {
	mu   sync.Mutex
	sent []notification.Notification
	err  error
}

func (s *fakeSender) Send(_ context.Context, n notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func sampleOrder() models.Order {
	return models.Order{
		OrderNumber: "ORD-20260315-ABCDEF12",
		Items: []models.OrderItem{{
			PaintingID: "p1", Title: "Cerro Alegre", UnitPrice: 100000, Quantity: 1, LineTotal: 100000,
		}},
		Subtotal: 100000, ShippingCost: 5000, Discount: 8000, Total: 97000, CouponCode: "VERANO10",
		ShippingInfo: models.ShippingInfo{FullName: "Ana Pérez", Email: "ana@example.cl"},
		Status:       models.OrderPending,
	}
}

func TestNotifyJobRoundTripsThroughQueue(t *testing.T) {
	driver := &captureDriver{}
	m := queue.NewManager(driver)
	m.SetMaxRetry(1)
	sender := &fakeSender{}
	Register(m, sender)

	require.NoError(t, m.Dispatch(context.Background(), New(OrderConfirmation{Order: sampleOrder()})))
	require.Len(t, driver.payloads, 1)
	require.NoError(t, m.Process(context.Background(), driver.payloads[0]))

	require.Len(t, sender.sent, 1)
	got, ok := sender.sent[0].(OrderConfirmation)
	require.True(t, ok)
	assert.Equal(t, "ORD-20260315-ABCDEF12", got.Order.OrderNumber)
	assert.Equal(t, int64(97000), got.Order.Total)
}

func TestNotifyJobFailureIsRecorded(t *testing.T) {
	driver := &captureDriver{}
	m := queue.NewManager(driver)
	m.SetMaxRetry(2)
	m.SetBackoff(time.Millisecond)
	Register(m, &fakeSender{err: errors.New("smtp down")})

	require.NoError(t, m.Dispatch(context.Background(), New(LowStockAlert{To: "admin@galeria.cl", Painting: models.Painting{Title: "Niebla"}})))
	require.NoError(t, m.Process(context.Background(), driver.payloads[0]))

	failed := m.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, "notify.low_stock", failed[0].Type)
	assert.Equal(t, 2, failed[0].Attempts)
}

func TestUnsentJobWithoutSender(t *testing.T) {
	err := New(OrderStatusUpdate{}).Handle(context.Background())
	assert.ErrorIs(t, err, ErrNoSender)
}

func TestOrderConfirmationRendersTotals(t *testing.T) {
	msg, err := OrderConfirmation{Order: sampleOrder()}.ToMail()
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.cl"}, msg.To)
	assert.Contains(t, msg.Subject, "ORD-20260315-ABCDEF12")
	assert.Contains(t, msg.HTML, "$97.000")
	assert.Contains(t, msg.HTML, "Cerro Alegre")
}

func TestAdminAlertsFallBackToSlack(t *testing.T) {
	assert.Equal(t, []string{notification.Slack}, AdminNewOrder{}.Via())
	assert.Equal(t, []string{notification.Mail, notification.Slack}, AdminNewOrder{To: "admin@galeria.cl"}.Via())
}

type fakeExpired struct{ calls int }

func (f *fakeExpired) CountExpired(context.Context) (int64, error) {
	f.calls++
	return 2, nil
}

type fakeStale struct{ orders []models.Order }

func (f fakeStale) StalePending(_ context.Context, age time.Duration) ([]models.Order, time.Time, error) {
	return f.orders, time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC), nil
}

type recordingQueue struct{ jobs []queue.Job }

func (q *recordingQueue) Dispatch(_ context.Context, j queue.Job) error {
	q.jobs = append(q.jobs, j)
	return nil
}

func TestMaintenanceTasks(t *testing.T) {
	q := &recordingQueue{}
	expired := &fakeExpired{}
	m := &Maintenance{Coupons: expired, Orders: fakeStale{}, Queue: q, AdminEmail: "admin@galeria.cl"}

	require.NoError(t, m.ReportExpiredCoupons(context.Background()))
	assert.Equal(t, 1, expired.calls)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.CouponsExpiredActive))

	require.NoError(t, m.PendingDigest(context.Background()))
	assert.Empty(t, q.jobs, "no digest without overdue orders")

	m.Orders = fakeStale{orders: []models.Order{sampleOrder()}}
	require.NoError(t, m.PendingDigest(context.Background()))
	require.Len(t, q.jobs, 1)
	digest := q.jobs[0].(*Notify[PendingDigest])
	assert.Equal(t, "notify.pending_digest", digest.JobName())
	assert.Len(t, digest.Notification.Orders, 1)
}

func TestMaintenanceSchedule(t *testing.T) {
	s := schedule.New()
	m := &Maintenance{Coupons: &fakeExpired{}, Orders: fakeStale{}, Queue: &recordingQueue{}}
	require.NoError(t, m.Schedule(s))

	entries := s.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "coupons:expired", entries[0].Name)
	assert.Equal(t, "0 * * * *", entries[0].Spec)
	assert.Equal(t, "orders:pending-digest", entries[1].Name)
	assert.Equal(t, "0 9 * * *", entries[1].Spec)
}
