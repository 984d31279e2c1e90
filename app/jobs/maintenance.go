package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
	"github.com/shashiranjanraj/galeria/pkg/queue"
	"github.com/shashiranjanraj/galeria/pkg/schedule"
)

// PendingAge is how long an order may stay pending before it shows up in
// the daily digest.
const PendingAge = 48 * time.Hour

// Dispatcher is the part of *queue.Manager the listeners and tasks use.
type Dispatcher interface {
	Dispatch(ctx context.Context, job queue.Job) error
}

type ExpiredCoupons interface {
	CountExpired(ctx context.Context) (int64, error)
}

type StaleOrders interface {
	StalePending(ctx context.Context, age time.Duration) ([]models.Order, time.Time, error)
}

// Maintenance is the set of scheduled tasks run by `galeria schedule:run`.
type Maintenance struct {
	Coupons    ExpiredCoupons
	Orders     StaleOrders
	Queue      Dispatcher
	AdminEmail string
}

// ReportExpiredCoupons publishes how many active coupons are past their
// window so admins can clean them up. Coupons are left untouched.
func (m *Maintenance) ReportExpiredCoupons(ctx context.Context) error {
	n, err := m.Coupons.CountExpired(ctx)
	if err != nil {
		return fmt.Errorf("count expired coupons: %w", err)
	}
	metrics.CouponsExpiredActive.Set(float64(n))
	if n > 0 {
		logger.WithCtx(ctx).Info("active coupons past their window", "count", n)
	}
	return nil
}

// PendingDigest queues the admin digest. Nothing is sent when no order is
// overdue.
func (m *Maintenance) PendingDigest(ctx context.Context) error {
	orders, cutoff, err := m.Orders.StalePending(ctx, PendingAge)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}
	return m.Queue.Dispatch(ctx, New(PendingDigest{To: m.AdminEmail, Orders: orders, Cutoff: cutoff}))
}

// Schedule registers the tasks on s.
func (m *Maintenance) Schedule(s *schedule.Scheduler) error {
	if err := s.Hourly().Name("coupons:expired").WithoutOverlapping().Run(m.ReportExpiredCoupons); err != nil {
		return err
	}
	return s.Daily().At("09:00").Name("orders:pending-digest").WithoutOverlapping().Run(m.PendingDigest)
}
