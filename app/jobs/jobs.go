// Package jobs holds the queued notification jobs and the scheduled
// maintenance tasks.
//
// Every notification travels through the queue as a Notify job named
// "notify.<kind>", so a failed email is retried and, once retries run out,
// lands in failed_jobs with its full payload.
package jobs

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/galeria/pkg/notification"
	"github.com/shashiranjanraj/galeria/pkg/queue"
)

var ErrNoSender = errors.New("jobs: notify job has no sender")

// Kinded is a notification with a stable wire name.
type Kinded interface {
	notification.Notification
	Kind() string
}

// Sender delivers a notification on its channels.
type Sender interface {
	Send(ctx context.Context, n notification.Notification) error
}

// Notify is the queued form of a notification.
type Notify[N Kinded] struct {
	Notification N `json:"notification"`
	sender       Sender
}

// New wraps n for dispatch.
func New[N Kinded](n N) *Notify[N] {
	return &Notify[N]{Notification: n}
}

func (j *Notify[N]) JobName() string { return "notify." + j.Notification.Kind() }

func (j *Notify[N]) Handle(ctx context.Context) error {
	if j.sender == nil {
		return ErrNoSender
	}
	return j.sender.Send(ctx, j.Notification)
}

func register[N Kinded](m *queue.Manager, s Sender) {
	var zero N
	m.Register("notify."+zero.Kind(), func() queue.Job { return &Notify[N]{sender: s} })
}

// Register makes every notification job runnable on m.
func Register(m *queue.Manager, s Sender) {
	register[OrderConfirmation](m, s)
	register[AdminNewOrder](m, s)
	register[OrderStatusUpdate](m, s)
	register[PendingDigest](m, s)
	register[CustomOrderReceived](m, s)
	register[AdminCustomOrder](m, s)
	register[CustomOrderUpdate](m, s)
	register[LowStockAlert](m, s)
	register[ReviewPending](m, s)
}
