package queue

import (
	"context"
	"errors"
	"time"
)

var ErrQueueFull = errors.New("queue: memory queue is full")

// MemoryDriver is an in-process, channel-backed driver. Jobs are lost on
// restart, so it is meant for development and single-process deployments.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory queue with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1000)}
}

// Push never blocks; a full buffer is reported as ErrQueueFull.
func (d *MemoryDriver) Push(_ context.Context, payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error {
	time.AfterFunc(delay, func() { _ = d.Push(ctx, payload) })
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// Len reports the number of buffered jobs.
func (d *MemoryDriver) Len() int { return len(d.ch) }
