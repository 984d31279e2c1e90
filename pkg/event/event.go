// Package event provides an in-process event dispatcher. Listeners receive
// the request context and the event payload; FireAsync detaches from the
// caller's cancellation so a finished HTTP request does not abort them.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload any) error

// Dispatcher maps event names to listeners.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

func (d *Dispatcher) listeners(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Handler(nil), d.handlers[name]...)
}

// Fire runs every listener in registration order and returns the first error.
// All listeners run even if an earlier one fails.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) error {
	var first error
	for _, h := range d.listeners(name) {
		if err := call(ctx, name, h, payload); err != nil {
			logger.WithCtx(ctx).Error("event: listener failed", "event", name, "error", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// FireAsync runs each listener on its own goroutine. Errors are logged.
func (d *Dispatcher) FireAsync(ctx context.Context, name string, payload any) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range d.listeners(name) {
		d.wg.Add(1)
		go func(h Handler) {
			defer d.wg.Done()
			if err := call(ctx, name, h, payload); err != nil {
				logger.WithCtx(ctx).Error("event: async listener failed", "event", name, "error", err)
			}
		}(h)
	}
}

// Wait blocks until in-flight async listeners have returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Flush removes all listeners.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}

func call(ctx context.Context, name string, h Handler, payload any) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("event %s: listener panic: %v", name, rec)
		}
	}()
	return h(ctx, payload)
}

// ─── Package-level default dispatcher ────────────────────────────────────────

var std = NewDispatcher()

// Default returns the process-wide dispatcher.
func Default() *Dispatcher { return std }

func Listen(name string, h Handler) { std.Listen(name, h) }

func Fire(ctx context.Context, name string, payload any) error {
	return std.Fire(ctx, name, payload)
}

func FireAsync(ctx context.Context, name string, payload any) { std.FireAsync(ctx, name, payload) }

func Flush() { std.Flush() }
