// Package schedule runs the storefront's periodic maintenance.
//
//	s := schedule.New()
//	s.Hourly().Name("coupons:expired").Run(reportExpired)
//	s.Daily().At("09:00").Name("orders:pending-digest").WithoutOverlapping().Run(sendDigest)
//	s.Run(ctx) // blocks until ctx is cancelled
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/galeria/pkg/logger"
)

// Task is a scheduled unit of work.
type Task func(ctx context.Context) error

type entry struct {
	name      string
	interval  time.Duration
	cron      string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Entry describes a registered task for `galeria schedule:list`-style output.
type Entry struct {
	Name string
	Spec string
}

// Scheduler holds entries and dispatches the due ones every second.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
	now     func() time.Time
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{now: time.Now}
}

// Schedule is the fluent builder for one entry.
type Schedule struct {
	s *Scheduler
	e *entry
}

func (s *Scheduler) Every(d time.Duration) *Schedule {
	return &Schedule{s: s, e: &entry{interval: d}}
}

// Hourly runs at minute 0 of every hour.
func (s *Scheduler) Hourly() *Schedule { return s.Cron("0 * * * *") }

// Daily runs at midnight unless At moves it.
func (s *Scheduler) Daily() *Schedule { return s.Cron("0 0 * * *") }

// Cron uses a 5-field expression: minute hour day-of-month month day-of-week.
// Fields accept "*", "n", "a-b", "*/step" and comma lists of those.
func (s *Scheduler) Cron(expr string) *Schedule {
	return &Schedule{s: s, e: &entry{cron: expr}}
}

// At sets the time of day ("HH:MM") of a daily schedule.
func (b *Schedule) At(hhmm string) *Schedule {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		b.e.cron = "invalid " + hhmm
		return b
	}
	fields := strings.Fields(b.e.cron)
	if len(fields) == 5 {
		fields[0], fields[1] = strings.TrimLeft(parts[1], "0"), strings.TrimLeft(parts[0], "0")
		for i := 0; i < 2; i++ {
			if fields[i] == "" {
				fields[i] = "0"
			}
		}
		b.e.cron = strings.Join(fields, " ")
	}
	return b
}

func (b *Schedule) Name(name string) *Schedule {
	b.e.name = name
	return b
}

// WithoutOverlapping skips a run while the previous one is still executing.
func (b *Schedule) WithoutOverlapping() *Schedule {
	b.e.noOverlap = true
	return b
}

// Run registers task. Invalid cron expressions are rejected.
func (b *Schedule) Run(task Task) error {
	if b.e.cron != "" {
		if err := validateCron(b.e.cron); err != nil {
			return err
		}
	} else if b.e.interval <= 0 {
		return fmt.Errorf("schedule: interval must be positive")
	}

	b.e.task = task
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.name == "" {
		b.e.name = fmt.Sprintf("task-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
	return nil
}

// List returns the registered entries.
func (s *Scheduler) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		spec := e.cron
		if spec == "" {
			spec = "every " + e.interval.String()
		}
		out = append(out, Entry{Name: e.name, Spec: spec})
	}
	return out
}

// Run ticks every second until ctx is cancelled, then waits for running
// tasks to return.
func (s *Scheduler) Run(ctx context.Context) {
	logger.Info("schedule: scheduler started", "tasks", len(s.List()))
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx, s.now())
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	current := append([]*entry(nil), s.entries...)
	s.mu.Unlock()

	for _, e := range current {
		if e.due(now) {
			s.dispatch(ctx, e, now)
		}
	}
}

// RunNow executes the named task synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	var found *entry
	for _, e := range s.entries {
		if e.name == name {
			found = e
		}
	}
	s.mu.Unlock()
	if found == nil {
		return fmt.Errorf("schedule: unknown task %q", name)
	}
	return found.task(ctx)
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cron != "" {
		// a cron entry fires once per matching minute
		if !e.lastRun.IsZero() && e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
			return false
		}
		return matchCron(e.cron, now)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "task", e.name)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", e.name, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Error("schedule: task failed", "task", e.name, "error", err)
			return
		}
		logger.Info("schedule: task finished", "task", e.name, "duration", time.Since(start).String())
	}()
}

// ─── Cron matching ───────────────────────────────────────────────────────────

var cronBounds = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

func validateCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("schedule: cron %q must have 5 fields", expr)
	}
	for i, f := range fields {
		for _, part := range strings.Split(f, ",") {
			if _, _, _, err := parsePart(part, cronBounds[i]); err != nil {
				return fmt.Errorf("schedule: cron %q: %w", expr, err)
			}
		}
	}
	return nil
}

func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	vals := [5]int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, vals[i], cronBounds[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int, bounds [2]int) bool {
	for _, part := range strings.Split(field, ",") {
		lo, hi, step, err := parsePart(part, bounds)
		if err != nil {
			continue
		}
		if val >= lo && val <= hi && (val-lo)%step == 0 {
			return true
		}
	}
	return false
}

// parsePart turns "*", "n", "a-b" or "<range>/step" into lo, hi, step.
func parsePart(part string, bounds [2]int) (lo, hi, step int, err error) {
	step = 1
	if base, s, ok := strings.Cut(part, "/"); ok {
		if step, err = strconv.Atoi(s); err != nil || step <= 0 {
			return 0, 0, 0, fmt.Errorf("bad step %q", part)
		}
		part = base
	}

	switch {
	case part == "*":
		lo, hi = bounds[0], bounds[1]
	case strings.Contains(part, "-"):
		a, b, _ := strings.Cut(part, "-")
		if lo, err = strconv.Atoi(a); err != nil {
			return 0, 0, 0, fmt.Errorf("bad range %q", part)
		}
		if hi, err = strconv.Atoi(b); err != nil {
			return 0, 0, 0, fmt.Errorf("bad range %q", part)
		}
	default:
		if lo, err = strconv.Atoi(part); err != nil {
			return 0, 0, 0, fmt.Errorf("bad value %q", part)
		}
		hi = lo
	}

	if lo < bounds[0] || hi > bounds[1] || lo > hi {
		return 0, 0, 0, fmt.Errorf("value out of range %q", part)
	}
	return lo, hi, step, nil
}
