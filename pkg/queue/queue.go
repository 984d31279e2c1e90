// Package queue runs background jobs (transactional email, digests) outside
// the request path.
//
//	type SendOrderEmail struct{ OrderNumber string }
//	func (SendOrderEmail) JobName() string { return "mail.order_confirmation" }
//	func (j *SendOrderEmail) Handle(ctx context.Context) error { ... }
//
//	queue.Register("mail.order_confirmation", func() queue.Job { return &SendOrderEmail{} })
//	queue.Dispatch(ctx, &SendOrderEmail{OrderNumber: "ORD-20260101-1A2B3C4D"})
//
// Jobs are serialised as JSON, so dependencies (mailer, repositories) are
// captured by the registered factory rather than carried in the payload.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	Handle(ctx context.Context) error
}

// Named lets a job choose its wire name. Jobs that don't implement it are
// registered under their Go type name ("*jobs.SendOrderEmail").
type Named interface {
	JobName() string
}

// Driver is the queue storage backend.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	PushDelayed(ctx context.Context, payload []byte, delay time.Duration) error
	// Pop blocks until a payload is ready. A nil payload with a nil error
	// means the wait timed out and the caller should poll again.
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

var ErrUnknownJob = errors.New("queue: job type not registered")

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns a driver, the job registry and the retry policy.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  time.Duration
	store    failedStore
}

func NewManager(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  time.Second,
	}
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.driver = d
}

// SetMaxRetry sets how many attempts a failing job gets.
func (m *Manager) SetMaxRetry(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n < 1 {
		n = 1
	}
	m.maxRetry = n
}

// SetBackoff sets the base delay; attempt n waits n*base before retrying.
func (m *Manager) SetBackoff(base time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backoff = base
}

// Register makes a job type available for deserialisation by name.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

func jobName(job Job) string {
	if n, ok := job.(Named); ok {
		return n.JobName()
	}
	return fmt.Sprintf("%T", job)
}

func (m *Manager) encode(job Job) ([]byte, string, error) {
	name := jobName(job)
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, name, fmt.Errorf("queue: marshal job %s: %w", name, err)
	}
	env, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return nil, name, fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return env, name, nil
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

// Dispatch pushes job onto the queue immediately.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	raw, _, err := m.encode(job)
	if err != nil {
		return err
	}
	return m.currentDriver().Push(ctx, raw)
}

// DispatchAfter schedules job to become available after delay.
func (m *Manager) DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	raw, _, err := m.encode(job)
	if err != nil {
		return err
	}
	return m.currentDriver().PushDelayed(ctx, raw, delay)
}

// Start launches n workers that run until ctx is cancelled and returns a
// function that blocks until they have all exited.
func (m *Manager) Start(ctx context.Context, n int) (wait func()) {
	if n < 1 {
		n = 1
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return wg.Wait
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		if err := m.Process(ctx, raw); err != nil {
			logger.Error("queue: discarding payload", "error", err)
		}
	}
}

// Drain runs every job already buffered in the caller's goroutine. Only
// drivers that can report their length are drained; for the rest it is a
// no-op and the jobs stay queued for `galeria queue:work`.
func (m *Manager) Drain(ctx context.Context) (int, error) {
	d := m.currentDriver()
	counted, ok := d.(interface{ Len() int })
	if !ok {
		return 0, nil
	}
	n := 0
	for counted.Len() > 0 {
		raw, err := d.Pop(ctx)
		if err != nil {
			return n, err
		}
		if err := m.Process(ctx, raw); err != nil {
			logger.Error("queue: discarding payload", "error", err)
		}
		n++
	}
	return n, nil
}

// Process decodes one envelope and runs it with retries. It returns an
// error only when the payload cannot be turned into a job.
func (m *Manager) Process(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("queue: bad envelope: %w", err)
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, env.Type)
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return fmt.Errorf("queue: unmarshal %s: %w", env.Type, err)
	}

	m.runWithRetry(ctx, job, env)
	return nil
}

func (m *Manager) runWithRetry(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	maxRetry, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		lastErr = job.Handle(ctx)
		if lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Info("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < maxRetry && !sleep(ctx, time.Duration(attempt)*backoff) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.persistFailed(ctx, FailedJob{
		Type:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr,
		FailedAt: time.Now().UTC(),
		Attempts: maxRetry,
	})
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// FailedJobs returns a snapshot of jobs that failed in this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ─── Package-level default manager ───────────────────────────────────────────

var std = NewManager(NewMemoryDriver())

func Default() *Manager { return std }

func SetDriver(d Driver)                             { std.SetDriver(d) }
func SetMaxRetry(n int)                              { std.SetMaxRetry(n) }
func Register(name string, factory func() Job)       { std.Register(name, factory) }
func Dispatch(ctx context.Context, job Job) error    { return std.Dispatch(ctx, job) }
func StartWorkers(ctx context.Context, n int) func() { return std.Start(ctx, n) }
func FailedJobs() []FailedJob                        { return std.FailedJobs() }

func DispatchAfter(ctx context.Context, job Job, delay time.Duration) error {
	return std.DispatchAfter(ctx, job, delay)
}
