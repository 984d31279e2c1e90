package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	echoCalls atomic.Int32
	failCalls atomic.Int32
)

type echoJob struct {
	Val string `json:"val"`
}

func (echoJob) JobName() string { return "test.echo" }

func (j *echoJob) Handle(context.Context) error {
	echoCalls.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle(context.Context) error {
	failCalls.Add(1)
	return errors.New("always fails")
}

func newManager() *Manager {
	m := NewManager(NewMemoryDriver())
	m.SetBackoff(0)
	m.Register("test.echo", func() Job { return &echoJob{} })
	m.Register("*queue.failJob", func() Job { return &failJob{} })
	return m
}

func TestDispatchAndProcess(t *testing.T) {
	m := newManager()
	ctx, cancel := context.WithCancel(context.Background())
	wait := m.Start(ctx, 2)

	before := echoCalls.Load()
	require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "hola"}))

	assert.Eventually(t, func() bool { return echoCalls.Load() == before+1 }, time.Second, 10*time.Millisecond)
	cancel()
	wait()
}

func TestFailedJobRetriesThenRecords(t *testing.T) {
	m := newManager()
	m.SetMaxRetry(3)

	before := failCalls.Load()
	raw, _, err := m.encode(&failJob{})
	require.NoError(t, err)
	require.NoError(t, m.Process(context.Background(), raw))

	assert.Equal(t, before+3, failCalls.Load())
	failed := m.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, "*queue.failJob", failed[0].Type)
	assert.Equal(t, 3, failed[0].Attempts)
}

func TestFailedJobPersistedToDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:failed_jobs?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&FailedJobRecord{}))

	m := newManager()
	m.SetMaxRetry(1)
	m.UseDB(db)

	raw, _, err := m.encode(&failJob{})
	require.NoError(t, err)
	require.NoError(t, m.Process(context.Background(), raw))

	var rows []FailedJobRecord
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "always fails", rows[0].Error)
}

func TestProcessUnknownJob(t *testing.T) {
	m := NewManager(NewMemoryDriver())
	err := m.Process(context.Background(), []byte(`{"type":"nope","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestDispatchAfter(t *testing.T) {
	d := NewMemoryDriver()
	m := NewManager(d)
	m.Register("test.echo", func() Job { return &echoJob{} })

	require.NoError(t, m.DispatchAfter(context.Background(), &echoJob{}, 20*time.Millisecond))
	assert.Equal(t, 0, d.Len())
	assert.Eventually(t, func() bool { return d.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMemoryDriverFull(t *testing.T) {
	d := &MemoryDriver{ch: make(chan []byte, 1)}
	require.NoError(t, d.Push(context.Background(), []byte("a")))
	assert.ErrorIs(t, d.Push(context.Background(), []byte("b")), ErrQueueFull)
}

func TestDrainRunsBufferedJobs(t *testing.T) {
	m := newManager()
	ctx := context.Background()
	before := echoCalls.Load()
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Dispatch(ctx, &echoJob{Val: "x"}))
	}

	n, err := m.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, before+3, echoCalls.Load())
}
