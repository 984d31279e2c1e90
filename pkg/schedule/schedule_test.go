package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCron(t *testing.T) {
	nine := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	assert.True(t, matchCron("0 9 * * *", nine))
	assert.False(t, matchCron("0 9 * * *", nine.Add(time.Minute)))
	assert.True(t, matchCron("*/15 * * * 1-5", nine.Add(45*time.Minute)))
	assert.True(t, matchCron("0,30 9 * * *", nine.Add(30*time.Minute)))
	assert.False(t, matchCron("0 9 * * 0", nine))
}

func TestValidateCron(t *testing.T) {
	assert.NoError(t, validateCron("0 * * * *"))
	assert.Error(t, validateCron("60 * * * *"))
	assert.Error(t, validateCron("* * *"))
	assert.Error(t, validateCron("*/0 * * * *"))
}

func TestAtRewritesDailySpec(t *testing.T) {
	s := New()
	require.NoError(t, s.Daily().At("09:00").Name("digest").Run(func(context.Context) error { return nil }))
	require.NoError(t, s.Daily().At("18:05").Name("late").Run(func(context.Context) error { return nil }))

	assert.Equal(t, []Entry{{Name: "digest", Spec: "0 9 * * *"}, {Name: "late", Spec: "5 18 * * *"}}, s.List())
}

func TestCronEntryRunsOncePerMinute(t *testing.T) {
	s := New()
	var runs atomic.Int32
	require.NoError(t, s.Hourly().Name("coupons:expired").Run(func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	top := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	for sec := 0; sec < 60; sec++ {
		s.tick(context.Background(), top.Add(time.Duration(sec)*time.Second))
	}
	s.tick(context.Background(), top.Add(5*time.Minute))
	s.wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
}

func TestIntervalEntry(t *testing.T) {
	s := New()
	var runs atomic.Int32
	require.NoError(t, s.Every(10*time.Second).Run(func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	t0 := time.Now()
	s.tick(context.Background(), t0)
	s.tick(context.Background(), t0.Add(5*time.Second))
	s.tick(context.Background(), t0.Add(10*time.Second))
	s.wg.Wait()

	assert.Equal(t, int32(2), runs.Load())
}

func TestWithoutOverlapping(t *testing.T) {
	s := New()
	release := make(chan struct{})
	var runs atomic.Int32
	require.NoError(t, s.Every(time.Second).WithoutOverlapping().Run(func(context.Context) error {
		runs.Add(1)
		<-release
		return nil
	}))

	t0 := time.Now()
	s.tick(context.Background(), t0)
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.tick(context.Background(), t0.Add(2*time.Second))
	close(release)
	s.wg.Wait()

	assert.Equal(t, int32(1), runs.Load())
}

func TestRunNow(t *testing.T) {
	s := New()
	called := false
	require.NoError(t, s.Every(time.Hour).Name("x").Run(func(context.Context) error { called = true; return nil }))
	require.NoError(t, s.RunNow(context.Background(), "x"))
	assert.True(t, called)
	assert.Error(t, s.RunNow(context.Background(), "missing"))
}
