package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEvery_RunsImmediatelyAndRepeats(t *testing.T) {
	s := NewScheduler(time.Second, quietLogger())
	var runs atomic.Int32

	s.Every(10*time.Millisecond, "count", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestEvery_FailingTaskKeepsRunning(t *testing.T) {
	s := NewScheduler(time.Second, quietLogger())
	defer s.Stop()
	var runs atomic.Int32

	s.Every(10*time.Millisecond, "failing", func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestStop_CancelsInFlightRun(t *testing.T) {
	s := NewScheduler(time.Minute, quietLogger())
	started := make(chan struct{})
	var cancelled atomic.Bool

	s.Every(time.Hour, "blocking", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})

	<-started
	s.Stop()
	assert.True(t, cancelled.Load())
}

func TestEvery_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(0, quietLogger())
	called := false
	s.Every(0, "never", func(context.Context) error {
		called = true
		return nil
	})
	s.Stop()
	assert.False(t, called)
}
