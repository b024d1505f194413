package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of periodic work
type Task func(ctx context.Context) error

// Scheduler handles periodic tasks
type Scheduler struct {
	logger   *slog.Logger
	timeout  time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates a new scheduler. Each task run gets its own context
// bounded by timeout.
func NewScheduler(timeout time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		logger:   logger,
		timeout:  timeout,
		stopChan: make(chan struct{}),
	}
}

// Every starts taskName in the background, running it immediately and then
// once per interval until Stop
func (s *Scheduler) Every(interval time.Duration, taskName string, task Task) {
	if interval <= 0 {
		s.logger.Warn("Ignoring interval task with non-positive interval", "task", taskName)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.scheduleIntervalTask(interval, taskName, task)
	}()
}

// Stop stops the scheduler and waits for running tasks to return
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// scheduleIntervalTask runs a task at regular intervals
func (s *Scheduler) scheduleIntervalTask(interval time.Duration, taskName string, task Task) {
	s.logger.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.run(taskName, task)

	for {
		select {
		case <-ticker.C:
			s.run(taskName, task)
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) run(taskName string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Stop cancels an in-flight run
	go func() {
		select {
		case <-s.stopChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	if err := task(ctx); err != nil {
		s.logger.Error("Interval task failed", "task", taskName, "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Debug("Interval task finished", "task", taskName, "duration", time.Since(start))
}
