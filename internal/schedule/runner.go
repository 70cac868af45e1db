package schedule

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PeriodicRunner drives a task on a fixed interval with at most one run in
// flight. Runs execute synchronously in the loop, so a tick firing during a
// slow run is dropped, never queued, and Run does not return mid-task on
// shutdown.
type PeriodicRunner struct {
	task     Task
	interval time.Duration
	logger   *zap.Logger
}

func NewPeriodicRunner(task Task, interval time.Duration, logger *zap.Logger) *PeriodicRunner {
	return &PeriodicRunner{task: task, interval: interval, logger: logger}
}

func (r *PeriodicRunner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("periodic runner started", zap.String("task", r.task.Name()), zap.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("periodic runner stopped", zap.String("task", r.task.Name()))
			return nil
		case <-ticker.C:
			// The run is detached from the shutdown signal so an in-flight
			// claim/notify pair always completes; the task bounds its own
			// deadline.
			if err := r.task.Run(context.WithoutCancel(ctx)); err != nil {
				r.logger.Warn("task run failed", zap.String("task", r.task.Name()), zap.Error(err))
			}
			select {
			case <-ticker.C:
				// Tick elapsed while the task ran: skipped.
			default:
			}
			// Shutdown requested during the run wins over any ready tick.
			select {
			case <-ctx.Done():
				r.logger.Info("periodic runner stopped", zap.String("task", r.task.Name()))
				return nil
			default:
			}
		}
	}
}
