package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingTask struct {
	runs     atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	duration time.Duration
}

func (t *countingTask) Run(ctx context.Context) error {
	current := t.inFlight.Add(1)
	defer t.inFlight.Add(-1)
	for {
		max := t.maxSeen.Load()
		if current <= max || t.maxSeen.CompareAndSwap(max, current) {
			break
		}
	}
	if t.duration > 0 {
		time.Sleep(t.duration)
	}
	t.runs.Add(1)
	return nil
}

func (t *countingTask) Name() string { return "counting task" }

func TestPeriodicRunnerRunsTask(t *testing.T) {
	task := &countingTask{}
	runner := NewPeriodicRunner(task, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 105*time.Millisecond)
	defer cancel()
	require.NoError(t, runner.Run(ctx))

	runs := task.runs.Load()
	assert.Greater(t, runs, int32(2))
	assert.LessOrEqual(t, runs, int32(10))
}

func TestPeriodicRunnerNeverOverlaps(t *testing.T) {
	// Task takes 2.5 periods: overrun ticks must be skipped, not stacked.
	task := &countingTask{duration: 25 * time.Millisecond}
	runner := NewPeriodicRunner(task, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	require.NoError(t, runner.Run(ctx))

	assert.Equal(t, int32(1), task.maxSeen.Load(), "at most one run in flight")
	assert.LessOrEqual(t, task.runs.Load(), int32(6), "elapsed ticks are dropped, not queued")
}

func TestPeriodicRunnerFinishesInFlightRunOnShutdown(t *testing.T) {
	task := &countingTask{duration: 50 * time.Millisecond}
	runner := NewPeriodicRunner(task, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()

	// Cancel while the first run is in flight; Run must return only after
	// the task completes.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(1), task.runs.Load())
	assert.Zero(t, task.inFlight.Load())
}
