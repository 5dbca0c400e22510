package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Massinr/cryptotracker/src/logger"
)

// -----------------------------------------------------------------------------
// RefreshScheduler
//
// One cancellable polling loop per view. The first run happens immediately on
// Start, then the task repeats on a fixed interval. Runs are serialized
// within a scheduler, so fetches for the same view never overlap; schedulers
// for different views proceed independently.
//
// The task receives the scheduler's context; once Stop cancels it, an
// in-flight task must abandon its result instead of applying it.
// -----------------------------------------------------------------------------

type Task func(ctx context.Context) error

type RefreshScheduler struct {
	Name     string
	Interval time.Duration
	Logger   *logger.Logger

	task       Task
	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

func NewRefreshScheduler(name string, interval time.Duration, task Task) *RefreshScheduler {
	return &RefreshScheduler{
		Name:     name,
		Interval: interval,
		Logger:   logger.NewLogger("RefreshScheduler-" + name),
		task:     task,
	}
}

// -----------------------------------------------------------------------------

// Start launches the polling loop. The WaitGroup is released when the loop
// has fully stopped, so shutdown can drain every view.
func (s *RefreshScheduler) Start(parentCtx context.Context, wg *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning.Load() {
		return fmt.Errorf("scheduler %s is already running", s.Name)
	}

	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel
	s.isRunning.Store(true)

	wg.Add(1)
	go s.runLoop(ctx, wg)
	s.Logger.Info("Started refresh loop (interval %s)", s.Interval)
	return nil
}

// -----------------------------------------------------------------------------

// Stop cancels the loop. Safe to call from any teardown path; calling it on
// a stopped scheduler returns an error but has no other effect.
func (s *RefreshScheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning.Load() {
		return fmt.Errorf("scheduler %s is not running", s.Name)
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning.Store(false)
	s.Logger.Info("Stopped refresh loop")
	return nil
}

// -----------------------------------------------------------------------------

// IsRunning reports whether the loop is active.
func (s *RefreshScheduler) IsRunning() bool {
	return s.isRunning.Load()
}

// -----------------------------------------------------------------------------

// runLoop runs the task once immediately, then on every tick until the
// context is cancelled. A failed run is not retried; the next tick is the
// retry.
func (s *RefreshScheduler) runLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	s.runTask(ctx)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTask(ctx)
		}
	}
}

// -----------------------------------------------------------------------------

func (s *RefreshScheduler) runTask(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if err := s.task(ctx); err != nil {
		if ctx.Err() != nil {
			// Torn down mid-flight; the result was discarded by the task.
			return
		}
		s.Logger.Warning("Refresh failed, waiting for next tick: %v", err)
	}
}
