package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultSettleBudget is the number of ticks Settle runs before giving up.
const DefaultSettleBudget = 256

// UpdateFunc is called once per tick before deferred tasks run.
type UpdateFunc func(tick int64)

// Framework is the single-writer tick loop.
//
// Thread-safety model:
//   - RunOnTick(), Post(): safe from any goroutine
//   - Tick(), Advance(), Settle(), Run(): exactly one goroutine
type Framework struct {
	clock  *Clock
	queue  *taskQueue
	logger *slog.Logger

	mu      sync.Mutex
	updates []UpdateFunc
}

// FrameworkOption configures a Framework.
type FrameworkOption func(*Framework)

// WithClock sets the tick clock. Used to resume numbering.
func WithClock(c *Clock) FrameworkOption {
	return func(f *Framework) {
		f.clock = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) FrameworkOption {
	return func(f *Framework) {
		f.logger = l
	}
}

// NewFramework creates an idle framework at tick 0.
func NewFramework(opts ...FrameworkOption) *Framework {
	f := &Framework{
		clock:  NewClock(),
		queue:  newTaskQueue(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CurrentTick returns the last processed tick.
func (f *Framework) CurrentTick() int64 {
	return f.clock.Current()
}

// OnUpdate registers a per-tick hook. Hooks run in registration order.
func (f *Framework) OnUpdate(fn UpdateFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, fn)
}

// RunOnTick schedules fn to run delay ticks from now. A delay below 1 means
// the next tick. Returns false if the framework has been stopped.
func (f *Framework) RunOnTick(delay int, fn func()) bool {
	if delay < 1 {
		delay = 1
	}
	return f.queue.Schedule(f.clock.Current()+int64(delay), fn)
}

// Post schedules fn for the next tick. Intended for callers on other
// goroutines that need to touch pose state.
func (f *Framework) Post(fn func()) bool {
	return f.RunOnTick(1, fn)
}

// Pending returns the number of scheduled tasks.
func (f *Framework) Pending() int {
	return f.queue.Len()
}

// Tick advances the clock by one, runs update hooks, then runs due tasks.
//
// ERROR HANDLING: a panicking task is logged and the remaining tasks still
// run. Tasks are best-effort live edits; one failure must not stall the loop.
func (f *Framework) Tick() int64 {
	tick := f.clock.Next()

	f.mu.Lock()
	updates := make([]UpdateFunc, len(f.updates))
	copy(updates, f.updates)
	f.mu.Unlock()

	for _, fn := range updates {
		fn(tick)
	}

	for _, t := range f.queue.TakeDue(tick) {
		f.runTask(tick, t)
	}

	return tick
}

// Advance runs n ticks.
func (f *Framework) Advance(n int) {
	for i := 0; i < n; i++ {
		f.Tick()
	}
}

// Settle ticks until no task is pending, running at most budget ticks
// (DefaultSettleBudget when budget < 1). Returns the number of ticks run.
func (f *Framework) Settle(budget int) (int, error) {
	if budget < 1 {
		budget = DefaultSettleBudget
	}
	ticks := 0
	for f.queue.Len() > 0 {
		if ticks >= budget {
			return ticks, NewNotSettledError(f.clock.Current(), f.queue.Len(), budget)
		}
		f.Tick()
		ticks++
	}
	return ticks, nil
}

// Run ticks every interval until ctx is cancelled or Stop is called.
// Must be called from exactly one goroutine.
func (f *Framework) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", interval)
	}

	f.logger.Info("framework starting", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("framework stopping: context cancelled", "tick", f.clock.Current())
			f.queue.Close()
			return ctx.Err()

		case <-ticker.C:
			f.Tick()

		case _, ok := <-f.queue.Wait():
			if !ok {
				f.logger.Info("framework stopping: queue closed", "tick", f.clock.Current())
				return nil
			}
		}
	}
}

// Stop rejects further scheduling and makes Run return.
func (f *Framework) Stop() {
	f.queue.Close()
}

func (f *Framework) runTask(tick int64, t task) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("scheduled task panicked",
				"tick", tick,
				"due", t.due,
				"seq", t.seq,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	t.fn()
}
