package testutil

import (
	"testing"

	"github.com/roach88/livepose/internal/engine"
)

// DefaultBudget is the tick budget Drain allows before failing the test.
const DefaultBudget = 64

// TickDriver steps an engine.Framework by hand for tests.
//
// Unlike Framework.Run, nothing happens between calls, so a test can assert
// on the state at every tick boundary.
type TickDriver struct {
	fw *engine.Framework
}

// NewTickDriver wraps fw. A nil fw gets a fresh framework.
func NewTickDriver(fw *engine.Framework) *TickDriver {
	if fw == nil {
		fw = engine.NewFramework()
	}
	return &TickDriver{fw: fw}
}

// Framework returns the driven framework.
func (d *TickDriver) Framework() *engine.Framework {
	return d.fw
}

// Step runs n ticks and returns the tick reached.
func (d *TickDriver) Step(n int) int64 {
	d.fw.Advance(n)
	return d.fw.CurrentTick()
}

// Drain ticks until no task is pending, failing t if DefaultBudget ticks
// are not enough. It returns the number of ticks run.
func (d *TickDriver) Drain(t testing.TB) int {
	t.Helper()
	n, err := d.fw.Settle(DefaultBudget)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	return n
}
