package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/livepose/internal/trace"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Steps    []trace.Step
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Steps) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for i, s := range e.Steps {
			fmt.Fprintf(&buf, "  [%d] %s ok=%t tick=%d\n", i+1, s.Op, s.OK, s.Tick)
		}
	}
	return buf.String()
}

// evaluate runs every scenario assertion and returns the failure messages.
func (h *Harness) evaluate(ctx context.Context, result *Result) []string {
	var errs []string
	steps := result.Trace.Steps
	for i, a := range h.scenario.Assertions {
		var err error
		switch a.Type {
		case AssertOpOrder:
			err = assertOpOrder(steps, a)
		case AssertOpCount:
			err = assertOpCount(steps, a)
		case AssertFinalState:
			err = assertFinalState(steps, a)
		case AssertStoredRows:
			err = h.assertStoredRows(ctx, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

// assertOpOrder checks that ops appear in the given order. Other ops may
// appear in between.
func assertOpOrder(steps []trace.Step, a Assertion) error {
	next := 0
	for _, s := range steps {
		if next < len(a.Ops) && s.Op == a.Ops[next] {
			next++
		}
	}
	if next == len(a.Ops) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOpOrder,
		Expected: fmt.Sprintf("ops in order: %v", a.Ops),
		Actual:   fmt.Sprintf("missing %s after position %d", a.Ops[next], next),
		Steps:    steps,
	}
}

// assertOpCount checks that op appears exactly Count times.
func assertOpCount(steps []trace.Step, a Assertion) error {
	count := 0
	for _, s := range steps {
		if s.Op == a.Op {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertOpCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Steps:    steps,
		}
	}
	return nil
}

// assertFinalState checks the state recorded after the last step.
func assertFinalState(steps []trace.Step, a Assertion) error {
	if len(steps) == 0 {
		return &AssertionError{Type: AssertFinalState, Expected: "at least one step", Actual: "no steps"}
	}
	last := steps[len(steps)-1]

	fail := func(expected, actual string) error {
		return &AssertionError{Type: AssertFinalState, Expected: expected, Actual: actual, Steps: steps}
	}

	if a.CanUndo != nil && *a.CanUndo != last.CanUndo {
		return fail(fmt.Sprintf("can_undo=%t", *a.CanUndo), fmt.Sprintf("can_undo=%t", last.CanUndo))
	}
	if a.CanRedo != nil && *a.CanRedo != last.CanRedo {
		return fail(fmt.Sprintf("can_redo=%t", *a.CanRedo), fmt.Sprintf("can_redo=%t", last.CanRedo))
	}
	for _, addr := range a.Overridden {
		if !slices.Contains(last.Overridden, addr) {
			return fail(fmt.Sprintf("%s overridden", addr), fmt.Sprintf("overridden=%v", last.Overridden))
		}
	}
	for _, addr := range a.NotOverridden {
		if slices.Contains(last.Overridden, addr) {
			return fail(fmt.Sprintf("%s not overridden", addr), fmt.Sprintf("overridden=%v", last.Overridden))
		}
	}
	return nil
}

// assertStoredRows counts rows in a library table. The table name is
// checked against a fixed set before it reaches SQL.
func (h *Harness) assertStoredRows(ctx context.Context, a Assertion) error {
	if !storedTables[a.Table] {
		return fmt.Errorf("invalid table name %q", a.Table)
	}

	count := 0
	if h.store != nil {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", a.Table)
		if err := h.store.DB().QueryRowContext(ctx, query).Scan(&count); err != nil {
			return &AssertionError{
				Type:     AssertStoredRows,
				Expected: fmt.Sprintf("query table %s", a.Table),
				Actual:   fmt.Sprintf("query error: %v", err),
			}
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertStoredRows,
			Expected: fmt.Sprintf("%d rows in %s", a.Count, a.Table),
			Actual:   fmt.Sprintf("%d rows", count),
		}
	}
	return nil
}
