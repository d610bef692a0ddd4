package trace

// Step is the observable state after one session operation.
type Step struct {
	Op   string
	Tick int64
	OK   bool

	CanUndo   bool
	CanRedo   bool
	UndoDepth int
	RedoDepth int

	// Overridden lists the overridden bone addresses in stable order.
	Overridden []string

	// Detail carries operation-specific values such as a selected bone.
	Detail Object
}

// Value converts the step to a trace object.
func (s Step) Value() Object {
	obj := Object{
		"op":         String(s.Op),
		"tick":       Int(s.Tick),
		"ok":         Bool(s.OK),
		"can_undo":   Bool(s.CanUndo),
		"can_redo":   Bool(s.CanRedo),
		"undo_depth": Int(s.UndoDepth),
		"redo_depth": Int(s.RedoDepth),
		"overridden": Strings(s.Overridden),
	}
	if len(s.Detail) > 0 {
		obj["detail"] = s.Detail
	}
	return obj
}

// Trace is the ordered record of one scenario run.
type Trace struct {
	Scenario string
	Steps    []Step
}

// New creates an empty trace for the named scenario.
func New(scenario string) *Trace {
	return &Trace{Scenario: scenario, Steps: []Step{}}
}

// Add appends a step.
func (t *Trace) Add(s Step) {
	t.Steps = append(t.Steps, s)
}

// Value converts the trace to a trace object.
func (t *Trace) Value() Object {
	steps := make(Array, len(t.Steps))
	for i, s := range t.Steps {
		steps[i] = s.Value()
	}
	return Object{
		"scenario": String(t.Scenario),
		"steps":    steps,
	}
}

// Canonical returns the canonical JSON form of the trace.
func (t *Trace) Canonical() ([]byte, error) {
	return Marshal(t.Value())
}
