package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/posing"
	"github.com/roach88/livepose/internal/rig"
	"github.com/roach88/livepose/internal/store"
	"github.com/roach88/livepose/internal/trace"
	"github.com/roach88/livepose/internal/xform"
)

// RunOption configures a scenario run.
type RunOption func(*Harness)

// WithLogger routes engine and posing logs. Logs are discarded by default.
func WithLogger(l *slog.Logger) RunOption {
	return func(h *Harness) {
		h.logger = l
	}
}

// Harness executes one scenario. Each run owns its engine, rig and store.
type Harness struct {
	scenario *Scenario
	fw       *engine.Framework
	rig      *rig.Rig
	cap      *posing.Capability
	store    *store.Store
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load the rig and build a fresh engine at tick 0
//  2. Apply scenario settings to the posing capability
//  3. Execute steps, recording the state after each
//  4. Evaluate assertions
func Run(scenario *Scenario, opts ...RunOption) (*Result, error) {
	h := &Harness{
		scenario: scenario,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	defer h.close()

	def, err := rig.LoadFile(scenario.Rig)
	if err != nil {
		return nil, fmt.Errorf("failed to load rig: %w", err)
	}

	h.fw = engine.NewFramework(engine.WithLogger(h.logger))
	h.rig = rig.New(def, rig.WithLogger(h.logger))
	h.cap = posing.New(h.rig, h.fw,
		posing.WithSettings(scenario.settings()),
		posing.WithLogger(h.logger),
	)
	h.rig.Attach(h.fw, h.cap.Info)

	ctx := context.Background()
	result := NewResult(scenario.Name)

	for i, step := range scenario.Steps {
		ok, detail, err := h.execute(ctx, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
		result.Trace.Add(h.observe(step.Op, ok, detail))

		h.logger.Debug("scenario step completed",
			"step", i,
			"op", step.Op,
			"ok", ok,
			"tick", h.fw.CurrentTick(),
		)
	}

	for _, msg := range h.evaluate(ctx, result) {
		result.AddError(msg)
	}
	return result, nil
}

func (s *Scenario) settings() posing.Settings {
	out := posing.DefaultSettings()
	if s.Settings == nil {
		return out
	}
	if v := s.Settings.UndoStackSize; v != nil {
		out.UndoStackSize = *v
	}
	if v := s.Settings.ReconcileDelay; v != nil {
		out.ReconcileDelay = *v
	}
	if v := s.Settings.SnapshotDelay; v != nil {
		out.SnapshotDelay = *v
	}
	if v := s.Settings.ApplyModelTransform; v != nil {
		out.ApplyModelTransform = *v
	}
	return out
}

func (h *Harness) close() {
	if h.store != nil {
		h.store.Close()
	}
}

// execute runs one step. ok reports whether the capability accepted the
// operation; err is reserved for failures of the run itself.
func (h *Harness) execute(ctx context.Context, step Step) (ok bool, detail trace.Object, err error) {
	switch step.Op {
	case OpImport:
		return h.importDoc(step)

	case OpLoadResource:
		return h.cap.LoadResourcePose(step.Resource, step.AsBody, step.Freeze), nil, nil

	case OpOverride:
		comps := xform.Rotation
		if step.Components != "" {
			comps = xform.ParseComponents(step.Components)
		}
		r := mgl64.Vec3{step.Rotation[0], step.Rotation[1], step.Rotation[2]}
		h.cap.SetBoneOverride(pose.Addr(step.Partial, step.Bone), pose.Override{
			Transform:  xform.New(mgl64.Vec3{}, xform.FromEuler(r), mgl64.Vec3{1, 1, 1}),
			Components: comps,
		})
		return true, nil, nil

	case OpSnapshot:
		h.cap.Snapshot(step.Reset, step.Reconcile)
		return true, nil, nil

	case OpTick:
		h.fw.Advance(step.Count)
		return true, trace.Object{"ticks": trace.Int(step.Count)}, nil

	case OpDrain:
		n, err := h.fw.Settle(0)
		if err != nil {
			return false, nil, err
		}
		return true, trace.Object{"ticks": trace.Int(n)}, nil

	case OpUndo:
		ok := h.cap.CanUndo()
		h.cap.Undo()
		return ok, nil, nil

	case OpRedo:
		ok := h.cap.CanRedo()
		h.cap.Redo()
		return ok, nil, nil

	case OpMirror:
		return h.cap.MirrorPose(), nil, nil

	case OpFlip:
		return h.cap.FlipSelectedBone(), nil, nil

	case OpSelect:
		var sel posing.Selection
		switch {
		case step.Bone != "":
			sel = posing.BoneSelection{Address: pose.Addr(step.Partial, step.Bone)}
		case step.Target != "":
			sel = posing.TargetSelection{Target: posing.Target(step.Target)}
		}
		h.cap.Select(sel)
		got := h.cap.Selected()
		_, none := got.(posing.NoSelection)
		return sel == nil || !none, trace.Object{"selected": trace.String(describe(got))}, nil

	case OpReset:
		h.cap.Reset(snapshotOrDefault(step.Snapshot), step.Skeleton, step.ClearRedo)
		return true, nil, nil

	case OpSettings:
		s := h.cap.Settings()
		s.UndoStackSize = *step.UndoStackSize
		h.cap.ApplySettings(s)
		return true, trace.Object{"undo_stack_size": trace.Int(s.UndoStackSize)}, nil

	case OpSavePose:
		st, err := h.openStore()
		if err != nil {
			return false, nil, err
		}
		rec, err := st.SavePose(ctx, step.Name, h.cap.ExportPose())
		if err != nil {
			return false, nil, err
		}
		return true, trace.Object{"bones": trace.Int(rec.BoneCount)}, nil

	case OpLoadPose:
		st, err := h.openStore()
		if err != nil {
			return false, nil, err
		}
		p, err := st.LoadPose(ctx, step.Name)
		if errors.Is(err, store.ErrNotFound) {
			return false, trace.Object{"error": trace.String("not found")}, nil
		}
		if err != nil {
			return false, nil, err
		}
		opts, err := importOptions(step)
		if err != nil {
			return false, nil, err
		}
		return h.cap.ImportPose(p, opts), nil, nil

	case OpSaveHistory:
		st, err := h.openStore()
		if err != nil {
			return false, nil, err
		}
		if err := st.SaveHistory(ctx, h.cap.Entity().ID(), h.cap.History()); err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}

	return false, nil, fmt.Errorf("unknown op %q", step.Op)
}

func (h *Harness) importDoc(step Step) (bool, trace.Object, error) {
	opts, err := importOptions(step)
	if err != nil {
		return false, nil, err
	}
	detail := trace.Object{"preset": trace.String(opts.Preset.String())}

	var doc document.Document
	if step.Resource != "" {
		doc, err = document.LoadResource(step.Resource)
		if err != nil {
			return false, nil, err
		}
	} else {
		data, err := os.ReadFile(step.File)
		if err != nil {
			return false, nil, fmt.Errorf("read pose file: %w", err)
		}
		doc, err = document.Decode(data)
		if err != nil {
			detail["error"] = trace.String(err.Error())
			return false, detail, nil
		}
	}

	return h.cap.ImportPose(doc, opts), detail, nil
}

func importOptions(step Step) (posing.ImportOptions, error) {
	preset := posing.PresetDefault
	if step.Preset != "" {
		p, err := posing.ParsePreset(step.Preset)
		if err != nil {
			return posing.ImportOptions{}, err
		}
		preset = p
	}
	return posing.ImportOptions{
		Preset:           preset,
		Components:       xform.ParseComponents(step.Components),
		ModelTransform:   step.ModelTransform,
		GenerateSnapshot: snapshotOrDefault(step.Snapshot),
		Reset:            step.Reset,
		Reconcile:        step.Reconcile,
	}, nil
}

func snapshotOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// openStore opens the in-memory library on first use.
func (h *Harness) openStore() (*store.Store, error) {
	if h.store != nil {
		return h.store, nil
	}
	st, err := store.Open(":memory:", store.WithIDGenerator(&sequentialIDs{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	h.store = st
	return st, nil
}

// observe captures the session state after an operation.
func (h *Harness) observe(op string, ok bool, detail trace.Object) trace.Step {
	undo, redo := h.cap.History().Depth()
	return trace.Step{
		Op:         op,
		Tick:       h.fw.CurrentTick(),
		OK:         ok,
		CanUndo:    h.cap.CanUndo(),
		CanRedo:    h.cap.CanRedo(),
		UndoDepth:  undo,
		RedoDepth:  redo,
		Overridden: overridden(h.cap.Info()),
		Detail:     detail,
	}
}

func overridden(info *pose.Info) []string {
	addrs := info.Addresses()
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}

func describe(s posing.Selection) string {
	switch v := s.(type) {
	case posing.BoneSelection:
		return v.Address.String()
	case posing.TargetSelection:
		return string(v.Target)
	default:
		return "none"
	}
}

// sequentialIDs numbers store rows so traces and stored rows are stable.
type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return fmt.Sprintf("row-%04d", g.n.Add(1))
}
