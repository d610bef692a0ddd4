package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted posing session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Rig is the path to the CUE rig definition.
	Rig string `yaml:"rig"`

	// Settings overrides the posing defaults.
	Settings *SettingsBlock `yaml:"settings,omitempty"`

	// Steps run in order on the engine goroutine.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SettingsBlock overrides posing tunables. Nil fields keep the default.
type SettingsBlock struct {
	UndoStackSize       *int  `yaml:"undo_stack_size,omitempty"`
	ReconcileDelay      *int  `yaml:"reconcile_delay,omitempty"`
	SnapshotDelay       *int  `yaml:"snapshot_delay,omitempty"`
	ApplyModelTransform *bool `yaml:"apply_model_transform,omitempty"`
}

// Step is one session operation. Which fields apply depends on Op.
type Step struct {
	Op string `yaml:"op"`

	// import, load_resource, load_pose
	Resource       string `yaml:"resource,omitempty"`
	File           string `yaml:"file,omitempty"`
	Name           string `yaml:"name,omitempty"`
	Preset         string `yaml:"preset,omitempty"`
	Components     string `yaml:"components,omitempty"`
	ModelTransform bool   `yaml:"model_transform,omitempty"`
	Snapshot       *bool  `yaml:"snapshot,omitempty"`
	Reset          bool   `yaml:"reset,omitempty"`
	Reconcile      bool   `yaml:"reconcile,omitempty"`
	AsBody         bool   `yaml:"as_body,omitempty"`
	Freeze         bool   `yaml:"freeze,omitempty"`

	// override, select
	Bone     string    `yaml:"bone,omitempty"`
	Partial  int       `yaml:"partial,omitempty"`
	Target   string    `yaml:"target,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"`

	// tick
	Count int `yaml:"count,omitempty"`

	// reset
	Skeleton  bool `yaml:"skeleton,omitempty"`
	ClearRedo bool `yaml:"clear_redo,omitempty"`

	// settings
	UndoStackSize *int `yaml:"undo_stack_size,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Op and Count are used by op_count.
	Op    string `yaml:"op,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Ops is the expected order (op_order).
	Ops []string `yaml:"ops,omitempty"`

	// CanUndo, CanRedo, Overridden and NotOverridden are used by
	// final_state. Bone addresses use the "skeleton/partial/name" form.
	CanUndo       *bool    `yaml:"can_undo,omitempty"`
	CanRedo       *bool    `yaml:"can_redo,omitempty"`
	Overridden    []string `yaml:"overridden,omitempty"`
	NotOverridden []string `yaml:"not_overridden,omitempty"`

	// Table is the library table counted by stored_rows.
	Table string `yaml:"table,omitempty"`
}

// Assertion type constants.
const (
	AssertOpOrder    = "op_order"
	AssertOpCount    = "op_count"
	AssertFinalState = "final_state"
	AssertStoredRows = "stored_rows"
)

// Operation names.
const (
	OpImport       = "import"
	OpLoadResource = "load_resource"
	OpOverride     = "override"
	OpSnapshot     = "snapshot"
	OpTick         = "tick"
	OpDrain        = "drain"
	OpUndo         = "undo"
	OpRedo         = "redo"
	OpMirror       = "mirror"
	OpFlip         = "flip"
	OpSelect       = "select"
	OpReset        = "reset"
	OpSettings     = "settings"
	OpSavePose     = "save_pose"
	OpLoadPose     = "load_pose"
	OpSaveHistory  = "save_history"
)

var knownOps = map[string]bool{
	OpImport: true, OpLoadResource: true, OpOverride: true, OpSnapshot: true,
	OpTick: true, OpDrain: true, OpUndo: true, OpRedo: true, OpMirror: true,
	OpFlip: true, OpSelect: true, OpReset: true, OpSettings: true,
	OpSavePose: true, OpLoadPose: true, OpSaveHistory: true,
}

var storedTables = map[string]bool{"poses": true, "history_entries": true}

// LoadScenario reads and parses a scenario YAML file. Relative rig and pose
// file paths are resolved against the scenario's directory. Unknown fields
// are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	scenario.Rig = resolve(base, scenario.Rig)
	for i := range scenario.Steps {
		scenario.Steps[i].File = resolve(base, scenario.Steps[i].File)
	}

	if _, err := os.Stat(scenario.Rig); err != nil {
		return nil, fmt.Errorf("invalid scenario: rig file not found: %s", scenario.Rig)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Rig == "" {
		return fmt.Errorf("rig is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	if s.Op == "" {
		return fmt.Errorf("steps[%d]: op is required", index)
	}
	if !knownOps[s.Op] {
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	switch s.Op {
	case OpImport:
		if (s.Resource == "") == (s.File == "") {
			return fmt.Errorf("steps[%d]: import needs exactly one of resource or file", index)
		}
	case OpLoadResource:
		if s.Resource == "" {
			return fmt.Errorf("steps[%d]: resource is required for load_resource", index)
		}
	case OpOverride:
		if s.Bone == "" {
			return fmt.Errorf("steps[%d]: bone is required for override", index)
		}
		if len(s.Rotation) != 3 {
			return fmt.Errorf("steps[%d]: rotation must have 3 components", index)
		}
	case OpTick:
		if s.Count < 1 {
			return fmt.Errorf("steps[%d]: count must be positive for tick", index)
		}
	case OpSelect:
		if s.Bone != "" && s.Target != "" {
			return fmt.Errorf("steps[%d]: select takes a bone or a target, not both", index)
		}
	case OpSettings:
		if s.UndoStackSize == nil {
			return fmt.Errorf("steps[%d]: undo_stack_size is required for settings", index)
		}
	case OpSavePose, OpLoadPose:
		if s.Name == "" {
			return fmt.Errorf("steps[%d]: name is required for %s", index, s.Op)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOpOrder:
		if len(a.Ops) == 0 {
			return fmt.Errorf("assertions[%d]: ops list is required for op_order", index)
		}
	case AssertOpCount:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for op_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for op_count", index)
		}
	case AssertFinalState:
		if a.CanUndo == nil && a.CanRedo == nil && len(a.Overridden) == 0 && len(a.NotOverridden) == 0 {
			return fmt.Errorf("assertions[%d]: final_state needs at least one expectation", index)
		}
	case AssertStoredRows:
		if !storedTables[a.Table] {
			return fmt.Errorf("assertions[%d]: unknown table %q for stored_rows", index, a.Table)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
