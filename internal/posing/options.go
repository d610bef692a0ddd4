package posing

import (
	"fmt"
	"strings"

	"github.com/roach88/livepose/internal/xform"
)

// Preset selects the bone filter and default components of an import.
type Preset int

const (
	// PresetDefault imports rotations for every bone.
	PresetDefault Preset = iota
	// PresetBody imports rotations for non-face bones.
	PresetBody
	// PresetExpression imports every component of face bones only. The
	// body pose is restored from a buffer on the following snapshot.
	PresetExpression
	// PresetScene imports every component of every bone and may apply the
	// model transform. Explicit components are ignored.
	PresetScene
	// PresetIPC imports every component of every bone.
	PresetIPC
)

func (p Preset) String() string {
	switch p {
	case PresetDefault:
		return "default"
	case PresetBody:
		return "body"
	case PresetExpression:
		return "expression"
	case PresetScene:
		return "scene"
	case PresetIPC:
		return "ipc"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

// ParsePreset parses a preset name as printed by String.
func ParsePreset(s string) (Preset, error) {
	for p := PresetDefault; p <= PresetIPC; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PresetDefault, fmt.Errorf("unknown import preset %q", s)
}

// BoneFilter decides whether a bone name takes part in an import.
type BoneFilter func(name string) bool

// IsFaceBone reports whether name is a facial bone.
func IsFaceBone(name string) bool {
	return strings.HasPrefix(name, "j_f_")
}

// ImportOptions controls ImportPose.
type ImportOptions struct {
	Preset Preset
	// Components overrides the preset's components when not empty.
	// Ignored for PresetScene.
	Components xform.Components

	// ModelTransform requests the document's model transform. It is only
	// applied to the entity when Settings.ApplyModelTransform is set.
	ModelTransform bool

	GenerateSnapshot bool
	// Reset is passed to the snapshot's reconcile step. The import itself
	// never clears existing overrides.
	Reset     bool
	Reconcile bool
}

// DefaultImportOptions is a default-preset import that snapshots afterwards.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{GenerateSnapshot: true}
}

// plan is a resolved import: what to apply and to which bones.
type plan struct {
	components xform.Components
	filter     BoneFilter
	model      bool
}

func (o ImportOptions) plan() plan {
	p := plan{components: xform.Rotation, model: o.ModelTransform}

	switch o.Preset {
	case PresetBody:
		p.filter = func(name string) bool { return !IsFaceBone(name) }
	case PresetExpression:
		p.components = xform.All
		p.filter = IsFaceBone
	case PresetScene:
		p.components = xform.All
		p.model = true
		return p
	case PresetIPC:
		p.components = xform.All
	}

	if !o.Components.Empty() {
		p.components = o.Components
	}
	return p
}

func (p plan) accepts(name string) bool {
	return p.filter == nil || p.filter(name)
}
