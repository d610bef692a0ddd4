package document

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/livepose/internal/xform"
)

// CurrentVersion is the native format version written by Encode.
const CurrentVersion = 2

// TypeName identifies native pose files.
const TypeName = "LivePose Pose"

var (
	// ErrUnsupportedScene is returned when a scene document reaches an importer.
	ErrUnsupportedScene = errors.New("scene pose documents are not supported")

	// ErrEmptyPose is returned when a document carries no bone or weapon data.
	ErrEmptyPose = errors.New("pose document has no bones")
)

// Kind names the variant of a Document.
type Kind string

const (
	KindNative Kind = "native"
	KindLegacy Kind = "legacy"
	KindScene  Kind = "scene"
)

// Document is a decoded pose document: *Pose, *LegacyPose or *ScenePose.
type Document interface {
	Kind() Kind
	isDocument()
}

// Pose is a native pose document: bone name to transform maps plus the
// actor's model-level transforms.
type Pose struct {
	Bones    map[string]xform.Transform
	MainHand map[string]xform.Transform
	OffHand  map[string]xform.Transform

	ModelDifference     xform.Transform
	ModelAbsoluteValues xform.Transform
}

// NewPose returns an empty native pose with identity model transforms.
func NewPose() *Pose {
	return &Pose{
		Bones:               make(map[string]xform.Transform),
		MainHand:            make(map[string]xform.Transform),
		OffHand:             make(map[string]xform.Transform),
		ModelDifference:     xform.Identity(),
		ModelAbsoluteValues: xform.Identity(),
	}
}

func (*Pose) Kind() Kind  { return KindNative }
func (*Pose) isDocument() {}

// Empty reports whether the pose has no body bones and no weapon bones.
func (p *Pose) Empty() bool {
	return len(p.Bones) == 0 && len(p.MainHand) == 0 && len(p.OffHand) == 0
}

// Clone returns an independent copy.
func (p *Pose) Clone() *Pose {
	out := &Pose{
		Bones:               copyTransforms(p.Bones),
		MainHand:            copyTransforms(p.MainHand),
		OffHand:             copyTransforms(p.OffHand),
		ModelDifference:     p.ModelDifference,
		ModelAbsoluteValues: p.ModelAbsoluteValues,
	}
	return out
}

// SanitizeBoneNames trims and NFC-normalizes every bone name and drops
// entries whose name ends up empty. Later duplicates win.
func (p *Pose) SanitizeBoneNames() {
	p.Bones = sanitize(p.Bones)
	p.MainHand = sanitize(p.MainHand)
	p.OffHand = sanitize(p.OffHand)
}

// SanitizeName applies the bone-name normalization used by SanitizeBoneNames.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, name)
	return norm.NFC.String(strings.TrimSpace(name))
}

// LegacyPose is the third-party format. Rotations are Euler degrees.
type LegacyPose struct {
	Description string
	Positions   map[string]string
	Rotations   map[string]string
	Scales      map[string]string
}

func (*LegacyPose) Kind() Kind  { return KindLegacy }
func (*LegacyPose) isDocument() {}

// Upgrade converts the legacy document to a native pose. Legacy documents
// carry no weapon or model data.
func (l *LegacyPose) Upgrade() (*Pose, error) {
	out := NewPose()

	names := make(map[string]struct{})
	for _, m := range []map[string]string{l.Positions, l.Rotations, l.Scales} {
		for name := range m {
			names[name] = struct{}{}
		}
	}

	for name := range names {
		t := xform.Identity()
		if s, ok := l.Positions[name]; ok {
			v, err := parseVec3(s)
			if err != nil {
				return nil, fmt.Errorf("upgrade %s position: %w", name, err)
			}
			t.Position = v
		}
		if s, ok := l.Rotations[name]; ok {
			v, err := parseVec3(s)
			if err != nil {
				return nil, fmt.Errorf("upgrade %s rotation: %w", name, err)
			}
			t.Rotation = xform.FromEuler(v)
		}
		if s, ok := l.Scales[name]; ok {
			v, err := parseVec3(s)
			if err != nil {
				return nil, fmt.Errorf("upgrade %s scale: %w", name, err)
			}
			t.Scale = v
		}
		out.Bones[name] = t
	}

	return out, nil
}

// ScenePose is a multi-actor scene document.
type ScenePose struct {
	Actors int
}

func (*ScenePose) Kind() Kind  { return KindScene }
func (*ScenePose) isDocument() {}

// Native resolves a document to an importable pose: native poses are
// returned as is, legacy poses are upgraded, scenes are rejected.
func Native(d Document) (*Pose, error) {
	switch doc := d.(type) {
	case *Pose:
		return doc, nil
	case *LegacyPose:
		return doc.Upgrade()
	case *ScenePose:
		return nil, ErrUnsupportedScene
	default:
		return nil, fmt.Errorf("unknown pose document %T", d)
	}
}

func copyTransforms(m map[string]xform.Transform) map[string]xform.Transform {
	out := make(map[string]xform.Transform, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sanitize(m map[string]xform.Transform) map[string]xform.Transform {
	out := make(map[string]xform.Transform, len(m))
	for name, t := range m {
		clean := SanitizeName(name)
		if clean == "" {
			continue
		}
		out[clean] = t
	}
	return out
}
