package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/roach88/livepose/internal/trace"
	"github.com/roach88/livepose/internal/xform"
)

// domainPose separates pose content hashes from any other hash use.
const domainPose = "livepose/pose/v1"

// DecodeError reports a document that could not be decoded.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode pose document: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode pose document: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type transformWire struct {
	Position string `json:"Position,omitempty"`
	Rotation string `json:"Rotation,omitempty"`
	Scale    string `json:"Scale,omitempty"`
}

type poseWire struct {
	Bones               map[string]transformWire `json:"Bones"`
	MainHand            map[string]transformWire `json:"MainHand,omitempty"`
	OffHand             map[string]transformWire `json:"OffHand,omitempty"`
	ModelDifference     *transformWire           `json:"ModelDifference,omitempty"`
	ModelAbsoluteValues *transformWire           `json:"ModelAbsoluteValues,omitempty"`
}

type legacyWire struct {
	Description string            `json:"Description,omitempty"`
	Positions   map[string]string `json:"Positions,omitempty"`
	Rotations   map[string]string `json:"Rotations"`
	Scales      map[string]string `json:"Scales,omitempty"`
}

// Decode sniffs the document variant and decodes it.
func Decode(data []byte) (Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Reason: "invalid JSON"}
	}

	if v := gjson.GetBytes(data, "FileVersion"); v.Exists() && v.Int() > CurrentVersion {
		return nil, &DecodeError{Reason: fmt.Sprintf("file version %d is newer than %d", v.Int(), CurrentVersion)}
	}

	if actors := gjson.GetBytes(data, "Actors"); actors.Exists() {
		return &ScenePose{Actors: len(actors.Array())}, nil
	}

	if gjson.GetBytes(data, "Rotations").IsObject() {
		var w legacyWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, &DecodeError{Reason: "legacy pose", Err: err}
		}
		return &LegacyPose{
			Description: w.Description,
			Positions:   w.Positions,
			Rotations:   w.Rotations,
			Scales:      w.Scales,
		}, nil
	}

	var w poseWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &DecodeError{Reason: "native pose", Err: err}
	}
	return w.toPose()
}

// Encode writes p in the native format, stamped with TypeName and
// CurrentVersion.
func Encode(p *Pose) ([]byte, error) {
	w := poseWire{
		Bones:    wireMap(p.Bones),
		MainHand: wireMap(p.MainHand),
		OffHand:  wireMap(p.OffHand),
	}
	md := toWire(p.ModelDifference.OrIdentity())
	ma := toWire(p.ModelAbsoluteValues.OrIdentity())
	w.ModelDifference = &md
	w.ModelAbsoluteValues = &ma

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pose: %w", err)
	}

	data, err = sjson.SetBytes(data, "TypeName", TypeName)
	if err != nil {
		return nil, fmt.Errorf("encode pose: stamp type: %w", err)
	}
	data, err = sjson.SetBytes(data, "FileVersion", CurrentVersion)
	if err != nil {
		return nil, fmt.Errorf("encode pose: stamp version: %w", err)
	}
	return data, nil
}

// Hash returns the content hash of p's encoded form.
func Hash(p *Pose) (string, error) {
	data, err := Encode(p)
	if err != nil {
		return "", err
	}
	return trace.HashWithDomain(domainPose, data), nil
}

func (w poseWire) toPose() (*Pose, error) {
	p := NewPose()
	var err error
	if p.Bones, err = fromWireMap(w.Bones); err != nil {
		return nil, &DecodeError{Reason: "bones", Err: err}
	}
	if p.MainHand, err = fromWireMap(w.MainHand); err != nil {
		return nil, &DecodeError{Reason: "main hand", Err: err}
	}
	if p.OffHand, err = fromWireMap(w.OffHand); err != nil {
		return nil, &DecodeError{Reason: "off hand", Err: err}
	}
	if w.ModelDifference != nil {
		if p.ModelDifference, err = w.ModelDifference.transform(); err != nil {
			return nil, &DecodeError{Reason: "model difference", Err: err}
		}
	}
	if w.ModelAbsoluteValues != nil {
		if p.ModelAbsoluteValues, err = w.ModelAbsoluteValues.transform(); err != nil {
			return nil, &DecodeError{Reason: "model absolute values", Err: err}
		}
	}
	return p, nil
}

func (w transformWire) transform() (xform.Transform, error) {
	t := xform.Identity()
	var err error
	if w.Position != "" {
		if t.Position, err = parseVec3(w.Position); err != nil {
			return t, fmt.Errorf("position: %w", err)
		}
	}
	if w.Rotation != "" {
		if t.Rotation, err = parseQuat(w.Rotation); err != nil {
			return t, fmt.Errorf("rotation: %w", err)
		}
	}
	if w.Scale != "" {
		if t.Scale, err = parseVec3(w.Scale); err != nil {
			return t, fmt.Errorf("scale: %w", err)
		}
	}
	return t, nil
}

func toWire(t xform.Transform) transformWire {
	q := t.Rotation
	return transformWire{
		Position: formatFloats(t.Position[:]...),
		Rotation: formatFloats(q.V[0], q.V[1], q.V[2], q.W),
		Scale:    formatFloats(t.Scale[:]...),
	}
}

func wireMap(m map[string]xform.Transform) map[string]transformWire {
	out := make(map[string]transformWire, len(m))
	for name, t := range m {
		out[name] = toWire(t)
	}
	return out
}

func fromWireMap(m map[string]transformWire) (map[string]xform.Transform, error) {
	out := make(map[string]xform.Transform, len(m))
	for name, w := range m {
		t, err := w.transform()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

func formatFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d components, got %d in %q", n, len(parts), s)
	}
	out := make([]float64, n)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseVec3(s string) (mgl64.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{f[0], f[1], f[2]}, nil
}

// parseQuat reads "x, y, z, w".
func parseQuat(s string) (mgl64.Quat, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return mgl64.Quat{}, err
	}
	return mgl64.Quat{W: f[3], V: mgl64.Vec3{f[0], f[1], f[2]}}, nil
}
