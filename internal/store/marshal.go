package store

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

// transformRow is the stored form of a Transform. Rotation is x, y, z, w.
type transformRow struct {
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
}

type boneRow struct {
	Skeleton  int          `json:"skeleton"`
	Partial   int          `json:"partial"`
	Name      string       `json:"name"`
	Transform transformRow `json:"transform"`
	Applied   string       `json:"applied"`
	IK        bool         `json:"ik,omitempty"`
	Mirror    int          `json:"mirror,omitempty"`
}

type infoRow struct {
	Bones               []boneRow               `json:"bones"`
	MainHand            map[string]transformRow `json:"main_hand,omitempty"`
	OffHand             map[string]transformRow `json:"off_hand,omitempty"`
	ModelDifference     transformRow            `json:"model_difference"`
	ModelAbsoluteValues transformRow            `json:"model_absolute_values"`
}

func toTransformRow(t xform.Transform) transformRow {
	return transformRow{
		Position: t.Position,
		Rotation: [4]float64{t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2], t.Rotation.W},
		Scale:    t.Scale,
	}
}

func (r transformRow) transform() xform.Transform {
	return xform.Transform{
		Position: mgl64.Vec3(r.Position),
		Rotation: mgl64.Quat{W: r.Rotation[3], V: mgl64.Vec3{r.Rotation[0], r.Rotation[1], r.Rotation[2]}},
		Scale:    mgl64.Vec3(r.Scale),
	}
}

func toTransformRows(m map[string]xform.Transform) map[string]transformRow {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]transformRow, len(m))
	for k, v := range m {
		out[k] = toTransformRow(v)
	}
	return out
}

func fromTransformRows(m map[string]transformRow) map[string]xform.Transform {
	out := make(map[string]xform.Transform, len(m))
	for k, v := range m {
		out[k] = v.transform()
	}
	return out
}

// marshalInfo serializes a pose model. Bones are written in address order
// so equal models produce identical bytes.
func marshalInfo(info *pose.Info) ([]byte, error) {
	row := infoRow{
		Bones:               []boneRow{},
		MainHand:            toTransformRows(info.MainHand),
		OffHand:             toTransformRows(info.OffHand),
		ModelDifference:     toTransformRow(info.ModelDifference.OrIdentity()),
		ModelAbsoluteValues: toTransformRow(info.ModelAbsoluteValues.OrIdentity()),
	}
	for _, addr := range info.Addresses() {
		e := info.Bones[addr]
		row.Bones = append(row.Bones, boneRow{
			Skeleton:  addr.Skeleton,
			Partial:   addr.Partial,
			Name:      addr.Name,
			Transform: toTransformRow(e.Transform),
			Applied:   e.Applied.String(),
			IK:        e.IK,
			Mirror:    int(e.Mirror),
		})
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal pose info: %w", err)
	}
	return data, nil
}

func unmarshalInfo(data []byte) (*pose.Info, error) {
	var row infoRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("unmarshal pose info: %w", err)
	}

	info := pose.NewInfo()
	for _, b := range row.Bones {
		addr := pose.BoneAddress{Skeleton: b.Skeleton, Partial: b.Partial, Name: b.Name}
		info.Bones[addr] = pose.BoneEntry{
			Transform: b.Transform.transform(),
			Applied:   xform.ParseComponents(b.Applied),
			IK:        b.IK,
			Mirror:    pose.MirrorMode(b.Mirror),
		}
	}
	info.MainHand = fromTransformRows(row.MainHand)
	info.OffHand = fromTransformRows(row.OffHand)
	info.ModelDifference = row.ModelDifference.transform()
	info.ModelAbsoluteValues = row.ModelAbsoluteValues.transform()
	info.Prune()
	return info, nil
}

func marshalTransform(t xform.Transform) (string, error) {
	data, err := json.Marshal(toTransformRow(t.OrIdentity()))
	if err != nil {
		return "", fmt.Errorf("marshal transform: %w", err)
	}
	return string(data), nil
}

func unmarshalTransform(s string) (xform.Transform, error) {
	var row transformRow
	if err := json.Unmarshal([]byte(s), &row); err != nil {
		return xform.Transform{}, fmt.Errorf("unmarshal transform: %w", err)
	}
	return row.transform(), nil
}
