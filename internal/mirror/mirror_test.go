package mirror

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/rig"
	"github.com/roach88/livepose/internal/xform"
)

const tolerance = 1e-9

const testRig = `
name: "mirror"
bones: [
	{name: "n_hara"},
	{name: "j_sebo_a"},
	{name: "j_ude_a_l"},
	{name: "j_ude_a_r"},
	{name: "j_te_l"},
	{name: "j_te_r", visible: false},
	{name: "j_asi_a_l"},
	{name: "j_asi_a_r"},
	{name: "j_f_mayu_l", partial: 1},
	{name: "iv_shiri_l", partial: 2},
	{name: "iv_kougan_r", partial: 2},
]
mainHand: [{name: "n_buki"}]
offHand: [{name: "n_buki_sub"}]
`

func newSkeleton(t *testing.T) *rig.Rig {
	t.Helper()
	def, err := rig.Parse([]byte(testRig), "mirror.cue")
	require.NoError(t, err)
	return rig.New(def)
}

func euler(x, y, z float64) mgl64.Quat {
	return xform.FromEuler(mgl64.Vec3{x, y, z})
}

func tr(pos mgl64.Vec3, rot mgl64.Quat) xform.Transform {
	return xform.New(pos, rot, mgl64.Vec3{1, 1, 1})
}

func assertTransform(t *testing.T, want, got xform.Transform, msg string) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, tolerance), "%s: want %+v, got %+v", msg, want, got)
}

func TestBoneTransform(t *testing.T) {
	in := tr(mgl64.Vec3{1, 2, 3}, euler(10, 20, 30))
	out := BoneTransform(in)

	assert.InDelta(t, -1.0, out.Position[0], tolerance)
	assert.InDelta(t, 2.0, out.Position[1], tolerance)
	assert.InDelta(t, 3.0, out.Position[2], tolerance)
	assert.True(t, xform.SameRotation(euler(170, -20, 30), out.Rotation, tolerance))
	assert.Equal(t, in.Scale, out.Scale)
}

func TestModelTransform(t *testing.T) {
	in := tr(mgl64.Vec3{4, 0, -1}, euler(10, 35, 5))
	out := ModelTransform(in)

	assert.InDelta(t, -4.0, out.Position[0], tolerance)
	assert.True(t, xform.SameRotation(euler(10, -35, 5), out.Rotation, tolerance))
}

func TestPose_SwapsPairsAndMirrorsCenter(t *testing.T) {
	skel := newSkeleton(t)

	spine := tr(mgl64.Vec3{0.1, 0, 0}, euler(5, 10, 15))
	left := tr(mgl64.Vec3{0.3, 0, 0}, euler(20, 30, 40))
	right := tr(mgl64.Vec3{-0.2, 0, 0}, euler(-15, 25, -35))

	p := document.NewPose()
	p.Bones["j_sebo_a"] = spine
	p.Bones["j_ude_a_l"] = left
	p.Bones["j_ude_a_r"] = right

	got := Pose(p, skel)

	require.Len(t, got.Bones, 3)
	assertTransform(t, BoneTransform(right), got.Bones["j_ude_a_l"], "left takes mirrored right")
	assertTransform(t, BoneTransform(left), got.Bones["j_ude_a_r"], "right takes mirrored left")
	assertTransform(t, BoneTransform(spine), got.Bones["j_sebo_a"], "center mirrors in place")
}

func TestPose_TwiceIsIdentity(t *testing.T) {
	skel := newSkeleton(t)

	p := document.NewPose()
	p.Bones["n_hara"] = tr(mgl64.Vec3{0, 1, 0}, euler(0, 12, 0))
	p.Bones["j_sebo_a"] = tr(mgl64.Vec3{0.1, 0.2, 0.3}, euler(5, 10, 15))
	p.Bones["j_ude_a_l"] = tr(mgl64.Vec3{0.3, 0, 0}, euler(20, 30, 40))
	p.Bones["j_ude_a_r"] = tr(mgl64.Vec3{-0.2, 0, 0}, euler(-15, 25, -35))
	p.Bones["j_asi_a_l"] = tr(mgl64.Vec3{}, euler(100, -40, 60))
	p.Bones["j_asi_a_r"] = tr(mgl64.Vec3{}, euler(-120, 10, -170))
	p.MainHand["n_buki"] = tr(mgl64.Vec3{0, 0, 1}, euler(0, 0, 90))
	p.ModelAbsoluteValues = tr(mgl64.Vec3{3, 0, 2}, euler(0, 45, 0))

	twice := Pose(Pose(p, skel), skel)

	require.Len(t, twice.Bones, len(p.Bones))
	for name, want := range p.Bones {
		assertTransform(t, want, twice.Bones[name], name)
	}
	assertTransform(t, p.MainHand["n_buki"], twice.MainHand["n_buki"], "main hand")
	assert.Empty(t, twice.OffHand)
	assertTransform(t, p.ModelAbsoluteValues, twice.ModelAbsoluteValues, "model")
}

func TestPose_SkipsAndCopies(t *testing.T) {
	skel := newSkeleton(t)

	face := tr(mgl64.Vec3{0.5, 0, 0}, euler(10, 10, 10))
	p := document.NewPose()
	p.Bones["j_f_mayu_l"] = face
	p.Bones["iv_shiri_l"] = tr(mgl64.Vec3{}, euler(1, 2, 3))
	p.Bones["iv_kougan_r"] = tr(mgl64.Vec3{}, euler(1, 2, 3))
	p.Bones["not_on_rig"] = tr(mgl64.Vec3{}, euler(1, 2, 3))

	got := Pose(p, skel)

	assert.Equal(t, face, got.Bones["j_f_mayu_l"], "partial root is copied unmirrored")
	assert.NotContains(t, got.Bones, "iv_shiri_l")
	assert.NotContains(t, got.Bones, "iv_kougan_r")
	assert.NotContains(t, got.Bones, "not_on_rig")
}

func TestPose_CounterpartRules(t *testing.T) {
	skel := newSkeleton(t)

	hand := tr(mgl64.Vec3{0.1, 0, 0}, euler(10, 20, 30))
	leg := tr(mgl64.Vec3{0.2, 0, 0}, euler(-10, 5, 0))

	p := document.NewPose()
	// j_te_r exists but is hidden, so j_te_l mirrors in place.
	p.Bones["j_te_l"] = hand
	p.Bones["j_te_r"] = tr(mgl64.Vec3{}, euler(50, 50, 50))
	// j_asi_a_r is visible but absent from the pose.
	p.Bones["j_asi_a_l"] = leg

	got := Pose(p, skel)

	assertTransform(t, BoneTransform(hand), got.Bones["j_te_l"], "hidden counterpart")
	assert.NotContains(t, got.Bones, "j_te_r", "hidden bones do not resolve")
	assertTransform(t, BoneTransform(leg), got.Bones["j_asi_a_l"], "absent counterpart")
	assert.NotContains(t, got.Bones, "j_asi_a_r")
}

func TestPose_SwapsWeapons(t *testing.T) {
	skel := newSkeleton(t)

	main := tr(mgl64.Vec3{1, 0, 0}, euler(0, 0, 0))
	off := tr(mgl64.Vec3{-1, 0, 0}, euler(0, 30, 0))

	p := document.NewPose()
	p.Bones["j_sebo_a"] = xform.Identity()
	p.MainHand["n_buki"] = main
	p.OffHand["n_buki_sub"] = off

	got := Pose(p, skel)

	assertTransform(t, BoneTransform(main), got.OffHand["n_buki"], "main to off")
	assertTransform(t, BoneTransform(off), got.MainHand["n_buki_sub"], "off to main")
}
