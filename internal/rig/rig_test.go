package rig

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/pose"
	"github.com/roach88/livepose/internal/xform"
)

func loadHumanoid(t *testing.T, opts ...Option) *Rig {
	t.Helper()
	def, err := LoadFile("testdata/humanoid.cue")
	require.NoError(t, err)
	return New(def, opts...)
}

func TestRig_Roots(t *testing.T) {
	r := loadHumanoid(t)

	hara, ok := r.Bone(pose.Addr(0, "n_hara"))
	require.True(t, ok)
	assert.True(t, hara.IsSkeletonRoot())
	assert.True(t, hara.IsPartialRoot())

	kosi, ok := r.Bone(pose.Addr(0, "j_kosi"))
	require.True(t, ok)
	assert.False(t, kosi.IsPartialRoot())

	face, ok := r.Bone(pose.Addr(1, "j_f_mayu_l"))
	require.True(t, ok)
	assert.True(t, face.IsPartialRoot())
	assert.False(t, face.IsSkeletonRoot())

	weapon, ok := r.Bone(pose.BoneAddress{Skeleton: pose.SkeletonMainHand, Name: "n_buki"})
	require.True(t, ok)
	assert.True(t, weapon.IsPartialRoot())
	assert.False(t, weapon.IsSkeletonRoot())
}

func TestRig_UpdateAppliesOverridesByMask(t *testing.T) {
	info := pose.NewInfo()
	r := loadHumanoid(t)
	fw := engine.NewFramework()
	r.Attach(fw, func() *pose.Info { return info })

	rot := mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1})
	info.SetBoneOverride(pose.Addr(0, "j_kosi"), pose.Override{
		Transform:  xform.New(mgl64.Vec3{9, 9, 9}, rot, mgl64.Vec3{2, 2, 2}),
		Components: xform.Rotation,
	})

	fw.Tick()

	kosi, _ := r.Bone(pose.Addr(0, "j_kosi"))
	got := kosi.LastTransform()
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, got.Position, "position is not in the mask")
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, got.Scale)
	assert.True(t, xform.SameRotation(rot, got.Rotation, 1e-9))
}

func TestRig_WeaponMaps(t *testing.T) {
	info := pose.NewInfo()
	r := loadHumanoid(t)
	fw := engine.NewFramework()
	r.Attach(fw, func() *pose.Info { return info })

	w := xform.New(mgl64.Vec3{0, 0, 1}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	info.MainHand["n_buki"] = w
	fw.Tick()

	buki, _ := r.Bone(pose.BoneAddress{Skeleton: pose.SkeletonMainHand, Name: "n_buki"})
	assert.Equal(t, w, buki.LastTransform())
}

func TestRig_RotationLimitSettles(t *testing.T) {
	info := pose.NewInfo()
	r := loadHumanoid(t)
	fw := engine.NewFramework()
	r.Attach(fw, func() *pose.Info { return info })

	axis := mgl64.Vec3{1, 0, 0}
	info.SetBoneOverride(pose.Addr(0, "j_kubi"), pose.Override{
		Transform:  xform.New(mgl64.Vec3{}, mgl64.QuatRotate(mgl64.DegToRad(90), axis), mgl64.Vec3{1, 1, 1}),
		Components: xform.Rotation,
	})
	fw.Tick()

	kubi, _ := r.Bone(pose.Addr(0, "j_kubi"))
	want := mgl64.QuatRotate(mgl64.DegToRad(45), axis)
	assert.True(t, xform.SameRotation(want, kubi.LastTransform().Rotation, 1e-9))
	assert.True(t, xform.SameRotation(
		mgl64.QuatRotate(mgl64.DegToRad(90), axis),
		kubi.LastRawTransform().Rotation, 1e-9), "raw transform is pre-settle")
}

func TestRig_SettleHook(t *testing.T) {
	calls := 0
	r := loadHumanoid(t, WithSettle(func(b pose.Bone, t xform.Transform) xform.Transform {
		calls++
		return t
	}))
	r.Update()
	assert.Equal(t, len(r.Bones()), calls)
}

func TestRig_FirstVisibleBone(t *testing.T) {
	def, err := Parse([]byte(`
name: "x"
bones: [
	{name: "n_hara"},
	{name: "j_te_l", visible: false},
	{name: "j_te_l", partial: 1},
]`), "x.cue")
	require.NoError(t, err)
	r := New(def)

	b, ok := r.FirstVisibleBone("j_te_l")
	require.True(t, ok)
	assert.Equal(t, 1, b.Address().Partial)

	_, ok = r.FirstVisibleBone("nope")
	assert.False(t, ok)
}

func TestRig_InvalidateAndReset(t *testing.T) {
	info := pose.NewInfo()
	r := loadHumanoid(t)
	fw := engine.NewFramework()
	r.Attach(fw, func() *pose.Info { return info })

	info.SetBoneOverride(pose.Addr(0, "j_kosi"), pose.Override{
		Transform:  xform.New(mgl64.Vec3{5, 5, 5}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}),
		Components: xform.Position,
	})
	fw.Tick()
	r.ResetPose()

	kosi, _ := r.Bone(pose.Addr(0, "j_kosi"))
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, kosi.LastTransform().Position)

	r.Invalidate()
	assert.False(t, r.Valid())
	_, ok := r.Bone(pose.Addr(0, "j_kosi"))
	assert.False(t, ok)
	assert.Empty(t, r.Bones())
}

func TestRig_Timeline(t *testing.T) {
	r := loadHumanoid(t)
	tl, ok := r.Timeline()
	require.True(t, ok)
	tl.Freeze()
	assert.True(t, r.Frozen())

	def, err := Parse([]byte(`name: "prop", prop: true, timeline: false, bones: [{name: "n_root"}]`), "p.cue")
	require.NoError(t, err)
	p := New(def)
	_, ok = p.Timeline()
	assert.False(t, ok)
	assert.True(t, p.IsProp())
}

func TestClampRotation(t *testing.T) {
	axis := mgl64.Vec3{0, 1, 0}
	small := mgl64.QuatRotate(mgl64.DegToRad(10), axis)
	assert.True(t, xform.SameRotation(small, ClampRotation(small, 45), 1e-12))

	big := mgl64.QuatRotate(mgl64.DegToRad(120), axis)
	once := ClampRotation(big, 45)
	twice := ClampRotation(once, 45)
	assert.True(t, xform.SameRotation(mgl64.QuatRotate(mgl64.DegToRad(45), axis), once, 1e-9))
	assert.True(t, xform.SameRotation(once, twice, 1e-9), "clamping is idempotent")
}
