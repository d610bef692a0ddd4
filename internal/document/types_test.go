package document

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/xform"
)

func TestPose_Empty(t *testing.T) {
	p := NewPose()
	assert.True(t, p.Empty())

	p.MainHand["n_buki"] = xform.Identity()
	assert.False(t, p.Empty(), "weapon data alone makes a pose non-empty")
}

func TestPose_SanitizeBoneNames(t *testing.T) {
	p := NewPose()
	p.Bones["  j_kubi\t"] = xform.Identity()
	p.Bones["   "] = xform.Identity()
	// "e" + combining acute accent composes under NFC.
	p.Bones["j_cafe\u0301"] = xform.Identity()

	p.SanitizeBoneNames()

	assert.Len(t, p.Bones, 2)
	assert.Contains(t, p.Bones, "j_kubi")
	assert.Contains(t, p.Bones, "j_caf\u00e9")
}

func TestPose_CloneIsIndependent(t *testing.T) {
	p := NewPose()
	p.Bones["j_kubi"] = xform.Identity()

	c := p.Clone()
	c.Bones["j_kubi"] = xform.New(mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	c.Bones["j_kosi"] = xform.Identity()

	assert.Len(t, p.Bones, 1)
	assert.Equal(t, xform.Identity(), p.Bones["j_kubi"])
}

func TestNative(t *testing.T) {
	p := NewPose()
	got, err := Native(p)
	require.NoError(t, err)
	assert.Same(t, p, got)

	legacy := &LegacyPose{Rotations: map[string]string{"j_kubi": "0, 0, 0"}}
	got, err = Native(legacy)
	require.NoError(t, err)
	assert.Contains(t, got.Bones, "j_kubi")
}

func TestLoadResource(t *testing.T) {
	assert.Equal(t, []string{"t-pose", "wave"}, Resources())

	doc, err := LoadResource("t-pose")
	require.NoError(t, err)
	p := doc.(*Pose)
	assert.Len(t, p.Bones, 6)

	_, err = LoadResource("missing")
	assert.Error(t, err)
}
