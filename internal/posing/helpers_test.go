package posing

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/engine"
	"github.com/roach88/livepose/internal/rig"
	"github.com/roach88/livepose/internal/testutil"
	"github.com/roach88/livepose/internal/xform"
)

const testRig = `
name: "tester"
bones: [
	{name: "n_hara"},
	{name: "j_kosi", position: [0, 1, 0]},
	{name: "j_sebo_a"},
	{name: "j_ude_a_l"},
	{name: "j_ude_a_r"},
	{name: "j_kubi", limit: 45},
	{name: "j_f_mayu_l", partial: 1},
	{name: "j_f_mayu_r", partial: 1},
]
mainHand: [{name: "n_buki"}]
offHand: [{name: "n_buki_sub"}]
`

const tolerance = 1e-9

type session struct {
	cap    *Capability
	rig    *rig.Rig
	driver *testutil.TickDriver
	logs   *testutil.LogCapture
}

func newSession(t *testing.T, src string, opts ...Option) *session {
	t.Helper()
	return newSessionOn(t, engine.NewFramework(), src, opts...)
}

func newSessionOn(t *testing.T, fw *engine.Framework, src string, opts ...Option) *session {
	t.Helper()

	def, err := rig.Parse([]byte(src), "test.cue")
	require.NoError(t, err)

	logs := testutil.NewLogCapture()
	r := rig.New(def, rig.WithLogger(logs.Logger()))
	c := New(r, fw, append([]Option{WithLogger(logs.Logger())}, opts...)...)
	r.Attach(fw, c.Info)

	return &session{cap: c, rig: r, driver: testutil.NewTickDriver(fw), logs: logs}
}

func euler(x, y, z float64) mgl64.Quat {
	return xform.FromEuler(mgl64.Vec3{x, y, z})
}

func rotation(q mgl64.Quat) xform.Transform {
	return xform.New(mgl64.Vec3{}, q, mgl64.Vec3{1, 1, 1})
}

type fakeGroup struct {
	n            int
	undos, redos int
}

func (g *fakeGroup) Len() int      { return g.n }
func (g *fakeGroup) CanUndo() bool { return true }
func (g *fakeGroup) CanRedo() bool { return false }
func (g *fakeGroup) Undo()         { g.undos++ }
func (g *fakeGroup) Redo()         { g.redos++ }

type fakeTagger struct {
	available bool
	tags      int
}

func (f *fakeTagger) Available() bool { return f.available }
func (f *fakeTagger) TagPose()        { f.tags++ }
