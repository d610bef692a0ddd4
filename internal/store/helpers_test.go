package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/xform"
)

// createTestStore opens a fresh database in a temp dir.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ctx(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}

func testPose() *document.Pose {
	p := document.NewPose()
	p.Bones["j_ude_a_r"] = xform.New(
		mgl64.Vec3{},
		xform.FromEuler(mgl64.Vec3{0, 0, 45}),
		mgl64.Vec3{1, 1, 1},
	)
	p.Bones["j_ude_b_r"] = xform.New(
		mgl64.Vec3{},
		xform.FromEuler(mgl64.Vec3{0, 30, 0}),
		mgl64.Vec3{1, 1, 1},
	)
	return p
}
