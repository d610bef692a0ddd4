package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/document"
	"github.com/roach88/livepose/internal/mirror"
	"github.com/roach88/livepose/internal/xform"
)

func TestMirror_WritesFile(t *testing.T) {
	env := newCLIEnv(t)
	in := filepath.Join(testPoses, "wave.json")
	outPath := filepath.Join(t.TempDir(), "mirrored.json")

	out, err := env.run(t, "mirror", "--rig", testRig, "--in", in, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ mirrored")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	doc, err := document.Decode(data)
	require.NoError(t, err)
	got, err := document.Native(doc)
	require.NoError(t, err)

	src, lerr := loadNative(in)
	require.Nil(t, lerr)

	want := mirror.BoneRotation(src.Bones["j_ude_a_r"].Rotation)
	require.Contains(t, got.Bones, "j_ude_a_l")
	assert.True(t, xform.SameRotation(want, got.Bones["j_ude_a_l"].Rotation, 1e-6),
		"right arm rotation moves to the left arm, mirrored")
	require.Contains(t, got.Bones, "iv_shiri_l")
	assert.True(t, xform.SameRotation(mgl64.QuatIdent(), got.Bones["iv_shiri_l"].Rotation, 1e-6),
		"denied bones keep their rest rotation")
}

func TestMirror_Stdout(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "mirror", "--rig", testRig, "--in", filepath.Join(testPoses, "wave.json"))
	require.NoError(t, err)

	doc, err := document.Decode([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, document.KindNative, doc.Kind())
}

func TestMirror_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
		wantExit int
	}{
		{
			name:     "missing rig",
			args:     []string{"--rig", "testdata/nope.cue", "--in", filepath.Join(testPoses, "wave.json")},
			wantCode: ErrCodeRig,
			wantExit: ExitCommandError,
		},
		{
			name:     "scene input",
			args:     []string{"--rig", testRig, "--in", filepath.Join(testPoses, "scene.json")},
			wantCode: ErrCodeUnsupported,
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)

			out, err := env.run(t, append([]string{"--format", "json", "mirror"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestMirror_RequiredFlags(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "mirror", "--in", filepath.Join(testPoses, "wave.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"rig" not set`)
}
