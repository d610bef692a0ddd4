package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/livepose/internal/document"
)

func TestLibrary_SaveListLoadDelete(t *testing.T) {
	env := newCLIEnv(t)
	wave := filepath.Join(testPoses, "wave.json")

	out, err := env.run(t, "library", "save", "wave", wave)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ saved wave (2 bones)")

	_, err = env.run(t, "library", "save", "nod", filepath.Join(testPoses, "legacy.json"))
	require.NoError(t, err)

	out, err = env.run(t, "--format", "json", "library", "list")
	require.NoError(t, err)
	var entries []LibraryEntry
	decodeResponse(t, out, &entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "nod", entries[0].Name)
	assert.Equal(t, "wave", entries[1].Name)
	assert.Equal(t, 2, entries[1].Bones)

	outPath := filepath.Join(t.TempDir(), "wave-copy.json")
	_, err = env.run(t, "library", "load", "wave", "--out", outPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	loaded, err := document.Decode(data)
	require.NoError(t, err)
	original, lerr := loadNative(wave)
	require.Nil(t, lerr)
	wantHash, err := document.Hash(original)
	require.NoError(t, err)
	gotHash, err := document.Hash(loaded.(*document.Pose))
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)

	out, err = env.run(t, "library", "delete", "wave")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ deleted wave")

	out, err = env.run(t, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "nod")
	assert.NotContains(t, out, "wave")
}

func TestLibrary_DefaultsToConfiguredPath(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "library", "save", "wave", filepath.Join(testPoses, "wave.json"))
	require.NoError(t, err)

	_, err = os.Stat(env.library)
	assert.NoError(t, err, "library created at store.path")
}

func TestLibrary_DBFlagOverridesConfig(t *testing.T) {
	env := newCLIEnv(t)
	db := filepath.Join(t.TempDir(), "other.db")

	_, err := env.run(t, "library", "--db", db, "save", "wave", filepath.Join(testPoses, "wave.json"))
	require.NoError(t, err)

	out, err := env.run(t, "library", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No poses saved.")

	out, err = env.run(t, "library", "--db", db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "wave")
}

func TestLibrary_LoadStdoutJSON(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "library", "save", "wave", filepath.Join(testPoses, "wave.json"))
	require.NoError(t, err)

	out, err := env.run(t, "library", "load", "wave")
	require.NoError(t, err)
	doc, err := document.Decode([]byte(out))
	require.NoError(t, err)
	assert.Len(t, doc.(*document.Pose).Bones, 2)
}

func TestLibrary_NotFound(t *testing.T) {
	for _, sub := range []string{"load", "delete"} {
		t.Run(sub, func(t *testing.T) {
			env := newCLIEnv(t)

			out, err := env.run(t, "--format", "json", "library", sub, "missing")
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
		})
	}
}

func TestLibrary_SaveRejectsScene(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "library", "save", "scene", filepath.Join(testPoses, "scene.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}
