package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_MissingArgs(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestRunCommand_NonExistentPath(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "run", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario path not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_EmptyDir(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "run", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestRunCommand_SingleScenarioPrintsTrace(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "run", filepath.Join(testScenario, "wave_undo.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ wave_undo")
	assert.Contains(t, out, "[0] import")
	assert.Contains(t, out, "[3] redo")
	assert.Contains(t, out, "digest: ")
	assert.Contains(t, out, "Summary: 1 passed, 0 failed, 1 total")
}

func TestRunCommand_Directory(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "run", testScenario)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ wave_undo")
	assert.Contains(t, out, "✓ mirror_twice")
	assert.Contains(t, out, "2 passed, 0 failed, 2 total")
}

func TestRunCommand_Filter(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "run", testScenario, "--filter", "mirror_*")
	require.NoError(t, err)
	assert.Contains(t, out, "mirror_twice")
	assert.NotContains(t, out, "wave_undo")
}

func TestRunCommand_JSONMatchesGolden(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "--format", "json", "run", filepath.Join(testScenario, "wave_undo.yaml"))
	require.NoError(t, err)

	var result RunResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, result.Scenarios, 1)

	sr := result.Scenarios[0]
	assert.True(t, sr.Pass)
	assert.Len(t, sr.Digest, 64)

	golden, err := os.ReadFile(filepath.Join(testScenario, "golden", "wave_undo.golden"))
	require.NoError(t, err)
	assert.JSONEq(t, string(golden), string(sr.Trace))
}

func TestRunCommand_GoldenMismatchAndUpdate(t *testing.T) {
	dir := t.TempDir()
	rig, err := filepath.Abs(testRig)
	require.NoError(t, err)

	scenario := "name: quick\nrig: " + rig + "\nsteps:\n  - op: import\n    resource: wave\n  - op: drain\n"
	path := filepath.Join(dir, "quick.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	goldenPath := filepath.Join(dir, "golden", "quick.golden")
	require.NoError(t, os.WriteFile(goldenPath, []byte(`{"scenario":"quick","steps":[]}`), 0644))

	env := newCLIEnv(t)

	out, err := env.run(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ quick")
	assert.Contains(t, out, "trace does not match golden file")

	_, err = env.run(t, "run", path, "--update")
	require.NoError(t, err)

	out, err = env.run(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ quick")

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"op":"drain"`)
}

func TestRunCommand_FailingAssertion(t *testing.T) {
	dir := t.TempDir()
	rig, err := filepath.Abs(testRig)
	require.NoError(t, err)

	scenario := `name: wrong
rig: ` + rig + `
steps:
  - op: import
    resource: wave
assertions:
  - type: final_state
    can_undo: true
`
	path := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenario), 0644))

	env := newCLIEnv(t)

	out, err := env.run(t, "--format", "json", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result RunResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeScenario, resp.Error.Code)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Scenarios, 1)
	assert.NotEmpty(t, result.Scenarios[0].Errors)
}

func TestRunCommand_InvalidScenarioFailsScenarioOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nrig: nope.cue\nsteps: []\n"), 0644))

	env := newCLIEnv(t)

	out, err := env.run(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "wave.golden"),
		goldenFilePath(filepath.Join("scenarios", "wave.yaml")))
}
