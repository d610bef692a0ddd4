package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testRig      = "testdata/humanoid.cue"
	testPoses    = "testdata/poses"
	testScenario = "testdata/scenarios"
)

// cliEnv is an isolated config file and library for one test.
type cliEnv struct {
	config  string
	library string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		config:  filepath.Join(dir, "config.yaml"),
		library: filepath.Join(dir, "library.db"),
	}
	data := "store:\n  path: " + env.library + "\nposing:\n  undo_stack_size: 20\nengine:\n  tick_interval: 1ms\n"
	require.NoError(t, os.WriteFile(env.config, []byte(data), 0644))
	return env
}

// run executes the root command with the env's config file and returns
// stdout.
func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a single JSON CLIResponse, decoding Data into data
// when it is non-nil.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var resp struct {
		CLIResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp.CLIResponse
}
