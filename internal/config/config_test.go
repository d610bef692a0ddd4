package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 50, c.Posing.UndoStackSize)
	assert.Equal(t, 2, c.Posing.ReconcileDelayTicks)
	assert.Equal(t, 4, c.Posing.SnapshotDelayTicks)
	assert.False(t, c.Import.ApplyModelTransform)
	assert.Equal(t, 16*time.Millisecond, c.Engine.TickInterval)
	assert.Equal(t, "livepose.db", filepath.Base(c.Store.Path))
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
posing:
  undo_stack_size: 10
  reconcile_delay_ticks: 3
import:
  apply_model_transform: true
store:
  path: /tmp/poses.db
engine:
  tick_interval: 50ms
`)

	l := NewLoader(path)
	c, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, path, l.File())
	assert.Equal(t, 10, c.Posing.UndoStackSize)
	assert.Equal(t, 3, c.Posing.ReconcileDelayTicks)
	assert.Equal(t, 4, c.Posing.SnapshotDelayTicks, "unset keys keep defaults")
	assert.True(t, c.Import.ApplyModelTransform)
	assert.Equal(t, "/tmp/poses.db", c.Store.Path)
	assert.Equal(t, 50*time.Millisecond, c.Engine.TickInterval)

	s := c.PosingSettings()
	assert.Equal(t, 10, s.UndoStackSize)
	assert.Equal(t, 3, s.ReconcileDelay)
	assert.True(t, s.ApplyModelTransform)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "posing:\n  undo_stack_size: 10\n")
	t.Setenv("LIVEPOSE_POSING_UNDO_STACK_SIZE", "0")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Posing.UndoStackSize)
}

func TestLoad_EnvConfigPath(t *testing.T) {
	path := writeConfig(t, "posing:\n  undo_stack_size: 7\n")
	t.Setenv(EnvConfigPath, path)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, c.Posing.UndoStackSize)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit file must exist")

	_, err = Load(writeConfig(t, "posing:\n  reconcile_delay_ticks: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconcile_delay_ticks")

	_, err = Load(writeConfig(t, "posing: [\n"))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "posing:\n  undo_stack_size: 10\n")
	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	changed := make(chan Config, 4)
	l.Watch(func(c Config, err error) {
		if err == nil {
			changed <- c
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("posing:\n  undo_stack_size: 0\n"), 0o644))

	select {
	case c := <-changed:
		assert.Equal(t, 0, c.Posing.UndoStackSize)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
}
