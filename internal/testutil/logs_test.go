package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCapture_CountsByLevel(t *testing.T) {
	c := NewLogCapture()
	log := c.Logger()

	log.Debug("trace")
	log.Warn("first", "bone", "j_kubi")
	log.Warn("second")
	log.Info("hello")

	assert.Equal(t, 2, c.Count(slog.LevelWarn))
	assert.Equal(t, 1, c.Count(slog.LevelDebug))
	assert.Equal(t, []string{"first", "second"}, c.Messages(slog.LevelWarn))

	records := c.Records()
	require.Len(t, records, 4)
	assert.Equal(t, "j_kubi", records[1].Attrs["bone"])
}

func TestLogCapture_WithAttrsSharesRecords(t *testing.T) {
	c := NewLogCapture()
	child := c.Logger().With("entity", "a")

	child.Warn("rejected")

	records := c.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].Attrs["entity"])

	c.Reset()
	assert.Empty(t, c.Records())
}
