package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceCanonical(t *testing.T) {
	tr := New("wave")
	tr.Add(Step{
		Op:         "import",
		Tick:       0,
		OK:         true,
		Overridden: []string{"0/0/j_ude_a_r"},
	})
	tr.Add(Step{
		Op:        "drain",
		Tick:      4,
		OK:        true,
		CanUndo:   true,
		UndoDepth: 2,
		Detail:    Object{"ticks": Int(4)},
	})

	data, err := tr.Canonical()
	require.NoError(t, err)

	want := `{"scenario":"wave","steps":[` +
		`{"can_redo":false,"can_undo":false,"ok":true,"op":"import","overridden":["0/0/j_ude_a_r"],"redo_depth":0,"tick":0,"undo_depth":0},` +
		`{"can_redo":false,"can_undo":true,"detail":{"ticks":4},"ok":true,"op":"drain","overridden":[],"redo_depth":0,"tick":4,"undo_depth":2}` +
		`]}`
	assert.Equal(t, want, string(data))
}

func TestDigest(t *testing.T) {
	a := New("wave")
	a.Add(Step{Op: "undo", OK: true})
	b := New("wave")
	b.Add(Step{Op: "undo", OK: true})

	da, err := Digest(a)
	require.NoError(t, err)
	db, err := Digest(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)

	b.Add(Step{Op: "redo"})
	db, err = Digest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}

func TestHashWithDomainSeparator(t *testing.T) {
	assert.NotEqual(t,
		HashWithDomain("ab", []byte("c")),
		HashWithDomain("a", []byte("bc")),
	)
}
