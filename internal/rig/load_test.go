package rig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Humanoid(t *testing.T) {
	def, err := LoadFile("testdata/humanoid.cue")
	require.NoError(t, err)

	assert.Equal(t, "humanoid", def.Name)
	assert.True(t, def.Timeline, "timeline defaults to true")
	assert.False(t, def.Prop)
	require.Len(t, def.Bones, 9)
	require.Len(t, def.MainHand, 1)
	assert.Empty(t, def.OffHand)

	kosi := def.Bones[1]
	assert.Equal(t, [3]float64{0, 1, 0}, kosi.Position)
	assert.Equal(t, [3]float64{1, 1, 1}, kosi.Scale, "scale defaults to one")
	assert.True(t, kosi.Visible, "visible defaults to true")

	assert.Equal(t, 45.0, def.Bones[5].Limit)
	assert.Equal(t, 1, def.Bones[6].Partial)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"syntax", `name: "x"` + "\nbones: [", ErrCodeCompile},
		{"missing name", `bones: [{name: "a"}]`, ErrCodeSchema},
		{"unknown field", `name: "x", colour: "red", bones: [{name: "a"}]`, ErrCodeSchema},
		{"negative limit", `name: "x", bones: [{name: "a", limit: -1}]`, ErrCodeSchema},
		{"no bones", `name: "x", bones: []`, ErrCodeNoBones},
		{"duplicate", `name: "x", bones: [{name: "a"}, {name: "a"}]`, ErrCodeDupBone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test.cue")
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.code, le.Code)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/missing.cue")
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, ErrCodeRead, le.Code)
}
