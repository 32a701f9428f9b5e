package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source Source
		want   string
	}{
		{SourceCache, "cache"},
		{SourceDiscarded, "discarded"},
		{SourceAPI, "api"},
		{SourceNoCoord, "no-coord"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, string(tt.source))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NA", UnresolvedOutcome().String())
	assert.Equal(t, "-0.1807,-78.4678", ResolvedAt(-0.1807, -78.4678).String())
	assert.Equal(t, "2,-79.5", ResolvedAt(2, -79.5).String())
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	o, err := ParseOutcome("NA")
	require.NoError(t, err)
	assert.False(t, o.Resolved)

	o, err = ParseOutcome(" -2.1894, -79.8891 ")
	require.NoError(t, err)
	assert.True(t, o.Resolved)
	assert.InDelta(t, -2.1894, o.Latitude, 1e-9)
	assert.InDelta(t, -79.8891, o.Longitude, 1e-9)
}

func TestParseOutcome_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "abc", "1.0", "x,2", "1,y"} {
		_, err := ParseOutcome(in)
		assert.Error(t, err, "input %q", in)
	}
}
