package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryBounds(t *testing.T) {
	_, ok := CountryBounds(" ec ")
	assert.True(t, ok)

	_, ok = CountryBounds("XX")
	assert.False(t, ok)
}

func TestWithinBounds(t *testing.T) {
	ec, _ := CountryBounds("EC")

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"quito", -0.1807, -78.4678, true},
		{"guayaquil", -2.1894, -79.8891, true},
		{"puerto ayora, galápagos", -0.7432, -90.3150, true},
		{"lima", -12.0464, -77.0428, false},
		{"bogotá", 4.7110, -74.0721, false},
		{"null island", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinBounds(ec, tt.lat, tt.lng))
		})
	}

	assert.True(t, WithinBounds(nil, 0, 0))
}
