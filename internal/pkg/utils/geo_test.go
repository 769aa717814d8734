package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanarDistance(t *testing.T) {
	assert.Equal(t, 0.0, PlanarDistance(-6.2, 106.8, -6.2, 106.8))
	assert.InDelta(t, 111000.0, PlanarDistance(0, 0, 1, 0), 1e-6)
	assert.InDelta(t, 555.0, PlanarDistance(0, 0, 0.003, 0.004), 1e-6)
}

func TestCalculateHaversineDistance(t *testing.T) {
	assert.Equal(t, 0.0, CalculateHaversineDistance(51.5, -0.12, 51.5, -0.12))
	// One degree of latitude is ~111.2 km on the mean-radius sphere.
	assert.InDelta(t, 111195.0, CalculateHaversineDistance(0, 0, 1, 0), 5)
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 8.75, RoundTo(8.75, 2))
	assert.Equal(t, 0.33, RoundTo(1.0/3.0, 2))
	assert.Equal(t, 2.0, RoundTo(1.999, 2))
}
