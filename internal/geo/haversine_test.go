package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePoint(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{12.9716, 77.5946},
		{-33.8688, 151.2093},
		{89.9, -179.9},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1]))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1 := Distance(12.9716, 77.5946, 13.0827, 80.2707)
	d2 := Distance(13.0827, 80.2707, 12.9716, 77.5946)

	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistance_MeridianKilometer(t *testing.T) {
	// 1000 m along a meridian is roughly 0.0089932 degrees of latitude.
	d := Distance(12.0, 77.0, 12.0089932, 77.0)

	assert.InDelta(t, 1000.0, d, 10.0) // within 1%
}

func TestDistance_KnownCityPair(t *testing.T) {
	// Bangalore to Chennai, roughly 290 km.
	d := Distance(12.9716, 77.5946, 13.0827, 80.2707)

	assert.Greater(t, d, 280000.0)
	assert.Less(t, d, 300000.0)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(0, 0))
	assert.True(t, ValidCoordinate(-90, 180))
	assert.True(t, ValidCoordinate(90, -180))

	assert.False(t, ValidCoordinate(90.1, 0))
	assert.False(t, ValidCoordinate(0, -180.1))
	assert.False(t, ValidCoordinate(math.NaN(), 0))
	assert.False(t, ValidCoordinate(0, math.Inf(1)))
}
