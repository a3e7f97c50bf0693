package bathy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAscending(t *testing.T) {
	assert.True(t, ascending([]float64{1, 2, 3}))
	assert.False(t, ascending([]float64{1, 3, 2}))
	assert.False(t, ascending([]float64{1, 1, 2}))
}

func TestStitchAntimeridianLeavesAscendingAxisUnchanged(t *testing.T) {
	lon, perm := stitchAntimeridian([]float64{-170, -160, -150})
	assert.Equal(t, []float64{-170, -160, -150}, lon)
	assert.Equal(t, []int{0, 1, 2}, perm)
}

func TestStitchAntimeridianUnwrapsDatelineCrossing(t *testing.T) {
	// Raw axis 170, 175, 180, -175, -170 crosses the dateline between
	// index 2 and 3; unwrapped it should read 170, 175, 180, 185, 190.
	raw := []float64{170, 175, 180, -175, -170}
	lon, perm := stitchAntimeridian(raw)
	assert.Equal(t, []float64{170, 175, 180, 185, 190}, lon)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, perm)
}

func TestStitchAntimeridianShiftsTrailingSegmentBy360(t *testing.T) {
	// Raw axis 10, 20, -170, -160 wraps at index 2; the trailing segment
	// restarted at -180, so it continues the run as 190, 200.
	raw := []float64{10, 20, -170, -160}
	lon, perm := stitchAntimeridian(raw)
	assert.Equal(t, []float64{10, 20, 190, 200}, lon)
	assert.Equal(t, []int{0, 1, 2, 3}, perm)
	assert.True(t, ascending(lon))
}

func TestOptionsResolvedFillsDefaults(t *testing.T) {
	o := Options{}.resolved()
	assert.Equal(t, "lon", o.LonVar)
	assert.Equal(t, "lat", o.LatVar)
	assert.Equal(t, "elevation", o.ElevationVar)
}
