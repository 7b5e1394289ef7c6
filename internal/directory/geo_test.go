package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineZeroDistance(t *testing.T) {
	assert.Zero(t, Haversine(45.0, 7.0, 45.0, 7.0))
}

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	// one degree of longitude on the equator ≈ 111.195 km
	d := Haversine(0, 0, 0, 1)
	assert.InDelta(t, 111195, d, 200)
}

func TestHaversineIsSymmetric(t *testing.T) {
	a := Haversine(48.8566, 2.3522, 51.5074, -0.1278) // Paris ↔ London
	b := Haversine(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, a, b, 1e-6)
	// roughly 344 km
	assert.InDelta(t, 344000, a, 5000)
}

func TestHaversineNotPlanar(t *testing.T) {
	// one degree of longitude shrinks with latitude; a planar computation
	// over degrees would report the same distance at 60°N as at the equator
	atEquator := Haversine(0, 0, 0, 1)
	atSixty := Haversine(60, 0, 60, 1)
	assert.Less(t, atSixty, atEquator/1.8)
}
