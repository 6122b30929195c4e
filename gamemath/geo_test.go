package gamemath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoToPlanetEquator(t *testing.T) {
	p := GeoToPlanet(0, 0, 0)
	assert.InDelta(t, 6378137, p.X(), 1)
	assert.InDelta(t, 0, p.Y(), 1)
	assert.InDelta(t, 0, p.Z(), 1)
}

func TestGeoToPlanetPole(t *testing.T) {
	p := GeoToPlanet(0, 90, 0)
	assert.InDelta(t, 0, p.X(), 1)
	assert.InDelta(t, 6356752, p.Z(), 2)
}

func TestGeoToPlanetAltitudeIsRadial(t *testing.T) {
	lon, lat := 11.3, 47.25
	ground := GeoToPlanet(lon, lat, 0)
	aloft := GeoToPlanet(lon, lat, 3000)
	assert.InDelta(t, 3000, aloft.Len()-ground.Len(), 2)
}

func TestSurfaceRadiusBetweenAxes(t *testing.T) {
	r := SurfaceRadius(-122.3, 37.6)
	assert.Greater(t, r, 6356752.0)
	assert.Less(t, r, 6378138.0)
}
