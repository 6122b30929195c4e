package gamemath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/wroge/wgs84"
)

// GeoToPlanet converts geographic coordinates (EPSG 4326, degrees, meters
// above the ellipsoid) to the planet-fixed geocentric frame (EPSG 4978).
// Configuration anchors are written in lon/lat; the core runs planet-fixed.
func GeoToPlanet(lonDeg, latDeg, alt float64) mgl64.Vec3 {
	f := wgs84.EPSG().Transform(4326, 4978)
	x, y, z := f(lonDeg, latDeg, alt)
	return mgl64.Vec3{x, y, z}
}

// SurfaceRadius returns the planet-center distance of the ellipsoid surface
// point under the given geographic coordinates. Altitude above the surface
// is measured against this radius so the arena floor stays consistent with
// its configured anchor at any latitude.
func SurfaceRadius(lonDeg, latDeg float64) float64 {
	return GeoToPlanet(lonDeg, latDeg, 0).Len()
}
