package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
)

const (
	// fraction of the radius where the soft boundary starts steering
	softZoneFrac = 0.90
	// fraction of the radius a hard breach teleports back to
	snapBackFrac = 0.95
	// meters past the altitude limits a reposition lands at
	altitudeMargin = 50.0
)

// Arena is the bounded play volume: a sphere of Radius around Center,
// cut by an altitude band measured against the planet surface.
type Arena struct {
	Center       mgl64.Vec3 // planet-fixed
	Radius       float64
	Floor        float64 // min altitude above the surface
	Ceiling      float64 // max altitude above the surface
	PlanetRadius float64 // surface distance from the planet center
	SteerRate    float64 // soft-boundary velocity blend per tick
}

// NewArena resolves the configured geographic anchor into planet-fixed
// geometry. The surface radius under the anchor is captured so altitude
// keeps meaning at any latitude.
func NewArena(cfg config.ArenaConfig) Arena {
	return Arena{
		Center:       gamemath.GeoToPlanet(cfg.CenterLon, cfg.CenterLat, cfg.CenterAlt),
		Radius:       cfg.Radius,
		Floor:        cfg.Floor,
		Ceiling:      cfg.Ceiling,
		PlanetRadius: gamemath.SurfaceRadius(cfg.CenterLon, cfg.CenterLat),
		SteerRate:    cfg.SteerRate,
	}
}

// Apply enforces the play volume on a freshly integrated state. All
// corrections are deterministic repositions or velocity adjustments,
// never errors.
func (a Arena) Apply(s AircraftState) AircraftState {
	offset := s.Pos.Sub(a.Center)
	dist := offset.Len()

	// --- Soft boundary ---
	// Blend the velocity direction toward the center-ward bearing while
	// preserving speed. A nudge per tick, not a hard redirect.
	if dist > a.Radius*softZoneFrac {
		inward := offset.Mul(-1 / dist)
		if speed := s.Vel.Len(); speed > dragEpsilon {
			dir := s.Vel.Mul(1 / speed)
			blended := dir.Mul(1 - a.SteerRate).Add(inward.Mul(a.SteerRate))
			if l := blended.Len(); l > dragEpsilon {
				s.Vel = blended.Mul(speed / l)
			}
		}
	}

	// --- Hard boundary ---
	// An intentionally visible teleport back inside.
	if dist > a.Radius {
		s.Pos = a.Center.Add(offset.Mul(a.Radius * snapBackFrac / dist))
	}

	// --- Altitude band ---
	r := s.Pos.Len()
	if r < dragEpsilon {
		return s
	}
	alt := r - a.PlanetRadius
	if alt < a.Floor {
		s.Pos = s.Pos.Mul((a.PlanetRadius + a.Floor + altitudeMargin) / r)
		up := s.Pos.Normalize()
		if sink := s.Vel.Dot(up); sink < 0 {
			s.Vel = s.Vel.Sub(up.Mul(sink))
		}
	} else if alt > a.Ceiling {
		s.Pos = s.Pos.Mul((a.PlanetRadius + a.Ceiling - altitudeMargin) / r)
	}

	return s
}

// Contains reports whether a position is inside both the radius and the
// altitude band.
func (a Arena) Contains(pos mgl64.Vec3) bool {
	if pos.Sub(a.Center).Len() > a.Radius {
		return false
	}
	alt := pos.Len() - a.PlanetRadius
	return alt >= a.Floor && alt <= a.Ceiling
}
