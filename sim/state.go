// Package sim implements the six-degree-of-freedom flight model and the
// arena constraints. All positions and velocities are planet-fixed; forces
// are computed in the local tangent frame at the aircraft's position so
// thrust, lift, drag and gravity keep their meaning anywhere on the globe.
package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/gamemath"
)

// EntityID identifies an aircraft or projectile across the wire. Zero is
// never a valid id and doubles as "no target".
type EntityID uint64

// Body frame axes: x right wing, y nose, z canopy.
var (
	bodyRight   = mgl64.Vec3{1, 0, 0}
	bodyForward = mgl64.Vec3{0, 1, 0}
	bodyUp      = mgl64.Vec3{0, 0, 1}
)

// AircraftState is the full kinematic state of one aircraft. The local
// player's copy is advanced by Step; remote copies are overwritten by the
// dead-reckoning layer.
type AircraftState struct {
	Pos      mgl64.Vec3 // planet-fixed, meters
	Vel      mgl64.Vec3 // planet-fixed, m/s
	Orient   mgl64.Quat // body to local tangent, unit norm
	AngVel   mgl64.Vec3 // body frame, rad/s
	Throttle float64    // [0,1]
}

// Speed returns the magnitude of the planet-fixed velocity.
func (s AircraftState) Speed() float64 {
	return s.Vel.Len()
}

// Forward returns the nose direction in the planet-fixed frame.
func (s AircraftState) Forward() mgl64.Vec3 {
	f := gamemath.NewTangentFrame(s.Pos)
	return f.ToPlanet(s.Orient.Rotate(bodyForward))
}

// Up returns the canopy direction in the planet-fixed frame.
func (s AircraftState) Up() mgl64.Vec3 {
	f := gamemath.NewTangentFrame(s.Pos)
	return f.ToPlanet(s.Orient.Rotate(bodyUp))
}

// ControlInput is one tick of pilot input. Axis values are normalized
// deflections in [-1,1].
type ControlInput struct {
	Pitch float64
	Roll  float64
	Yaw   float64

	ThrottleUp   bool
	ThrottleDown bool
	FireMissile  bool
	FireGun      bool
}
