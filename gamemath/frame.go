// Package gamemath provides the coordinate-frame and vector math shared by
// the simulation core: planet-fixed/tangent-frame conversion, geographic
// anchoring, and small ballistic helpers.
package gamemath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// polarEpsilon guards the east-axis construction where the position is
// aligned with the planet's spin axis and the cross product degenerates.
const polarEpsilon = 1e-9

// TangentFrame is the local East-North-Up basis at a planet-fixed position.
// East, North and Up are unit vectors expressed in the planet-fixed frame.
type TangentFrame struct {
	East  mgl64.Vec3
	North mgl64.Vec3
	Up    mgl64.Vec3
}

// NewTangentFrame builds the tangent basis at pos. Up points radially away
// from the planet center, east follows the spin axis cross up, north
// completes the right-handed set. Any finite position is valid; at the poles
// (and at the planet center) an arbitrary but fixed horizontal pair is used.
func NewTangentFrame(pos mgl64.Vec3) TangentFrame {
	up := mgl64.Vec3{0, 0, 1}
	if l := pos.Len(); l > polarEpsilon {
		up = pos.Mul(1 / l)
	}
	east := mgl64.Vec3{0, 0, 1}.Cross(up)
	if l := east.Len(); l > polarEpsilon {
		east = east.Mul(1 / l)
	} else {
		east = mgl64.Vec3{1, 0, 0}
	}
	north := up.Cross(east)
	return TangentFrame{East: east, North: north, Up: up}
}

// ToTangent expresses a planet-fixed free vector in this frame's
// east/north/up coordinates.
func (f TangentFrame) ToTangent(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Dot(f.East), v.Dot(f.North), v.Dot(f.Up)}
}

// ToPlanet expresses a tangent-frame free vector in planet-fixed coordinates.
func (f TangentFrame) ToPlanet(v mgl64.Vec3) mgl64.Vec3 {
	return f.East.Mul(v.X()).Add(f.North.Mul(v.Y())).Add(f.Up.Mul(v.Z()))
}

// Orientation returns the tangent-to-planet rotation as a unit quaternion.
// Composing an aircraft's body-to-tangent orientation on the right of this
// yields its full body-to-planet rotation.
func (f TangentFrame) Orientation() mgl64.Quat {
	m := mgl64.Mat3FromCols(f.East, f.North, f.Up)
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}
