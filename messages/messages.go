// Package messages defines the payloads peers exchange during a match.
// Everything here is transport-agnostic: the pub/sub layer that carries
// the bytes is somebody else's problem. Payloads travel msgpack-encoded
// inside a small envelope naming their kind.
package messages

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/sim"
)

// Kind discriminates envelope payloads on the wire.
type Kind string

const (
	KindPosition Kind = "position"
	KindFire     Kind = "fire"
	KindHit      Kind = "hit"
	KindDeath    Kind = "death"
	KindSpawn    Kind = "spawn"
)

// Message is implemented by every payload that crosses the wire.
type Message interface {
	Kind() Kind
}

// Position is the periodic state sample every peer broadcasts for its
// own aircraft. Quaternion order is [x, y, z, w].
type Position struct {
	EntityID    sim.EntityID `codec:"entityId"`
	TimestampMs int64        `codec:"timestampMs"`
	Position    [3]float64   `codec:"position"`
	Quaternion  [4]float64   `codec:"quaternion"`
	Velocity    [3]float64   `codec:"velocity"`
}

func (Position) Kind() Kind { return KindPosition }

// Fire announces a weapon launch so peers can spawn a cosmetic copy of
// the projectile. TargetID is zero for unguided shots.
type Fire struct {
	EntityID       sim.EntityID `codec:"entityId"`
	WeaponKind     string       `codec:"weaponKind"`
	TimestampMs    int64        `codec:"timestampMs"`
	OriginPosition [3]float64   `codec:"originPosition"`
	Direction      [3]float64   `codec:"direction"`
	TargetID       sim.EntityID `codec:"targetId,omitempty"`
}

func (Fire) Kind() Kind { return KindFire }

// Hit is sent by the shooter whose projectile connected. The victim
// applies the damage on receipt; nobody else does.
type Hit struct {
	AttackerID sim.EntityID `codec:"attackerId"`
	VictimID   sim.EntityID `codec:"victimId"`
	Damage     float64      `codec:"damage"`
	WeaponKind string       `codec:"weaponKind"`
}

func (Hit) Kind() Kind { return KindHit }

// Death is broadcast by a player whose health reached zero.
type Death struct {
	VictimID   sim.EntityID `codec:"victimId"`
	KillerID   sim.EntityID `codec:"killerId"`
	WeaponKind string       `codec:"weaponKind"`
}

func (Death) Kind() Kind { return KindDeath }

// Spawn is broadcast when a player (re)enters the match. Heading is
// radians clockwise from north at the spawn point.
type Spawn struct {
	EntityID sim.EntityID `codec:"entityId"`
	Position [3]float64   `codec:"position"`
	Heading  float64      `codec:"heading"`
}

func (Spawn) Kind() Kind { return KindSpawn }

// PackVec3 flattens a vector for the wire.
func PackVec3(v mgl64.Vec3) [3]float64 {
	return [3]float64{v.X(), v.Y(), v.Z()}
}

// UnpackVec3 restores a wire vector.
func UnpackVec3(a [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{a[0], a[1], a[2]}
}

// PackQuat flattens a quaternion to wire order [x, y, z, w].
func PackQuat(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}

// UnpackQuat restores a quaternion from wire order [x, y, z, w].
func UnpackQuat(a [4]float64) mgl64.Quat {
	return mgl64.Quat{W: a[3], V: mgl64.Vec3{a[0], a[1], a[2]}}
}
