// Package weapons manages the projectile registry: firing with per-owner
// cooldowns, missile pursuit homing, bullet ballistics, proximity hit
// detection and lock-on target selection.
package weapons

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/sim"
)

// Kind tags the projectile variant. Guns and missiles share the same
// projectile shape; only missiles carry guidance.
type Kind uint8

const (
	KindMissile Kind = iota
	KindGun
)

// String returns the wire name of the weapon kind.
func (k Kind) String() string {
	if k == KindGun {
		return "gun"
	}
	return "missile"
}

// ParseKind maps a wire weapon name back to its Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "missile":
		return KindMissile, true
	case "gun":
		return KindGun, true
	}
	return 0, false
}

// Guidance is the missile-only homing state.
type Guidance struct {
	Target sim.EntityID
}

// Projectile is one live missile or bullet.
type Projectile struct {
	ID    sim.EntityID
	Owner sim.EntityID
	Kind  Kind
	Pos   mgl64.Vec3 // planet-fixed
	Vel   mgl64.Vec3 // planet-fixed
	Age   float64    // seconds since spawn

	// nil for bullets and unguided missiles
	Guidance *Guidance
}

// Target is a collidable aircraft as seen by the projectile pass. Dead
// targets stay in the set so homing can distinguish "gone" from "dead".
type Target struct {
	Pos   mgl64.Vec3
	Alive bool
}

// Hit reports one projectile-target proximity detonation.
type Hit struct {
	Projectile sim.EntityID
	Kind       Kind
	Owner      sim.EntityID
	Target     sim.EntityID
	Damage     float64
	Pos        mgl64.Vec3
}
