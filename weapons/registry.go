package weapons

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
	"github.com/hangarbay/contrail/sim"
)

const (
	// spawn offsets ahead of the firer along its nose, in meters
	missileSpawnAhead = 15.0
	gunSpawnAhead     = 10.0
)

// Registry owns every live projectile and the per-owner fire cooldowns.
// It is plain data mutated only through method calls; the simulation
// context drives it once per tick.
type Registry struct {
	missile config.MissileConfig
	gun     config.GunConfig

	// collision sphere radius of aircraft, added to each projectile's own
	aircraftRadius float64
	// bullets expire after flying their configured range
	bulletLife float64

	missiles map[sim.EntityID]*Projectile
	bullets  map[sim.EntityID]*Projectile

	lastMissile map[sim.EntityID]float64 // owner -> sim time of last launch
	lastGun     map[sim.EntityID]float64

	nextID sim.EntityID
	rng    *rand.Rand
}

// NewRegistry builds an empty projectile registry. The seed fixes the gun
// dispersion sequence so tests and replays are reproducible.
func NewRegistry(missile config.MissileConfig, gun config.GunConfig, aircraftRadius float64, seed int64) *Registry {
	life := 0.0
	if gun.Speed > 0 {
		life = gun.Range / gun.Speed
	}
	return &Registry{
		missile:        missile,
		gun:            gun,
		aircraftRadius: aircraftRadius,
		bulletLife:     life,
		missiles:       make(map[sim.EntityID]*Projectile),
		bullets:        make(map[sim.EntityID]*Projectile),
		lastMissile:    make(map[sim.EntityID]float64),
		lastGun:        make(map[sim.EntityID]float64),
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// FireMissile launches a missile from the already-integrated state for this
// tick. target may be zero for an unguided shot. Refused without effect
// while the owner's missile cooldown is running.
func (r *Registry) FireMissile(owner sim.EntityID, st sim.AircraftState, target sim.EntityID, now float64) (*Projectile, bool) {
	if last, ok := r.lastMissile[owner]; ok && now-last < r.missile.Cooldown {
		return nil, false
	}
	r.lastMissile[owner] = now

	fwd := st.Forward()
	p := r.spawn(owner, KindMissile, st.Pos.Add(fwd.Mul(missileSpawnAhead)), fwd.Mul(r.missile.Speed), target)
	return p, true
}

// FireGun fires one round with dispersion. The bullet inherits the firer's
// velocity on top of its muzzle speed. Refused during the gun cooldown.
func (r *Registry) FireGun(owner sim.EntityID, st sim.AircraftState, now float64) (*Projectile, bool) {
	if last, ok := r.lastGun[owner]; ok && now-last < r.gun.Cooldown {
		return nil, false
	}
	r.lastGun[owner] = now

	fwd := st.Forward()
	dir := gamemath.SpreadDirection(fwd, r.gun.Spread, r.rng)
	vel := dir.Mul(r.gun.Speed).Add(st.Vel)
	p := r.spawn(owner, KindGun, st.Pos.Add(fwd.Mul(gunSpawnAhead)), vel, 0)
	return p, true
}

// SpawnRemote materializes a projectile announced by a peer's fire event.
// Remote fires are trusted: no cooldown gate. The wire carries pure muzzle
// direction, so platformVel (the receiver's estimate of the shooter's
// velocity) is re-added to gun rounds; missiles fly at their constant
// speed and ignore it.
func (r *Registry) SpawnRemote(owner sim.EntityID, kind Kind, origin, dir, platformVel mgl64.Vec3, target sim.EntityID) *Projectile {
	if l := dir.Len(); l > 1e-9 {
		dir = dir.Mul(1 / l)
	} else {
		dir = mgl64.Vec3{0, 1, 0}
	}
	switch kind {
	case KindGun:
		return r.spawn(owner, KindGun, origin, dir.Mul(r.gun.Speed).Add(platformVel), 0)
	default:
		return r.spawn(owner, KindMissile, origin, dir.Mul(r.missile.Speed), target)
	}
}

func (r *Registry) spawn(owner sim.EntityID, kind Kind, pos, vel mgl64.Vec3, target sim.EntityID) *Projectile {
	r.nextID++
	p := &Projectile{
		ID:    r.nextID,
		Owner: owner,
		Kind:  kind,
		Pos:   pos,
		Vel:   vel,
	}
	if kind == KindMissile && target != 0 {
		p.Guidance = &Guidance{Target: target}
	}
	if kind == KindGun {
		r.bullets[p.ID] = p
	} else {
		r.missiles[p.ID] = p
	}
	return p
}

// DropOwner removes every projectile fired by a departed peer and forgets
// its cooldowns.
func (r *Registry) DropOwner(owner sim.EntityID) {
	for id, p := range r.missiles {
		if p.Owner == owner {
			delete(r.missiles, id)
		}
	}
	for id, p := range r.bullets {
		if p.Owner == owner {
			delete(r.bullets, id)
		}
	}
	delete(r.lastMissile, owner)
	delete(r.lastGun, owner)
}

// Reset drops every projectile and cooldown.
func (r *Registry) Reset() {
	r.missiles = make(map[sim.EntityID]*Projectile)
	r.bullets = make(map[sim.EntityID]*Projectile)
	r.lastMissile = make(map[sim.EntityID]float64)
	r.lastGun = make(map[sim.EntityID]float64)
}

// Len returns the number of live projectiles.
func (r *Registry) Len() int {
	return len(r.missiles) + len(r.bullets)
}

// Each visits every live projectile, missiles first.
func (r *Registry) Each(fn func(*Projectile)) {
	for _, p := range r.missiles {
		fn(p)
	}
	for _, p := range r.bullets {
		fn(p)
	}
}
