package weapons

import (
	"math"

	"github.com/hangarbay/contrail/sim"
)

const losEpsilon = 1e-9

// UpdateMissiles ages, guides and integrates every missile. A missile whose
// target is gone stops homing and flies straight; a dead target is held
// (no guidance) rather than chased. Expired missiles are removed.
func (r *Registry) UpdateMissiles(targets map[sim.EntityID]Target, dt float64) {
	for id, m := range r.missiles {
		m.Age += dt
		if m.Age > r.missile.Lifetime {
			delete(r.missiles, id)
			continue
		}
		if g := m.Guidance; g != nil {
			if t, ok := targets[g.Target]; ok && t.Alive {
				r.steer(m, t, dt)
			}
		}
		m.Pos = m.Pos.Add(m.Vel.Mul(dt))
	}
}

// steer blends the missile's velocity direction toward the line of sight by
// turnRate*dt (clamped to 1) and restores the missile speed. Pursuit homing:
// it chases the target's current position, no lead.
func (r *Registry) steer(m *Projectile, t Target, dt float64) {
	los := t.Pos.Sub(m.Pos)
	losLen := los.Len()
	if losLen < losEpsilon {
		return
	}
	los = los.Mul(1 / losLen)

	speed := m.Vel.Len()
	if speed < losEpsilon {
		m.Vel = los.Mul(r.missile.Speed)
		return
	}
	dir := m.Vel.Mul(1 / speed)

	blend := math.Min(r.missile.TurnRate*dt, 1)
	mixed := dir.Mul(1 - blend).Add(los.Mul(blend))
	if l := mixed.Len(); l > losEpsilon {
		m.Vel = mixed.Mul(r.missile.Speed / l)
	}
}

// UpdateBullets ages and integrates every bullet. Bullets expire once they
// have flown their configured range worth of lifetime.
func (r *Registry) UpdateBullets(dt float64) {
	for id, b := range r.bullets {
		b.Age += dt
		if b.Age > r.bulletLife {
			delete(r.bullets, id)
			continue
		}
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
	}
}

// CheckMissileCollisions detonates missiles within fuse range of a live,
// non-owner target. The first qualifying target wins and the missile is
// removed; a missile never hits twice.
func (r *Registry) CheckMissileCollisions(targets map[sim.EntityID]Target) []Hit {
	return r.collide(r.missiles, targets, r.aircraftRadius+r.missile.FuseRadius, r.missile.Damage)
}

// CheckBulletCollisions resolves bullet proximity hits the same way.
func (r *Registry) CheckBulletCollisions(targets map[sim.EntityID]Target) []Hit {
	return r.collide(r.bullets, targets, r.aircraftRadius+r.gun.BulletRadius, r.gun.Damage)
}

func (r *Registry) collide(pool map[sim.EntityID]*Projectile, targets map[sim.EntityID]Target, radius, damage float64) []Hit {
	var hits []Hit
	for id, p := range pool {
		for tid, t := range targets {
			if tid == p.Owner || !t.Alive {
				continue
			}
			if t.Pos.Sub(p.Pos).Len() < radius {
				hits = append(hits, Hit{
					Projectile: p.ID,
					Kind:       p.Kind,
					Owner:      p.Owner,
					Target:     tid,
					Damage:     damage,
					Pos:        p.Pos,
				})
				delete(pool, id)
				break
			}
		}
	}
	return hits
}
