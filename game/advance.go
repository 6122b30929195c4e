package game

import (
	"time"

	"github.com/hangarbay/contrail/messages"
	"github.com/hangarbay/contrail/network"
	"github.com/hangarbay/contrail/sim"
	"github.com/hangarbay/contrail/weapons"
)

// maxTickDelta bounds integration error across frame hitches. A tick that
// arrives later than this simulates only this much time.
const maxTickDelta = 0.1

// Advance runs one simulation tick and returns the render snapshot.
// The order is load-bearing: inbound messages land before integration,
// firing uses the already-integrated position, collisions see current
// projectile and target positions, and the dead-reckoning update runs
// every tick even while the local player is dead.
func (g *Game) Advance(in sim.ControlInput, now time.Time) Frame {
	dt := 1 / g.cfg.Net.TickRate
	if !g.lastTick.IsZero() {
		dt = now.Sub(g.lastTick).Seconds()
		if dt < 0 {
			dt = 0
		}
		if dt > maxTickDelta {
			dt = maxTickDelta
		}
	}
	g.lastTick = now
	g.wallMs = now.UnixMilli()
	g.simTime += dt

	for _, m := range g.inbound.Drain() {
		g.apply(m)
	}

	if g.alive {
		g.state = sim.Step(g.state, in, dt, g.cfg.Flight)
		g.state = g.arena.Apply(g.state)
	} else {
		g.respawnIn -= dt
		if g.respawnIn <= 0 {
			g.respawn()
		}
	}

	targets := g.targets()

	if g.alive {
		if in.FireMissile {
			target, _ := g.weapons.FindLockOnTarget(g.state, g.id, targets)
			if p, ok := g.weapons.FireMissile(g.id, g.state, target, g.simTime); ok {
				g.announceFire(p)
			}
		}
		if in.FireGun {
			if p, ok := g.weapons.FireGun(g.id, g.state, g.simTime); ok {
				g.announceFire(p)
			}
		}
	}

	g.weapons.UpdateMissiles(targets, dt)
	g.weapons.UpdateBullets(dt)

	hits := g.weapons.CheckMissileCollisions(targets)
	hits = append(hits, g.weapons.CheckBulletCollisions(targets)...)
	for _, hit := range hits {
		// every client removes the projectile; only its owner reports the
		// hit, and only the victim applies the damage
		if hit.Owner != g.id {
			continue
		}
		g.outbound = append(g.outbound, messages.Hit{
			AttackerID: hit.Owner,
			VictimID:   hit.Target,
			Damage:     hit.Damage,
			WeaponKind: hit.Kind.String(),
		})
		if g.rec != nil {
			g.rec.RecordHit(g.wallMs, uint64(hit.Owner), uint64(hit.Target), hit.Kind.String(), hit.Damage, hit.Pos.X(), hit.Pos.Y(), hit.Pos.Z())
		}
	}

	g.remote.Update(dt)

	if g.alive && g.pacer.Due(now) {
		g.outbound = append(g.outbound, messages.Position{
			EntityID:    g.id,
			TimestampMs: g.wallMs,
			Position:    messages.PackVec3(g.state.Pos),
			Quaternion:  messages.PackQuat(g.state.Orient),
			Velocity:    messages.PackVec3(g.state.Vel),
		})
		if g.rec != nil {
			g.rec.RecordState(g.wallMs, uint64(g.id), g.state.Pos.X(), g.state.Pos.Y(), g.state.Pos.Z(), g.state.Speed(), g.health, g.alive)
		}
	}

	return g.snapshot()
}

// apply folds one inbound message into the registries. Unknown peers
// auto-join; anything referencing a missing entity is a silent no-op.
func (g *Game) apply(m messages.Message) {
	switch msg := m.(type) {
	case messages.Position:
		if msg.EntityID == g.id {
			return
		}
		if _, known := g.peerAlive[msg.EntityID]; !known {
			g.log.Info().Uint64("peer", uint64(msg.EntityID)).Msg("peer joined")
		}
		g.peerAlive[msg.EntityID] = true
		g.remote.ReceiveUpdate(network.Sample{
			ID:     msg.EntityID,
			Pos:    messages.UnpackVec3(msg.Position),
			Orient: messages.UnpackQuat(msg.Quaternion),
			Vel:    messages.UnpackVec3(msg.Velocity),
			AtMs:   msg.TimestampMs,
		})

	case messages.Fire:
		if msg.EntityID == g.id {
			return
		}
		kind, ok := weapons.ParseKind(msg.WeaponKind)
		if !ok {
			g.log.Warn().Str("weapon", msg.WeaponKind).Msg("ignoring fire with unknown weapon")
			return
		}
		platformVel, _ := g.remote.ConfirmedVelocity(msg.EntityID)
		g.weapons.SpawnRemote(msg.EntityID, kind, messages.UnpackVec3(msg.OriginPosition), messages.UnpackVec3(msg.Direction), platformVel, msg.TargetID)

	case messages.Hit:
		if msg.VictimID != g.id {
			return
		}
		g.applyDamage(msg.AttackerID, msg.Damage, msg.WeaponKind)

	case messages.Death:
		if msg.VictimID == g.id {
			return
		}
		g.peerAlive[msg.VictimID] = false
		g.log.Info().
			Uint64("victim", uint64(msg.VictimID)).
			Uint64("killer", uint64(msg.KillerID)).
			Str("weapon", msg.WeaponKind).
			Msg("peer destroyed")
		if g.rec != nil {
			g.rec.RecordKill(g.wallMs, uint64(msg.VictimID), uint64(msg.KillerID), msg.WeaponKind)
		}

	case messages.Spawn:
		if msg.EntityID == g.id {
			return
		}
		// drop the stale track; the next position sample re-initializes it
		g.remote.Forget(msg.EntityID)
		g.peerAlive[msg.EntityID] = true
		g.log.Info().Uint64("peer", uint64(msg.EntityID)).Msg("peer spawned")
	}
}

// applyDamage runs the victim side of a hit. Health reaching zero emits
// the death event and starts the uncancelable respawn countdown.
func (g *Game) applyDamage(attacker sim.EntityID, damage float64, weapon string) {
	if !g.alive {
		return
	}
	g.health -= damage
	g.log.Debug().
		Uint64("attacker", uint64(attacker)).
		Str("weapon", weapon).
		Float64("damage", damage).
		Float64("health", g.health).
		Msg("hit taken")
	if g.health > 0 {
		return
	}

	g.health = 0
	g.alive = false
	g.respawnIn = g.cfg.Player.RespawnDelay
	g.outbound = append(g.outbound, messages.Death{
		VictimID:   g.id,
		KillerID:   attacker,
		WeaponKind: weapon,
	})
	g.log.Info().Uint64("killer", uint64(attacker)).Str("weapon", weapon).Msg("shot down")
	if g.rec != nil {
		g.rec.RecordKill(g.wallMs, uint64(g.id), uint64(attacker), weapon)
	}
}

func (g *Game) respawn() {
	g.state = spawnState(g.cfg)
	g.health = g.cfg.Player.Health
	g.alive = true
	g.respawnIn = 0
	g.announceSpawn()
	g.log.Info().Msg("respawned")
}

// announceFire publishes a launch. The wire carries the muzzle direction,
// so a bullet's inherited platform velocity is stripped back out.
func (g *Game) announceFire(p *weapons.Projectile) {
	dir := p.Vel
	if p.Kind == weapons.KindGun {
		dir = dir.Sub(g.state.Vel)
	}
	if l := dir.Len(); l > 1e-9 {
		dir = dir.Mul(1 / l)
	}
	var target sim.EntityID
	if p.Guidance != nil {
		target = p.Guidance.Target
	}
	g.outbound = append(g.outbound, messages.Fire{
		EntityID:       g.id,
		WeaponKind:     p.Kind.String(),
		TimestampMs:    g.wallMs,
		OriginPosition: messages.PackVec3(p.Pos),
		Direction:      messages.PackVec3(dir),
		TargetID:       target,
	})
	if g.rec != nil {
		g.rec.RecordFired(g.wallMs, uint64(g.id), p.Kind.String(), uint64(target), p.Pos.X(), p.Pos.Y(), p.Pos.Z())
	}
}
