package main

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/game"
	"github.com/hangarbay/contrail/gamemath"
	"github.com/hangarbay/contrail/sim"
)

// Shared generator for pilot decisions.
// Fixed seed so repeated runs produce comparable engagements.
var rng = rand.New(rand.NewSource(42))

const (
	// arena radius fraction beyond which the pilot turns for home,
	// inside the soft boundary so the arena never has to intervene
	navFrac = 0.72
	// distance from the altitude limits where the pilot levels off
	altBuffer = 250.0
	steerGain = 2.0
	// bearings closer to the nose than this are considered on target
	steerDeadband = 0.05
	// about 20 degrees off boresight, loose enough for spray
	gunConeCos = 0.94
)

// autopilot flies one aircraft from what a client can see: its own state,
// the lock indicator and the last rendered frame. Priorities mirror a
// student pilot's: stay in the altitude band, stay inside the arena, chase
// whatever is nearest, otherwise cruise.
type autopilot struct {
	cfg config.Config

	decisionLeft int     // ticks until the wander bias re-rolls
	wanderRoll   float64 // bank bias while nothing is happening
	burstLeft    int     // gun burst ticks remaining
}

func newAutopilot(cfg config.Config) *autopilot {
	return &autopilot{cfg: cfg}
}

// input produces one tick of control input for g.
func (a *autopilot) input(g *game.Game, last game.Frame) sim.ControlInput {
	if !g.Alive() {
		return sim.ControlInput{}
	}

	if a.decisionLeft > 0 {
		a.decisionLeft--
	}
	if a.burstLeft > 0 {
		a.burstLeft--
	}

	st := g.State()
	arena := g.Arena()
	up := st.Pos.Normalize()
	alt := st.Pos.Len() - arena.PlanetRadius

	var in sim.ControlInput
	target, hasTarget := nearestAircraft(g.ID(), st.Pos, last)

	switch {
	case alt < arena.Floor+altBuffer || alt > arena.Ceiling-altBuffer:
		want := levelForward(st, up)
		if alt < arena.Floor+altBuffer {
			want = want.Add(up.Mul(0.6))
		} else {
			want = want.Sub(up.Mul(0.6))
		}
		in.Pitch, in.Roll, in.Yaw = steerToward(st, want.Normalize())

	case st.Pos.Sub(arena.Center).Len() > arena.Radius*navFrac:
		in.Pitch, in.Roll, in.Yaw = steerToward(st, arena.Center.Sub(st.Pos).Normalize())

	case hasTarget:
		to := target.Pos.Sub(st.Pos)
		in.Pitch, in.Roll, in.Yaw = steerToward(st, to.Normalize())
		_, locked := g.LockTarget()
		in.FireMissile = locked
		a.maybeBurst(st, to)

	default:
		if a.decisionLeft == 0 {
			a.wanderRoll = (rng.Float64() - 0.5) * 0.8
			a.decisionLeft = 120 + rng.Intn(180)
		}
		in.Roll = a.wanderRoll
		// bleed off climb or sink to hold the cruise band
		in.Pitch = mgl64.Clamp(-st.Vel.Dot(up)*0.02, -0.3, 0.3)
	}

	in.FireGun = a.burstLeft > 0

	speed := st.Speed()
	switch {
	case hasTarget:
		in.ThrottleUp = true
	case speed < a.cfg.Flight.CruiseSpeed-5:
		in.ThrottleUp = true
	case speed > a.cfg.Flight.CruiseSpeed+15:
		in.ThrottleDown = true
	}

	return in
}

// maybeBurst starts a short gun burst when the target sits near the
// boresight inside gun range. Length and trigger are randomized so two
// pilots never strobe in sync.
func (a *autopilot) maybeBurst(st sim.AircraftState, to mgl64.Vec3) {
	if a.burstLeft > 0 {
		return
	}
	dist := to.Len()
	if dist > a.cfg.Gun.Range*0.8 || dist < 1 {
		return
	}
	if to.Mul(1/dist).Dot(st.Forward()) < gunConeCos {
		return
	}
	if rng.Float64() < 0.3 {
		a.burstLeft = 12 + rng.Intn(18)
	}
}

// steerToward converts a planet-frame bearing into bank-and-pull
// deflections: roll the lift vector onto the bearing, pull the nose up to
// it, and let yaw trim the residual.
func steerToward(st sim.AircraftState, want mgl64.Vec3) (pitch, roll, yaw float64) {
	frame := gamemath.NewTangentFrame(st.Pos)
	local := st.Orient.Conjugate().Rotate(frame.ToTangent(want))

	if offNose := math.Acos(mgl64.Clamp(local.Y(), -1, 1)); offNose < steerDeadband {
		return 0, 0, 0
	}

	roll = mgl64.Clamp(math.Atan2(local.X(), local.Z())*steerGain, -1, 1)
	pitch = mgl64.Clamp(math.Atan2(local.Z(), local.Y())*steerGain, -1, 1)
	yaw = mgl64.Clamp(-math.Atan2(local.X(), local.Y())*0.3, -1, 1)
	return pitch, roll, yaw
}

// levelForward projects the nose onto the horizontal plane. With the nose
// vertical the canopy is level instead, so its heading serves as the
// bearing and the recovery pull follows the lift vector.
func levelForward(st sim.AircraftState, up mgl64.Vec3) mgl64.Vec3 {
	fwd := st.Forward()
	lvl := fwd.Sub(up.Mul(fwd.Dot(up)))
	if lvl.Len() < 1e-6 {
		canopy := st.Up()
		lvl = canopy.Sub(up.Mul(canopy.Dot(up)))
	}
	return lvl.Normalize()
}

func nearestAircraft(self sim.EntityID, pos mgl64.Vec3, last game.Frame) (game.EntityPose, bool) {
	var best game.EntityPose
	bestDist := math.MaxFloat64
	found := false
	for _, craft := range last.Aircraft {
		if craft.ID == self {
			continue
		}
		if d := craft.Pos.Sub(pos).Len(); d < bestDist {
			best, bestDist, found = craft, d, true
		}
	}
	return best, found
}
