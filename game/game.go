// Package game owns one player's entire view of a match: the locally
// simulated aircraft, dead-reckoned remote aircraft, every live
// projectile, and the messages flowing both ways. Advance runs one tick
// in a fixed order and returns the render snapshot.
//
// A Game is single-goroutine by contract: every mutation happens inside
// Advance or the methods the embedding code calls between ticks. The one
// exception is Enqueue, which only touches the bounded inbound queue and
// may be called from transport callbacks at any time.
package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
	"github.com/hangarbay/contrail/messages"
	"github.com/hangarbay/contrail/network"
	"github.com/hangarbay/contrail/recorder"
	"github.com/hangarbay/contrail/sim"
	"github.com/hangarbay/contrail/weapons"
)

// Game is the simulation context for one local player.
type Game struct {
	cfg config.Config
	log zerolog.Logger

	id        sim.EntityID
	state     sim.AircraftState
	health    float64
	alive     bool
	respawnIn float64

	simTime  float64
	wallMs   int64
	lastTick time.Time

	arena   sim.Arena
	weapons *weapons.Registry
	remote  *network.Reckoner
	inbound *network.Queue[messages.Message]
	pacer   *network.SendPacer

	// what each peer last told us about being alive; gates targeting
	peerAlive map[sim.EntityID]bool

	outbound []messages.Message
	rec      *recorder.Recorder
}

// New builds a Game spawned at the configured anchor, ready to Advance.
// The entity id seeds gun dispersion, keeping every client's sequence
// reproducible but distinct.
func New(id sim.EntityID, cfg config.Config, log zerolog.Logger) *Game {
	g := &Game{
		cfg:       cfg,
		log:       log.With().Uint64("entity", uint64(id)).Logger(),
		id:        id,
		health:    cfg.Player.Health,
		alive:     true,
		arena:     sim.NewArena(cfg.Arena),
		weapons:   weapons.NewRegistry(cfg.Missile, cfg.Gun, cfg.Player.Radius, int64(id)),
		remote:    network.NewReckoner(cfg.Net),
		inbound:   network.NewQueue[messages.Message](cfg.Net.InboundQueueSize),
		pacer:     network.NewSendPacer(cfg.Net.SendRate),
		peerAlive: make(map[sim.EntityID]bool),
	}
	g.state = spawnState(cfg)
	g.announceSpawn()
	return g
}

// spawnState places a fresh aircraft at the spawn anchor, nose on the
// configured heading, at cruise speed with the throttle trimmed to hold it.
func spawnState(cfg config.Config) sim.AircraftState {
	p := cfg.Player
	st := sim.AircraftState{
		Pos:      gamemath.GeoToPlanet(p.SpawnLon, p.SpawnLat, p.SpawnAlt),
		Orient:   mgl64.QuatRotate(-mgl64.DegToRad(p.SpawnHeading), mgl64.Vec3{0, 0, 1}),
		Throttle: trimThrottle(cfg.Flight),
	}
	st.Vel = st.Forward().Mul(cfg.Flight.CruiseSpeed)
	return st
}

// trimThrottle solves thrust = drag at cruise speed.
func trimThrottle(fl config.FlightConfig) float64 {
	q := 0.5 * fl.AirDensity * fl.CruiseSpeed * fl.CruiseSpeed
	drag := q * fl.WingArea * fl.DragCoef
	span := fl.MaxThrust - fl.IdleThrust
	if span <= 0 {
		return 1
	}
	return mgl64.Clamp((drag-fl.IdleThrust)/span, 0, 1)
}

// SetRecorder attaches optional after-action persistence. Pass nil to
// detach. Attaching while airborne records the current placement so the
// recording starts with a spawn row.
func (g *Game) SetRecorder(rec *recorder.Recorder) {
	g.rec = rec
	if g.rec == nil || !g.alive {
		return
	}
	fwd := gamemath.NewTangentFrame(g.state.Pos).ToTangent(g.state.Forward())
	g.rec.RecordSpawn(g.wallMs, uint64(g.id), math.Atan2(fwd.X(), fwd.Y()), g.state.Pos.X(), g.state.Pos.Y(), g.state.Pos.Z())
}

// Enqueue hands an inbound message to the game. Safe to call from
// transport goroutines; the message takes effect on the next Advance.
func (g *Game) Enqueue(m messages.Message) {
	g.inbound.Push(m)
}

// Outbound returns and clears the messages produced since the last call.
// The embedding transport publishes them to the match channel.
func (g *Game) Outbound() []messages.Message {
	out := g.outbound
	g.outbound = nil
	return out
}

// RemovePeer tears down everything owned by a departed peer: its
// predictor, its projectiles and its cooldown history.
func (g *Game) RemovePeer(id sim.EntityID) {
	g.remote.Forget(id)
	g.weapons.DropOwner(id)
	delete(g.peerAlive, id)
	g.log.Info().Uint64("peer", uint64(id)).Msg("peer removed")
}

// Reset drops all remote tracks, projectiles and queued messages. Local
// disconnect semantics: immediate, no graceful drain.
func (g *Game) Reset() {
	g.remote.Reset()
	g.weapons.Reset()
	g.inbound.Drain()
	g.outbound = nil
	g.peerAlive = make(map[sim.EntityID]bool)
	g.log.Info().Msg("registries reset")
}

// ID returns the local entity id.
func (g *Game) ID() sim.EntityID { return g.id }

// Alive reports whether the local aircraft is flying.
func (g *Game) Alive() bool { return g.alive }

// Health returns the local aircraft's remaining health.
func (g *Game) Health() float64 { return g.health }

// State returns a copy of the local aircraft state.
func (g *Game) State() sim.AircraftState { return g.state }

// Arena returns the play volume geometry.
func (g *Game) Arena() sim.Arena { return g.arena }

// SimTime returns the accumulated simulation time in seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Peers returns the number of remote aircraft currently tracked.
func (g *Game) Peers() int { return g.remote.Len() }

// LockTarget returns the current lock-on candidate, if any. Exposed for
// HUD and autopilot use; firing re-evaluates the lock itself.
func (g *Game) LockTarget() (sim.EntityID, bool) {
	if !g.alive {
		return 0, false
	}
	return g.weapons.FindLockOnTarget(g.state, g.id, g.targets())
}

// targets snapshots every collidable aircraft: the local one plus each
// remote at its current render pose.
func (g *Game) targets() map[sim.EntityID]weapons.Target {
	t := make(map[sim.EntityID]weapons.Target, g.remote.Len()+1)
	t[g.id] = weapons.Target{Pos: g.state.Pos, Alive: g.alive}
	for id, pose := range g.remote.Poses() {
		t[id] = weapons.Target{Pos: pose.Pos, Alive: g.peerAlive[id]}
	}
	return t
}

func (g *Game) announceSpawn() {
	heading := mgl64.DegToRad(g.cfg.Player.SpawnHeading)
	g.outbound = append(g.outbound, messages.Spawn{
		EntityID: g.id,
		Position: messages.PackVec3(g.state.Pos),
		Heading:  heading,
	})
	if g.rec != nil {
		g.rec.RecordSpawn(g.wallMs, uint64(g.id), heading, g.state.Pos.X(), g.state.Pos.Y(), g.state.Pos.Z())
	}
}

// projectileOrient derives a render orientation from a planet-fixed
// velocity, nose along the flight direction, in the same body-to-tangent
// convention aircraft poses use.
func projectileOrient(pos, vel mgl64.Vec3) mgl64.Quat {
	if l := vel.Len(); l > 1e-9 {
		dir := gamemath.NewTangentFrame(pos).ToTangent(vel.Mul(1 / l))
		return mgl64.QuatBetweenVectors(mgl64.Vec3{0, 1, 0}, dir)
	}
	return mgl64.QuatIdent()
}
