package game

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
	"github.com/hangarbay/contrail/messages"
	"github.com/hangarbay/contrail/sim"
)

const tick = time.Second / 60

func newTestGame(id sim.EntityID, cfg config.Config) *Game {
	return New(id, cfg, zerolog.Nop())
}

// stepper hands Advance a monotonically increasing wall clock.
type stepper struct{ now time.Time }

func newStepper() *stepper {
	return &stepper{now: time.Unix(1700000000, 0)}
}

func (s *stepper) next(d time.Duration) time.Time {
	s.now = s.now.Add(d)
	return s.now
}

func kindCount(ms []messages.Message, k messages.Kind) int {
	n := 0
	for _, m := range ms {
		if m.Kind() == k {
			n++
		}
	}
	return n
}

func firstOfKind(ms []messages.Message, k messages.Kind) (messages.Message, bool) {
	for _, m := range ms {
		if m.Kind() == k {
			return m, true
		}
	}
	return nil, false
}

func TestNeutralCruiseHoldsCourse(t *testing.T) {
	g := newTestGame(1, config.Default())
	g.Outbound() // drop the join announcement

	start := g.State()
	require.InDelta(t, config.Default().Flight.CruiseSpeed, start.Speed(), 1e-9)

	clk := newStepper()
	for i := 0; i < 60; i++ {
		g.Advance(sim.ControlInput{}, clk.next(tick))
	}

	end := g.State()
	frame := gamemath.NewTangentFrame(start.Pos)
	disp := end.Pos.Sub(start.Pos)

	assert.InDelta(t, 150, disp.Dot(frame.North), 2, "one second of cruise covers cruise speed worth of ground")
	assert.Equal(t, start.Throttle, end.Throttle, "neutral input leaves throttle alone")
	assert.InDelta(t, 150, end.Speed(), 2)
	assert.True(t, g.Arena().Contains(end.Pos), "still inside the play volume")
	assert.True(t, g.Alive())
}

func TestUnknownPeerAutoJoins(t *testing.T) {
	g := newTestGame(1, config.Default())
	clk := newStepper()

	peerPos := g.State().Pos.Add(mgl64.Vec3{0, 500, 0})
	g.Enqueue(messages.Position{
		EntityID:   7,
		Position:   messages.PackVec3(peerPos),
		Quaternion: [4]float64{0, 0, 0, 1},
	})

	frame := g.Advance(sim.ControlInput{}, clk.next(tick))

	assert.Equal(t, 1, g.Peers())
	var found bool
	for _, a := range frame.Aircraft {
		if a.ID == 7 {
			found = true
			assert.True(t, a.Pos.ApproxEqualThreshold(peerPos, 1e-6), "first sample renders as-is")
		}
	}
	assert.True(t, found, "the new peer shows up in the same tick's frame")
}

func TestLethalHitStartsRespawnCycle(t *testing.T) {
	cfg := config.Default()
	cfg.Player.RespawnDelay = 0.05
	g := newTestGame(1, cfg)
	g.Outbound()
	clk := newStepper()

	g.Enqueue(messages.Hit{AttackerID: 9, VictimID: 1, Damage: cfg.Player.Health, WeaponKind: "missile"})
	frame := g.Advance(sim.ControlInput{}, clk.next(tick))

	assert.False(t, g.Alive())
	assert.Zero(t, g.Health())
	assert.Empty(t, frame.Aircraft, "a dead aircraft is not rendered")

	out := g.Outbound()
	death, ok := firstOfKind(out, messages.KindDeath)
	require.True(t, ok, "lethal damage announces the death")
	assert.Equal(t, messages.Death{VictimID: 1, KillerID: 9, WeaponKind: "missile"}, death)

	// damage while dead is ignored
	g.Enqueue(messages.Hit{AttackerID: 9, VictimID: 1, Damage: 50, WeaponKind: "gun"})
	g.Advance(sim.ControlInput{}, clk.next(tick))
	assert.Zero(t, g.Health())

	// ride out the respawn countdown
	for i := 0; i < 4 && !g.Alive(); i++ {
		g.Advance(sim.ControlInput{}, clk.next(tick))
	}

	require.True(t, g.Alive(), "respawn fires once the countdown hits zero")
	assert.Equal(t, cfg.Player.Health, g.Health())
	assert.True(t, g.State().Pos.ApproxEqualThreshold(spawnState(cfg).Pos, 1e-6), "respawn returns to the anchor")

	spawn, ok := firstOfKind(g.Outbound(), messages.KindSpawn)
	require.True(t, ok, "respawn is announced")
	assert.Equal(t, sim.EntityID(1), spawn.(messages.Spawn).EntityID)
}

func TestDeadPlayerKeepsAnimatingRemotes(t *testing.T) {
	g := newTestGame(1, config.Default())
	clk := newStepper()

	peerPos := g.State().Pos.Add(mgl64.Vec3{0, 800, 0})
	g.Enqueue(messages.Position{
		EntityID:   7,
		Position:   messages.PackVec3(peerPos),
		Quaternion: [4]float64{0, 0, 0, 1},
		Velocity:   [3]float64{50, 0, 0},
	})
	g.Enqueue(messages.Hit{AttackerID: 7, VictimID: 1, Damage: 1000, WeaponKind: "missile"})

	g.Advance(sim.ControlInput{}, clk.next(tick))
	require.False(t, g.Alive())

	var frame Frame
	for i := 0; i < 6; i++ {
		frame = g.Advance(sim.ControlInput{}, clk.next(tick))
	}

	require.Len(t, frame.Aircraft, 1, "only the remote aircraft renders")
	peer := frame.Aircraft[0]
	assert.Equal(t, sim.EntityID(7), peer.ID)
	assert.Greater(t, peer.Pos.Sub(peerPos).Len(), 1.0, "the remote keeps dead-reckoning forward")
}

func TestTickDeltaCapped(t *testing.T) {
	g := newTestGame(1, config.Default())
	clk := newStepper()

	g.Advance(sim.ControlInput{}, clk.next(tick))
	before := g.SimTime()

	// a ten second stall simulates at most maxTickDelta
	g.Advance(sim.ControlInput{}, clk.next(10*time.Second))
	assert.InDelta(t, before+maxTickDelta, g.SimTime(), 1e-9)
}

func TestMissileEngagementEmitsSingleHit(t *testing.T) {
	g := newTestGame(1, config.Default())
	g.Outbound()
	clk := newStepper()

	peerPos := g.State().Pos.Add(g.State().Forward().Mul(1000))
	g.Enqueue(messages.Position{
		EntityID:   9,
		Position:   messages.PackVec3(peerPos),
		Quaternion: [4]float64{0, 0, 0, 1},
	})

	var collected []messages.Message
	fire := sim.ControlInput{FireMissile: true}
	for i := 0; i < 300; i++ {
		in := sim.ControlInput{}
		if i == 0 {
			in = fire
		}
		g.Advance(in, clk.next(tick))
		collected = append(collected, g.Outbound()...)
	}

	fireMsg, ok := firstOfKind(collected, messages.KindFire)
	require.True(t, ok, "the launch is announced")
	assert.Equal(t, sim.EntityID(9), fireMsg.(messages.Fire).TargetID, "lock-on found the peer dead ahead")
	assert.Equal(t, "missile", fireMsg.(messages.Fire).WeaponKind)

	require.Equal(t, 1, kindCount(collected, messages.KindHit), "one missile, one hit")
	hit, _ := firstOfKind(collected, messages.KindHit)
	assert.Equal(t, messages.Hit{
		AttackerID: 1,
		VictimID:   9,
		Damage:     config.Default().Missile.Damage,
		WeaponKind: "missile",
	}, hit)

	assert.Zero(t, kindCount(collected, messages.KindDeath), "the victim, not the shooter, declares death")
}

func TestRemoteFireIsCosmetic(t *testing.T) {
	g := newTestGame(1, config.Default())
	g.Outbound()
	clk := newStepper()

	st := g.State()
	fwd := st.Forward()
	// a peer missile bearing straight at us from 60 m out
	g.Enqueue(messages.Position{
		EntityID:   9,
		Position:   messages.PackVec3(st.Pos.Add(fwd.Mul(2000))),
		Quaternion: [4]float64{0, 0, 0, 1},
	})
	g.Enqueue(messages.Fire{
		EntityID:       9,
		WeaponKind:     "missile",
		OriginPosition: messages.PackVec3(st.Pos.Add(fwd.Mul(60))),
		Direction:      messages.PackVec3(fwd.Mul(-1)),
	})

	frame := g.Advance(sim.ControlInput{}, clk.next(tick))
	require.Len(t, frame.Projectiles, 1, "the announced missile materializes")
	assert.Equal(t, sim.EntityID(9), frame.Projectiles[0].Owner)

	var collected []messages.Message
	for i := 0; i < 30; i++ {
		frame = g.Advance(sim.ControlInput{}, clk.next(tick))
		collected = append(collected, g.Outbound()...)
	}

	assert.Empty(t, frame.Projectiles, "the missile disappears when it reaches us")
	assert.Zero(t, kindCount(collected, messages.KindHit), "another player's hits are theirs to report")
	assert.Equal(t, config.Default().Player.Health, g.Health(), "damage only arrives via hit messages")
}

func TestRemovePeerTearsDown(t *testing.T) {
	g := newTestGame(1, config.Default())
	clk := newStepper()

	g.Enqueue(messages.Position{EntityID: 9, Position: messages.PackVec3(g.State().Pos.Add(mgl64.Vec3{0, 600, 0})), Quaternion: [4]float64{0, 0, 0, 1}})
	g.Enqueue(messages.Fire{EntityID: 9, WeaponKind: "gun", OriginPosition: messages.PackVec3(g.State().Pos.Add(mgl64.Vec3{0, 600, 0})), Direction: [3]float64{0, 1, 0}})
	g.Advance(sim.ControlInput{}, clk.next(tick))
	require.Equal(t, 1, g.Peers())

	g.RemovePeer(9)
	frame := g.Advance(sim.ControlInput{}, clk.next(tick))

	assert.Zero(t, g.Peers())
	assert.Len(t, frame.Aircraft, 1, "only the local aircraft remains")
	assert.Empty(t, frame.Projectiles, "the departed peer's projectiles are gone")
}

func TestPositionEmissionPaced(t *testing.T) {
	g := newTestGame(1, config.Default())
	g.Outbound()
	clk := newStepper()

	// 25 ms steps divide the 50 ms send interval exactly
	var sent int
	for i := 0; i < 40; i++ {
		g.Advance(sim.ControlInput{}, clk.next(25*time.Millisecond))
		sent += kindCount(g.Outbound(), messages.KindPosition)
	}
	assert.Equal(t, 20, sent, "a second of ticks yields sendRate samples")
}

func TestResetClearsEverything(t *testing.T) {
	g := newTestGame(1, config.Default())
	clk := newStepper()

	g.Enqueue(messages.Position{EntityID: 9, Position: [3]float64{1, 2, 3}, Quaternion: [4]float64{0, 0, 0, 1}})
	g.Advance(sim.ControlInput{FireGun: true}, clk.next(tick))
	require.Equal(t, 1, g.Peers())

	g.Reset()

	assert.Zero(t, g.Peers())
	assert.Empty(t, g.Outbound())
	frame := g.Advance(sim.ControlInput{}, clk.next(tick))
	assert.Empty(t, frame.Projectiles)
}
