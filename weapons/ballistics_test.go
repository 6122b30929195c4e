package weapons

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/contrail/sim"
)

func deviation(m *Projectile, target mgl64.Vec3) float64 {
	los := target.Sub(m.Pos).Normalize()
	dir := m.Vel.Normalize()
	return math.Acos(mgl64.Clamp(dir.Dot(los), -1, 1))
}

func TestHomingConvergesWithoutOvershoot(t *testing.T) {
	r := testRegistry()
	targetPos := mgl64.Vec3{0, 5000, 3000}
	targets := map[sim.EntityID]Target{42: {Pos: targetPos, Alive: true}}

	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 42)
	prev := deviation(m, targetPos)
	require.Greater(t, prev, 0.4, "setup sanity: start well off the line of sight")

	maxStep := r.missile.TurnRate * tick
	for i := 0; i < 120 && prev > 1e-4; i++ {
		r.UpdateMissiles(targets, tick)
		cur := deviation(m, targetPos)
		require.Less(t, cur, prev, "deviation must strictly shrink each tick")
		require.LessOrEqual(t, prev-cur, maxStep+1e-9, "turn authority is bounded per tick")
		prev = cur
	}
	assert.Less(t, prev, 0.05, "missile ends up tracking the line of sight")
}

func TestHomingBlendClampedToFullTurn(t *testing.T) {
	r := testRegistry()
	r.missile.TurnRate = 240 // turnRate*dt >> 1, clamps to a full snap
	targetPos := mgl64.Vec3{4000, 1000, 0}
	targets := map[sim.EntityID]Target{7: {Pos: targetPos, Alive: true}}

	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 7)
	r.UpdateMissiles(targets, tick)

	assert.InDelta(t, 0, deviation(m, targetPos), 1e-6, "one tick aligns exactly, never past")
	require.InDelta(t, r.missile.Speed, m.Vel.Len(), 1e-9)
}

func TestHomingStopsWhenTargetGone(t *testing.T) {
	r := testRegistry()
	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 42)
	before := m.Vel

	r.UpdateMissiles(map[sim.EntityID]Target{}, tick)
	assert.Equal(t, before, m.Vel, "no target entry: fly straight")

	r.UpdateMissiles(map[sim.EntityID]Target{42: {Pos: mgl64.Vec3{5000, 0, 0}, Alive: false}}, tick)
	assert.Equal(t, before, m.Vel, "dead target: fly straight")
}

func TestMissileLifetimeExpiry(t *testing.T) {
	r := testRegistry()
	r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	r.UpdateMissiles(nil, r.missile.Lifetime*0.9)
	require.Equal(t, 1, r.Len())
	r.UpdateMissiles(nil, r.missile.Lifetime*0.2)
	assert.Equal(t, 0, r.Len())
}

func TestBulletRangeExpiry(t *testing.T) {
	r := testRegistry()
	b := r.SpawnRemote(1, KindGun, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	life := r.gun.Range / r.gun.Speed

	r.UpdateBullets(life * 0.5)
	require.Equal(t, 1, r.Len())
	assert.InDelta(t, r.gun.Range*0.5, b.Pos.Y(), 1e-6)

	r.UpdateBullets(life * 0.6)
	assert.Equal(t, 0, r.Len())
}

func TestMissileHitsExactlyOnce(t *testing.T) {
	r := testRegistry()
	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	targets := map[sim.EntityID]Target{
		2: {Pos: m.Pos.Add(mgl64.Vec3{0, 5, 0}), Alive: true},
	}

	hits := r.CheckMissileCollisions(targets)
	require.Len(t, hits, 1)
	assert.Equal(t, sim.EntityID(2), hits[0].Target)
	assert.Equal(t, sim.EntityID(1), hits[0].Owner)
	assert.Equal(t, KindMissile, hits[0].Kind)
	assert.Equal(t, r.missile.Damage, hits[0].Damage)
	assert.Equal(t, 0, r.Len(), "detonated missile is removed")

	assert.Empty(t, r.CheckMissileCollisions(targets), "no double hit")
}

func TestMissileNeverHitsOwner(t *testing.T) {
	r := testRegistry()
	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	targets := map[sim.EntityID]Target{
		1: {Pos: m.Pos, Alive: true}, // the owner itself, dead center
	}
	assert.Empty(t, r.CheckMissileCollisions(targets))
	assert.Equal(t, 1, r.Len(), "missile flies on")
}

func TestCollisionsSkipDeadTargets(t *testing.T) {
	r := testRegistry()
	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	targets := map[sim.EntityID]Target{
		2: {Pos: m.Pos, Alive: false},
	}
	assert.Empty(t, r.CheckMissileCollisions(targets))
}

func TestMissileHitsOneOfSeveral(t *testing.T) {
	r := testRegistry()
	m := r.SpawnRemote(1, KindMissile, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)
	targets := map[sim.EntityID]Target{
		2: {Pos: m.Pos.Add(mgl64.Vec3{0, 3, 0}), Alive: true},
		3: {Pos: m.Pos.Add(mgl64.Vec3{0, -3, 0}), Alive: true},
	}
	hits := r.CheckMissileCollisions(targets)
	require.Len(t, hits, 1, "first qualifying target wins, never both")
	assert.Equal(t, 0, r.Len())
}

func TestBulletCollisionRadius(t *testing.T) {
	r := testRegistry()
	reach := r.aircraftRadius + r.gun.BulletRadius
	r.SpawnRemote(1, KindGun, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, 0)

	miss := map[sim.EntityID]Target{2: {Pos: mgl64.Vec3{0, reach + 1, 0}, Alive: true}}
	assert.Empty(t, r.CheckBulletCollisions(miss))

	graze := map[sim.EntityID]Target{2: {Pos: mgl64.Vec3{0, reach - 1, 0}, Alive: true}}
	hits := r.CheckBulletCollisions(graze)
	require.Len(t, hits, 1)
	assert.Equal(t, KindGun, hits[0].Kind)
	assert.Equal(t, r.gun.Damage, hits[0].Damage)
}
