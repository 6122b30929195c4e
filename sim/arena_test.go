package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
)

func testArena() Arena {
	return NewArena(config.Default().Arena)
}

func TestHardBoundaryTeleport(t *testing.T) {
	a := testArena()
	east := gamemath.NewTangentFrame(a.Center).East
	s := AircraftState{
		Pos:    a.Center.Add(east.Mul(a.Radius * 1.2)),
		Orient: mgl64.QuatIdent(),
	}

	out := a.Apply(s)

	offset := out.Pos.Sub(a.Center)
	require.InDelta(t, a.Radius*snapBackFrac, offset.Len(), 1e-6)
	// relocation keeps the original bearing from the center
	assert.True(t, offset.Normalize().ApproxEqualThreshold(east, 1e-9))
}

func TestSoftBoundarySteersInward(t *testing.T) {
	a := testArena()
	f := gamemath.NewTangentFrame(a.Center)
	s := AircraftState{
		Pos:    a.Center.Add(f.East.Mul(a.Radius * 0.925)),
		Vel:    f.North.Mul(150),
		Orient: mgl64.QuatIdent(),
	}

	out := a.Apply(s)

	inward := f.East.Mul(-1)
	assert.Positive(t, out.Vel.Dot(inward), "velocity should tilt toward the center")
	assert.InDelta(t, 150, out.Vel.Len(), 1e-9, "speed magnitude is preserved")
	assert.Equal(t, s.Pos, out.Pos, "soft boundary never repositions")
}

func TestInsideSoftZoneUntouched(t *testing.T) {
	a := testArena()
	f := gamemath.NewTangentFrame(a.Center)
	s := AircraftState{
		Pos:    a.Center.Add(f.East.Mul(a.Radius * 0.5)),
		Vel:    f.East.Mul(200),
		Orient: mgl64.QuatIdent(),
	}
	out := a.Apply(s)
	assert.Equal(t, s.Vel, out.Vel)
	assert.Equal(t, s.Pos, out.Pos)
}

func TestFloorRepositionsAndStopsSink(t *testing.T) {
	a := testArena()
	up := a.Center.Normalize()
	f := gamemath.NewTangentFrame(a.Center)
	s := AircraftState{
		Pos:    up.Mul(a.PlanetRadius + a.Floor - 400),
		Vel:    f.East.Mul(80).Sub(up.Mul(30)),
		Orient: mgl64.QuatIdent(),
	}

	out := a.Apply(s)

	alt := out.Pos.Len() - a.PlanetRadius
	require.InDelta(t, a.Floor+altitudeMargin, alt, 1e-6)
	newUp := out.Pos.Normalize()
	assert.GreaterOrEqual(t, out.Vel.Dot(newUp), -1e-9, "downward component is removed")
	assert.InDelta(t, 80, out.Vel.Dot(f.East), 1e-6, "horizontal motion survives")
}

func TestCeilingRepositionsKeepsVelocity(t *testing.T) {
	a := testArena()
	up := a.Center.Normalize()
	vel := mgl64.Vec3{10, 20, 30}
	s := AircraftState{
		Pos:    up.Mul(a.PlanetRadius + a.Ceiling + 300),
		Vel:    vel,
		Orient: mgl64.QuatIdent(),
	}

	out := a.Apply(s)

	alt := out.Pos.Len() - a.PlanetRadius
	require.InDelta(t, a.Ceiling-altitudeMargin, alt, 1e-6)
	assert.Equal(t, vel, out.Vel)
}

func TestContains(t *testing.T) {
	a := testArena()
	assert.True(t, a.Contains(a.Center))
	f := gamemath.NewTangentFrame(a.Center)
	assert.False(t, a.Contains(a.Center.Add(f.East.Mul(a.Radius*1.01))))
	assert.False(t, a.Contains(a.Center.Normalize().Mul(a.PlanetRadius+a.Floor-100)))
}
