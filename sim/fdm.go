package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/gamemath"
)

const (
	// rotations below this angle skip quaternion construction, which would
	// otherwise divide by a near-zero axis magnitude
	rotationEpsilon = 1e-10
	// below this speed there is no meaningful drag direction
	dragEpsilon = 1e-6
)

// Step advances one aircraft by dt seconds of control input. It is a total
// function: any finite state and dt produce a finite new state with a unit
// orientation, throttle in [0,1] and speed at most cfg.MaxSpeed.
func Step(s AircraftState, in ControlInput, dt float64, cfg config.FlightConfig) AircraftState {
	// --- Throttle ---
	if in.ThrottleUp {
		s.Throttle += cfg.ThrottleRate * dt
	}
	if in.ThrottleDown {
		s.Throttle -= cfg.ThrottleRate * dt
	}
	s.Throttle = mgl64.Clamp(s.Throttle, 0, 1)

	// --- Tangent-frame velocity ---
	frame := gamemath.NewTangentFrame(s.Pos)
	vel := frame.ToTangent(s.Vel)
	speed := vel.Len()

	// --- Angular velocity ---
	s.AngVel = s.AngVel.Mul(math.Exp(-cfg.AngularDamping * dt))
	eff := 1.0
	if span := cfg.CruiseSpeed - cfg.StallSpeed; span > 0 {
		eff = mgl64.Clamp((speed-cfg.StallSpeed)/span, 0, 1)
	}
	s.AngVel[0] += in.Pitch * cfg.PitchAccel * eff * dt
	s.AngVel[1] += in.Roll * cfg.RollAccel * eff * dt
	s.AngVel[2] += in.Yaw * cfg.YawAccel * eff * dt
	s.AngVel[0] = mgl64.Clamp(s.AngVel[0], -cfg.MaxPitchRate, cfg.MaxPitchRate)
	s.AngVel[1] = mgl64.Clamp(s.AngVel[1], -cfg.MaxRollRate, cfg.MaxRollRate)
	s.AngVel[2] = mgl64.Clamp(s.AngVel[2], -cfg.MaxYawRate, cfg.MaxYawRate)

	// --- Orientation ---
	// Exponential map of the body rotation vector, composed on the right so
	// the rotation happens in the aircraft's own frame.
	rot := s.AngVel.Mul(dt)
	if angle := rot.Len(); angle > rotationEpsilon {
		s.Orient = s.Orient.Mul(mgl64.QuatRotate(angle, rot.Mul(1/angle)))
	}
	s.Orient = s.Orient.Normalize()

	// --- Forces ---
	fwd := s.Orient.Rotate(bodyForward)
	up := s.Orient.Rotate(bodyUp)
	thrust := (cfg.IdleThrust + (cfg.MaxThrust-cfg.IdleThrust)*s.Throttle) / cfg.Mass
	dynPressure := 0.5 * cfg.AirDensity * speed * speed
	lift := dynPressure * cfg.WingArea * cfg.LiftCoef / cfg.Mass
	accel := fwd.Mul(thrust).Add(up.Mul(lift))
	if speed > dragEpsilon {
		drag := dynPressure * cfg.WingArea * cfg.DragCoef / cfg.Mass
		accel = accel.Sub(vel.Mul(drag / speed))
	}
	// tangent z is up, so gravity points along -z wherever the aircraft is
	accel[2] -= cfg.Gravity

	// --- Velocity ---
	vel = vel.Add(accel.Mul(dt))
	if v := vel.Len(); v > cfg.MaxSpeed {
		vel = vel.Mul(cfg.MaxSpeed / v)
	}
	s.Vel = frame.ToPlanet(vel)

	// --- Position ---
	s.Pos = s.Pos.Add(s.Vel.Mul(dt))

	return s
}
