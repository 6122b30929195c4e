package weapons

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/sim"
)

// FindLockOnTarget picks the live target closest to the firer's boresight.
// Candidates outside the lock range or the lock cone are ignored. Score is
// 1 - angle/maxAngle, so dead ahead beats the cone edge; ties keep the
// first candidate found.
func (r *Registry) FindLockOnTarget(st sim.AircraftState, self sim.EntityID, targets map[sim.EntityID]Target) (sim.EntityID, bool) {
	fwd := st.Forward()
	best := sim.EntityID(0)
	bestScore := -1.0
	for id, t := range targets {
		if id == self || !t.Alive {
			continue
		}
		to := t.Pos.Sub(st.Pos)
		dist := to.Len()
		if dist > r.missile.LockRange || dist < losEpsilon {
			continue
		}
		angle := math.Acos(mgl64.Clamp(fwd.Dot(to.Mul(1/dist)), -1, 1))
		if angle > r.missile.LockMaxAngle {
			continue
		}
		if score := 1 - angle/r.missile.LockMaxAngle; score > bestScore {
			best = id
			bestScore = score
		}
	}
	return best, best != 0
}
