// Package network reconstructs smooth remote motion from sparse position
// samples (dead reckoning with blended corrections), buffers inbound
// messages between ticks and paces outbound emission.
package network

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/hangarbay/contrail/config"
	"github.com/hangarbay/contrail/sim"
)

// corrections below this alpha no longer move the render position
const alphaEpsilon = 1e-3

// Sample is one trusted network update for a remote aircraft. AtMs is the
// sender's clock; it is only ever compared against the same sender's
// previous sample, so peer clock skew cancels out.
type Sample struct {
	ID     sim.EntityID
	Pos    mgl64.Vec3
	Orient mgl64.Quat
	Vel    mgl64.Vec3
	AtMs   int64
}

// Pose is what the renderer gets for a remote entity.
type Pose struct {
	Pos    mgl64.Vec3
	Orient mgl64.Quat
}

// predictor carries the per-entity reconciliation state: the last confirmed
// sample, the displayed pose, and the decaying correction between them.
type predictor struct {
	confirmedPos    mgl64.Vec3
	confirmedVel    mgl64.Vec3
	confirmedOrient mgl64.Quat
	confirmedAtMs   int64
	sinceConfirmed  float64 // local seconds since the sample arrived

	renderPos    mgl64.Vec3
	renderOrient mgl64.Quat

	correction mgl64.Vec3
	alpha      float64
	fade       *gween.Tween // drives alpha 1 -> 0 over the correction duration
}

// Reckoner owns one predictor per remote aircraft. It is driven entirely by
// the simulation context: samples in, one Update per tick, poses out.
type Reckoner struct {
	snapThreshold    float64
	correctionWindow float64
	maxExtrapolation float64

	entities map[sim.EntityID]*predictor
}

// NewReckoner builds an empty reconciler from the network tunables.
func NewReckoner(cfg config.NetConfig) *Reckoner {
	return &Reckoner{
		snapThreshold:    cfg.SnapThreshold,
		correctionWindow: cfg.CorrectionDuration,
		maxExtrapolation: cfg.MaxExtrapolation,
		entities:         make(map[sim.EntityID]*predictor),
	}
}

// ReceiveUpdate folds a fresh sample into the entity's predictor. An unseen
// entity is an implicit join and starts tracking at the sample. Otherwise
// the sample is compared against where the previous confirmed state
// predicted the entity would be at the sample's send time: a large error
// snaps the render state (visible, but honest), a small one starts a
// correction blend so the displayed motion stays continuous. The confirmed
// state is overwritten unconditionally in both branches.
func (r *Reckoner) ReceiveUpdate(s Sample) {
	p, ok := r.entities[s.ID]
	if !ok {
		r.entities[s.ID] = &predictor{
			confirmedPos:    s.Pos,
			confirmedVel:    s.Vel,
			confirmedOrient: s.Orient,
			confirmedAtMs:   s.AtMs,
			renderPos:       s.Pos,
			renderOrient:    s.Orient,
		}
		return
	}

	sampleGap := float64(s.AtMs-p.confirmedAtMs) / 1000
	if sampleGap < 0 {
		sampleGap = 0
	}
	predicted := p.confirmedPos.Add(p.confirmedVel.Mul(sampleGap))

	if s.Pos.Sub(predicted).Len() > r.snapThreshold {
		p.renderPos = s.Pos
		p.correction = mgl64.Vec3{}
		p.alpha = 0
		p.fade = nil
	} else {
		p.correction = p.renderPos.Sub(s.Pos)
		p.alpha = 1
		p.fade = gween.New(1, 0, float32(r.correctionWindow), ease.Linear)
	}

	p.confirmedPos = s.Pos
	p.confirmedVel = s.Vel
	p.confirmedOrient = s.Orient
	p.confirmedAtMs = s.AtMs
	p.renderOrient = s.Orient
	p.sinceConfirmed = 0
}

// Update advances every predictor by one tick: extrapolate the confirmed
// state forward (capped, so a silent peer eventually freezes instead of
// flying off), lay the fading correction on top, and mirror the confirmed
// orientation. Orientation is never smoothed; angular velocity is not on
// the wire.
func (r *Reckoner) Update(dt float64) {
	for _, p := range r.entities {
		p.sinceConfirmed += dt
		elapsed := math.Min(p.sinceConfirmed, r.maxExtrapolation)
		pos := p.confirmedPos.Add(p.confirmedVel.Mul(elapsed))

		if p.fade != nil {
			a, done := p.fade.Update(float32(dt))
			p.alpha = float64(a)
			if done {
				p.fade = nil
				p.alpha = 0
			}
		}
		if p.alpha > alphaEpsilon {
			pos = pos.Add(p.correction.Mul(p.alpha))
		}

		p.renderPos = pos
		p.renderOrient = p.confirmedOrient
	}
}

// RenderState returns the displayed pose for a tracked entity.
func (r *Reckoner) RenderState(id sim.EntityID) (Pose, bool) {
	p, ok := r.entities[id]
	if !ok {
		return Pose{}, false
	}
	return Pose{Pos: p.renderPos, Orient: p.renderOrient}, true
}

// ConfirmedVelocity returns the last trusted velocity for a tracked entity.
// Fire reconstruction re-adds it to a shooter's gun rounds, since the wire
// strips them down to pure muzzle direction.
func (r *Reckoner) ConfirmedVelocity(id sim.EntityID) (mgl64.Vec3, bool) {
	p, ok := r.entities[id]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return p.confirmedVel, true
}

// Poses snapshots the render pose of every tracked entity.
func (r *Reckoner) Poses() map[sim.EntityID]Pose {
	out := make(map[sim.EntityID]Pose, len(r.entities))
	for id, p := range r.entities {
		out[id] = Pose{Pos: p.renderPos, Orient: p.renderOrient}
	}
	return out
}

// Forget drops a departed peer's predictor.
func (r *Reckoner) Forget(id sim.EntityID) {
	delete(r.entities, id)
}

// Reset drops every predictor.
func (r *Reckoner) Reset() {
	r.entities = make(map[sim.EntityID]*predictor)
}

// Len returns the number of tracked entities.
func (r *Reckoner) Len() int {
	return len(r.entities)
}
