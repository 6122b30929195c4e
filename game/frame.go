package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/hangarbay/contrail/sim"
	"github.com/hangarbay/contrail/weapons"
)

// EntityPose is one aircraft's render pose: planet-fixed position,
// body-to-tangent orientation. Converting into the scene's own convention
// is the renderer's job.
type EntityPose struct {
	ID     sim.EntityID
	Pos    mgl64.Vec3
	Orient mgl64.Quat
}

// ProjectilePose is one projectile's render pose. Orientation points the
// nose along the flight direction.
type ProjectilePose struct {
	ID     sim.EntityID
	Owner  sim.EntityID
	Kind   weapons.Kind
	Pos    mgl64.Vec3
	Orient mgl64.Quat
}

// Frame is the per-tick output handed to the scene renderer. The local
// aircraft is present only while alive; remote aircraft keep their last
// pose so the renderer can play out a destruction.
type Frame struct {
	Aircraft    []EntityPose
	Projectiles []ProjectilePose
}

func (g *Game) snapshot() Frame {
	var f Frame
	if g.alive {
		f.Aircraft = append(f.Aircraft, EntityPose{ID: g.id, Pos: g.state.Pos, Orient: g.state.Orient})
	}
	for id, pose := range g.remote.Poses() {
		f.Aircraft = append(f.Aircraft, EntityPose{ID: id, Pos: pose.Pos, Orient: pose.Orient})
	}
	g.weapons.Each(func(p *weapons.Projectile) {
		f.Projectiles = append(f.Projectiles, ProjectilePose{
			ID:     p.ID,
			Owner:  p.Owner,
			Kind:   p.Kind,
			Pos:    p.Pos,
			Orient: projectileOrient(p.Pos, p.Vel),
		})
	})
	return f
}
