package gamemath

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// SpreadDirection perturbs a unit direction by a uniform random offset of at
// most spread radians on each of two perpendicular axes, then renormalizes.
// Used for gun dispersion. A non-positive spread returns dir unchanged.
func SpreadDirection(dir mgl64.Vec3, spread float64, rng *rand.Rand) mgl64.Vec3 {
	if spread <= 0 {
		return dir
	}
	ref := mgl64.Vec3{0, 0, 1}
	if math.Abs(dir.Dot(ref)) > 0.99 {
		ref = mgl64.Vec3{1, 0, 0}
	}
	u := dir.Cross(ref).Normalize()
	w := dir.Cross(u).Normalize()
	a := (rng.Float64()*2 - 1) * spread
	b := (rng.Float64()*2 - 1) * spread
	return dir.Add(u.Mul(a)).Add(w.Mul(b)).Normalize()
}
