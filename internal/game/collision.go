package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Collider is an axis-aligned box used only for ray queries.
type Collider struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
}

// Min returns the lower corner of the box.
func (c Collider) Min() mgl64.Vec3 { return c.Center.Sub(c.HalfExtents) }

// Max returns the upper corner of the box.
func (c Collider) Max() mgl64.Vec3 { return c.Center.Add(c.HalfExtents) }

// Contains reports whether p lies inside or on the box.
func (c Collider) Contains(p mgl64.Vec3) bool {
	lo, hi := c.Min(), c.Max()
	for i := 0; i < 3; i++ {
		if p[i] < lo[i] || p[i] > hi[i] {
			return false
		}
	}
	return true
}

// Surface is a finite, double-sided rectangle. U and V are unit in-plane
// axes; HalfU and HalfV are the half sizes along them.
type Surface struct {
	Center mgl64.Vec3
	Normal mgl64.Vec3
	U, V   mgl64.Vec3
	HalfU  float64
	HalfV  float64
}

// parallelEpsilon treats rays this close to parallel with a slab or plane as
// never crossing it.
const parallelEpsilon = 1e-12

// rayAABBHitT returns the distance along a unit ray at which it enters the
// box. Rays starting inside the box see no front face and report no hit,
// which lets a player who ends up inside geometry walk back out.
func rayAABBHitT(origin, dir mgl64.Vec3, c Collider) (float64, bool) {
	lo, hi := c.Min(), c.Max()
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		if math.Abs(d) < parallelEpsilon {
			if o < lo[axis] || o > hi[axis] {
				return 0, false
			}
			continue
		}
		inv := 1.0 / d
		t1 := (lo[axis] - o) * inv
		t2 := (hi[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMin < 0 {
		return 0, false
	}
	return tMin, true
}

// raySurfaceHitT returns the distance along a unit ray at which it crosses s.
func raySurfaceHitT(origin, dir mgl64.Vec3, s Surface) (float64, bool) {
	denom := dir.Dot(s.Normal)
	if math.Abs(denom) < parallelEpsilon {
		return 0, false
	}
	t := s.Center.Sub(origin).Dot(s.Normal) / denom
	if t < 0 {
		return 0, false
	}
	local := origin.Add(dir.Mul(t)).Sub(s.Center)
	if math.Abs(local.Dot(s.U)) > s.HalfU || math.Abs(local.Dot(s.V)) > s.HalfV {
		return 0, false
	}
	return t, true
}

// CastAxisRay intersects a ray with every collider and returns the nearest
// entry distance no greater than maxDistance. dir must be unit length.
func CastAxisRay(origin, dir mgl64.Vec3, maxDistance float64, colliders []Collider) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, c := range colliders {
		t, ok := rayAABBHitT(origin, dir, c)
		if !ok || t > maxDistance {
			continue
		}
		if t < best {
			best = t
			found = true
		}
	}
	return best, found
}
