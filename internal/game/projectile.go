package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Projectile is a visible, purely cosmetic shot in flight. It never collides
// with anything; hits are resolved by the hit-scan at release time.
type Projectile struct {
	ID       uint64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Spawn    mgl64.Vec3
}

// Projectiles owns the active projectile set.
type Projectiles struct {
	tuning Tuning
	active []Projectile
	nextID uint64
}

// NewProjectiles returns an empty set integrated under t.
func NewProjectiles(t Tuning) *Projectiles {
	return &Projectiles{tuning: t}
}

// Fire launches a projectile from origin along the unit vector aim with a
// speed derived from charge.
func (ps *Projectiles) Fire(origin, aim mgl64.Vec3, charge time.Duration) Projectile {
	ps.nextID++
	p := Projectile{
		ID:       ps.nextID,
		Position: origin,
		Velocity: aim.Mul(ps.tuning.LaunchSpeed(charge)),
		Spawn:    origin,
	}
	ps.active = append(ps.active, p)
	return p
}

// Update applies gravity, integrates, and removes every projectile farther
// than DespawnDistance from player. Note the distance is measured to the
// player's current position, not to the projectile's spawn point. It returns
// the IDs removed this step.
func (ps *Projectiles) Update(dt float64, player mgl64.Vec3) []uint64 {
	var removed []uint64
	kept := ps.active[:0]
	for _, p := range ps.active {
		p.Velocity[1] -= ps.tuning.ProjectileGravity * dt
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		if p.Position.Sub(player).Len() > ps.tuning.DespawnDistance {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	ps.active = kept
	return removed
}

// Active returns the projectiles currently in flight. The slice is owned by
// the set and is only valid until the next call.
func (ps *Projectiles) Active() []Projectile { return ps.active }

// Len returns the number of projectiles in flight.
func (ps *Projectiles) Len() int { return len(ps.active) }

// Clear drops every projectile.
func (ps *Projectiles) Clear() { ps.active = ps.active[:0] }

// muzzlePosition converts the camera-space muzzle offset to world space.
func muzzlePosition(eye, aim mgl64.Vec3, yaw float64, offset mgl64.Vec3) mgl64.Vec3 {
	_, right := facingBasis(yaw)
	up := right.Cross(aim)
	return eye.
		Add(right.Mul(offset.X())).
		Add(up.Mul(offset.Y())).
		Add(aim.Mul(offset.Z()))
}
