package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Tuning holds every physical constant of the simulation. DefaultTuning
// reproduces the feel of the original arena.
type Tuning struct {
	FloorHeight   float64 // eye height the player can never sink below
	Damping       float64 // horizontal velocity decay per second
	Gravity       float64 // player downward acceleration (units/s²)
	MoveAccel     float64 // input-driven horizontal acceleration (units/s²)
	JumpImpulse   float64 // vertical velocity set by a jump
	ProbeDistance float64 // wall probe ray length

	ProjectileGravity float64
	DespawnDistance   float64 // projectile removal radius around the player
	MinLaunchSpeed    float64
	MaxLaunchSpeed    float64
	MaxCharge         time.Duration

	// MuzzleOffset places the projectile spawn in camera space:
	// X = right, Y = up, Z = forward.
	MuzzleOffset mgl64.Vec3

	// HitScanRange bounds the aim ray, matching the camera far plane.
	HitScanRange float64
}

// DefaultTuning returns the stock arena constants.
func DefaultTuning() Tuning {
	return Tuning{
		FloorHeight:   10,
		Damping:       10,
		Gravity:       9.8 * 100,
		MoveAccel:     400,
		JumpImpulse:   350,
		ProbeDistance: 1,

		ProjectileGravity: 9.8 * 50,
		DespawnDistance:   200,
		MinLaunchSpeed:    50,
		MaxLaunchSpeed:    300,
		MaxCharge:         2000 * time.Millisecond,

		MuzzleOffset: mgl64.Vec3{0.8, -0.6, 2},
		HitScanRange: 1000,
	}
}

// LaunchSpeed maps a charge duration onto [MinLaunchSpeed, MaxLaunchSpeed]
// with a linear ramp that saturates at MaxCharge. Negative charges clamp to
// the minimum.
func (t Tuning) LaunchSpeed(charge time.Duration) float64 {
	if t.MaxCharge <= 0 {
		return t.MaxLaunchSpeed
	}
	ratio := mgl64.Clamp(float64(charge)/float64(t.MaxCharge), 0, 1)
	return t.MinLaunchSpeed + (t.MaxLaunchSpeed-t.MinLaunchSpeed)*ratio
}
