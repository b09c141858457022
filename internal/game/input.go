package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// InputState is one polled snapshot of player input. Jump and the fire edges
// are true only on the step in which the transition happened.
type InputState struct {
	Forward, Back, Left, Right bool
	Jump                       bool

	FirePressed    bool
	FirePressedAt  time.Time
	FireReleased   bool
	FireReleasedAt time.Time

	// Yaw and Pitch are the camera orientation in radians. Yaw 0 looks down
	// -Z; positive pitch looks up.
	Yaw, Pitch float64

	// Captured is false while the pointer is not locked to the game; input
	// is ignored in that state.
	Captured bool
}

// Direction names the four movement probes.
type Direction int

const (
	DirForward Direction = iota
	DirBack
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirForward:
		return "forward"
	case DirBack:
		return "back"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ChargeSession tracks the interval between a fire press and its release.
type ChargeSession struct {
	start  time.Time
	active bool
}

// Press starts a charge. A second press before release restarts it.
func (c *ChargeSession) Press(at time.Time) {
	c.start = at
	c.active = true
}

// Release ends the charge and returns its duration. It reports false when no
// charge was in progress. Clock skew yielding a negative duration clamps to 0.
func (c *ChargeSession) Release(at time.Time) (time.Duration, bool) {
	if !c.active {
		return 0, false
	}
	d := at.Sub(c.start)
	c.active = false
	c.start = time.Time{}
	if d < 0 {
		d = 0
	}
	return d, true
}

// Active reports whether a charge is in progress.
func (c *ChargeSession) Active() bool { return c.active }

// Elapsed returns how long the current charge has been held at now.
func (c *ChargeSession) Elapsed(now time.Time) time.Duration {
	if !c.active {
		return 0
	}
	if d := now.Sub(c.start); d > 0 {
		return d
	}
	return 0
}

// Reset discards any charge in progress.
func (c *ChargeSession) Reset() { *c = ChargeSession{} }

// finiteOr replaces NaN and infinities with fallback.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// facingBasis returns the horizontal forward and right unit vectors for yaw.
func facingBasis(yaw float64) (forward, right mgl64.Vec3) {
	sin, cos := math.Sincos(yaw)
	return mgl64.Vec3{-sin, 0, -cos}, mgl64.Vec3{cos, 0, -sin}
}

// aimDirection returns the unit look vector for yaw and pitch.
func aimDirection(yaw, pitch float64) mgl64.Vec3 {
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	return mgl64.Vec3{-sy * cp, sp, -cy * cp}
}
