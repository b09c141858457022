package game

import (
	"github.com/go-gl/mathgl/mgl64"
)

// PlayerState is the player's kinematic state. Velocity is held in the
// player's local frame: negative Z is forward and negative X is right, as in
// the original controls.
type PlayerState struct {
	Position   mgl64.Vec3
	Velocity   mgl64.Vec3
	Yaw, Pitch float64
	Grounded   bool
}

// Eye returns the camera position. The player position is the eye.
func (p PlayerState) Eye() mgl64.Vec3 { return p.Position }

// Aim returns the unit look direction.
func (p PlayerState) Aim() mgl64.Vec3 { return aimDirection(p.Yaw, p.Pitch) }

// PlayerEvents reports what happened to the player during one update.
type PlayerEvents struct {
	Jumped  bool
	Landed  bool
	Blocked []Direction
}

// PlayerController integrates PlayerState under Tuning.
type PlayerController struct {
	Tuning Tuning
}

// Spawn places the player at pos, at rest and airborne until the first floor
// contact.
func (pc PlayerController) Spawn(p *PlayerState, pos mgl64.Vec3) {
	*p = PlayerState{Position: pos, Yaw: p.Yaw, Pitch: p.Pitch}
}

// Update advances p by dt seconds. walls is the set the movement probes are
// cast against.
func (pc PlayerController) Update(p *PlayerState, in InputState, walls []Collider, dt float64) PlayerEvents {
	t := pc.Tuning
	var ev PlayerEvents

	p.Yaw = finiteOr(in.Yaw, p.Yaw)
	p.Pitch = finiteOr(in.Pitch, p.Pitch)

	// Grounded -> Airborne.
	if in.Jump && p.Grounded {
		p.Velocity[1] = t.JumpImpulse
		p.Grounded = false
		ev.Jumped = true
	}

	// 1. Damping and gravity.
	p.Velocity[0] -= p.Velocity[0] * t.Damping * dt
	p.Velocity[2] -= p.Velocity[2] * t.Damping * dt
	p.Velocity[1] -= t.Gravity * dt

	// 2. Input acceleration, normalized so diagonals are not faster.
	dir := mgl64.Vec3{boolAxis(in.Right, in.Left), 0, boolAxis(in.Forward, in.Back)}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	if in.Forward || in.Back {
		p.Velocity[2] -= dir.Z() * t.MoveAccel * dt
	}
	if in.Left || in.Right {
		p.Velocity[0] -= dir.X() * t.MoveAccel * dt
	}

	// 3. Probe ahead of each active input and veto motion toward a near wall.
	forward, right := facingBasis(p.Yaw)
	probes := [...]struct {
		active bool
		dir    Direction
		ray    mgl64.Vec3
		axis   int
	}{
		{in.Forward, DirForward, forward, 2},
		{in.Back, DirBack, forward.Mul(-1), 2},
		{in.Left, DirLeft, right.Mul(-1), 0},
		{in.Right, DirRight, right, 0},
	}
	for _, pr := range probes {
		if !pr.active {
			continue
		}
		d, hit := CastAxisRay(p.Position, pr.ray, t.ProbeDistance, walls)
		if hit && d < t.ProbeDistance {
			p.Velocity[pr.axis] = 0
			ev.Blocked = append(ev.Blocked, pr.dir)
		}
	}

	// 4. Integrate: horizontal relative to facing, vertical directly.
	move := right.Mul(-p.Velocity.X() * dt).Add(forward.Mul(-p.Velocity.Z() * dt))
	p.Position = p.Position.Add(move)
	p.Position[1] += p.Velocity.Y() * dt

	// 5. Airborne -> Grounded.
	if p.Position.Y() < t.FloorHeight {
		p.Velocity[1] = 0
		p.Position[1] = t.FloorHeight
		if !p.Grounded {
			ev.Landed = true
		}
		p.Grounded = true
	}
	return ev
}

func boolAxis(pos, neg bool) float64 {
	v := 0.0
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}
