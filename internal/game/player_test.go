package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tickDt = 1.0 / 60

func newController() PlayerController { return PlayerController{Tuning: DefaultTuning()} }

func grounded(pos mgl64.Vec3) PlayerState {
	return PlayerState{Position: pos, Grounded: true}
}

func TestPlayer_FloorClamp(t *testing.T) {
	pc := newController()
	var p PlayerState
	pc.Spawn(&p, mgl64.Vec3{0, 10, 0})

	ev := pc.Update(&p, InputState{}, nil, tickDt)
	if !ev.Landed {
		t.Fatal("first step at floor height should land")
	}
	if p.Position.Y() != 10 || p.Velocity.Y() != 0 || !p.Grounded {
		t.Fatalf("after landing: pos=%s vel=%s grounded=%v", fmtVec(p.Position), fmtVec(p.Velocity), p.Grounded)
	}

	ev = pc.Update(&p, InputState{}, nil, tickDt)
	if ev.Landed {
		t.Fatal("already grounded player should not land again")
	}
}

func TestPlayer_FallsAndLandsOnce(t *testing.T) {
	pc := newController()
	var p PlayerState
	pc.Spawn(&p, mgl64.Vec3{0, 60, 0})

	landings := 0
	for i := 0; i < 120; i++ {
		ev := pc.Update(&p, InputState{}, nil, tickDt)
		if ev.Landed {
			landings++
		}
		if p.Position.Y() < 10 {
			t.Fatalf("step %d: y=%.3f below floor", i, p.Position.Y())
		}
	}
	if landings != 1 {
		t.Fatalf("landings = %d, want 1", landings)
	}
	if !p.Grounded {
		t.Fatal("player should be grounded after falling")
	}
}

func TestPlayer_Jump(t *testing.T) {
	pc := newController()
	p := grounded(mgl64.Vec3{0, 10, 0})
	p.Velocity[1] = -5 // impulse replaces, never adds

	ev := pc.Update(&p, InputState{Jump: true}, nil, tickDt)
	if !ev.Jumped {
		t.Fatal("grounded jump should fire")
	}
	if p.Grounded {
		t.Fatal("player should be airborne after jumping")
	}
	want := 350 - 980*tickDt
	if !approx(p.Velocity.Y(), want, 1e-9) {
		t.Fatalf("vy = %.4f, want %.4f", p.Velocity.Y(), want)
	}
	if !approx(p.Position.Y(), 10+want*tickDt, 1e-9) {
		t.Fatalf("y = %.4f", p.Position.Y())
	}

	// A second jump while airborne is ignored.
	vy := p.Velocity.Y()
	ev = pc.Update(&p, InputState{Jump: true}, nil, tickDt)
	if ev.Jumped {
		t.Fatal("airborne jump should be ignored")
	}
	if !approx(p.Velocity.Y(), vy-980*tickDt, 1e-9) {
		t.Fatalf("vy = %.4f, gravity only expected", p.Velocity.Y())
	}
}

func TestPlayer_JumpArcReturnsToFloor(t *testing.T) {
	pc := newController()
	p := grounded(mgl64.Vec3{0, 10, 0})
	pc.Update(&p, InputState{Jump: true}, nil, tickDt)

	peak := p.Position.Y()
	steps := 0
	for !p.Grounded && steps < 300 {
		pc.Update(&p, InputState{}, nil, tickDt)
		peak = math.Max(peak, p.Position.Y())
		steps++
	}
	if !p.Grounded {
		t.Fatal("jump never landed")
	}
	// v²/2g = 350²/1960 = 62.5 above the floor, less discretisation.
	if peak < 65 || peak > 73 {
		t.Fatalf("peak y = %.2f, want about 72", peak)
	}
}

func TestPlayer_MovementDirections(t *testing.T) {
	tests := []struct {
		name string
		yaw  float64
		in   InputState
		want mgl64.Vec3 // unit direction of travel
	}{
		{"forward", 0, InputState{Forward: true}, mgl64.Vec3{0, 0, -1}},
		{"back", 0, InputState{Back: true}, mgl64.Vec3{0, 0, 1}},
		{"right", 0, InputState{Right: true}, mgl64.Vec3{1, 0, 0}},
		{"left", 0, InputState{Left: true}, mgl64.Vec3{-1, 0, 0}},
		{"forward turned left", math.Pi / 2, InputState{Forward: true}, mgl64.Vec3{-1, 0, 0}},
		{"right turned left", math.Pi / 2, InputState{Right: true}, mgl64.Vec3{0, 0, -1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pc := newController()
			p := grounded(mgl64.Vec3{0, 10, 0})
			in := tc.in
			in.Yaw = tc.yaw
			for i := 0; i < 30; i++ {
				pc.Update(&p, in, nil, tickDt)
			}
			moved := p.Position.Sub(mgl64.Vec3{0, 10, 0})
			if moved.Len() < 1 {
				t.Fatalf("barely moved: %s", fmtVec(moved))
			}
			assertVec(t, "direction", moved.Normalize(), tc.want, 1e-9)
		})
	}
}

func TestPlayer_DiagonalNotFaster(t *testing.T) {
	pc := newController()
	straight := grounded(mgl64.Vec3{0, 10, 0})
	diag := grounded(mgl64.Vec3{0, 10, 0})

	pc.Update(&straight, InputState{Forward: true}, nil, tickDt)
	pc.Update(&diag, InputState{Forward: true, Right: true}, nil, tickDt)

	hs := math.Hypot(straight.Velocity.X(), straight.Velocity.Z())
	hd := math.Hypot(diag.Velocity.X(), diag.Velocity.Z())
	if !approx(hs, hd, 1e-9) {
		t.Fatalf("straight speed %.4f != diagonal speed %.4f", hs, hd)
	}
}

func TestPlayer_OpposingKeysCancel(t *testing.T) {
	pc := newController()
	p := grounded(mgl64.Vec3{0, 10, 0})
	pc.Update(&p, InputState{Forward: true, Back: true}, nil, tickDt)
	if p.Velocity.Z() != 0 {
		t.Fatalf("vz = %.4f, want 0", p.Velocity.Z())
	}
}

func TestPlayer_Damping(t *testing.T) {
	pc := newController()
	p := grounded(mgl64.Vec3{0, 10, 0})
	p.Velocity = mgl64.Vec3{-20, 0, -20}
	for i := 0; i < 120; i++ {
		pc.Update(&p, InputState{}, nil, tickDt)
	}
	if math.Abs(p.Velocity.X()) > 0.01 || math.Abs(p.Velocity.Z()) > 0.01 {
		t.Fatalf("velocity should decay to rest, got %s", fmtVec(p.Velocity))
	}
}

func TestPlayer_WallVetoesForward(t *testing.T) {
	pc := newController()
	// Wall face at z=-0.5, inside the probe distance.
	walls := []Collider{{Center: mgl64.Vec3{0, 10, -1.5}, HalfExtents: mgl64.Vec3{5, 10, 1}}}
	p := grounded(mgl64.Vec3{0, 10, 0})

	ev := pc.Update(&p, InputState{Forward: true}, walls, tickDt)
	if p.Velocity.Z() != 0 {
		t.Fatalf("vz = %.4f, want 0", p.Velocity.Z())
	}
	if p.Position.Z() != 0 {
		t.Fatalf("z = %.4f, player should not advance", p.Position.Z())
	}
	if len(ev.Blocked) != 1 || ev.Blocked[0] != DirForward {
		t.Fatalf("blocked = %v, want [forward]", ev.Blocked)
	}

	// Backing away is never vetoed.
	ev = pc.Update(&p, InputState{Back: true}, walls, tickDt)
	if len(ev.Blocked) != 0 || p.Position.Z() <= 0 {
		t.Fatalf("back: blocked=%v z=%.4f", ev.Blocked, p.Position.Z())
	}
}

func TestPlayer_WallVetoesStrafeOnly(t *testing.T) {
	pc := newController()
	// Wall to the right at x=0.5.
	walls := []Collider{{Center: mgl64.Vec3{1.5, 10, 0}, HalfExtents: mgl64.Vec3{1, 10, 5}}}
	p := grounded(mgl64.Vec3{0, 10, 0})

	ev := pc.Update(&p, InputState{Right: true, Forward: true}, walls, tickDt)
	if p.Velocity.X() != 0 {
		t.Fatalf("vx = %.4f, want 0", p.Velocity.X())
	}
	if p.Velocity.Z() == 0 {
		t.Fatal("forward component should survive a strafe veto")
	}
	if len(ev.Blocked) != 1 || ev.Blocked[0] != DirRight {
		t.Fatalf("blocked = %v, want [right]", ev.Blocked)
	}
}

func TestPlayer_FarWallDoesNotVeto(t *testing.T) {
	pc := newController()
	walls := []Collider{{Center: mgl64.Vec3{0, 10, -5}, HalfExtents: mgl64.Vec3{5, 10, 1}}}
	p := grounded(mgl64.Vec3{0, 10, 0})
	ev := pc.Update(&p, InputState{Forward: true}, walls, tickDt)
	if len(ev.Blocked) != 0 || p.Velocity.Z() == 0 {
		t.Fatalf("far wall vetoed movement: blocked=%v", ev.Blocked)
	}
}

func TestPlayer_InsideWallCanLeave(t *testing.T) {
	pc := newController()
	walls := []Collider{{Center: mgl64.Vec3{0, 10, 0}, HalfExtents: mgl64.Vec3{30, 10, 5}}}
	p := grounded(mgl64.Vec3{0, 10, 0})
	for i := 0; i < 60; i++ {
		pc.Update(&p, InputState{Forward: true}, walls, tickDt)
	}
	if p.Position.Z() > -5 {
		t.Fatalf("player stuck inside wall at z=%.2f", p.Position.Z())
	}
}

func TestPlayer_NonFiniteLookIgnored(t *testing.T) {
	pc := newController()
	p := grounded(mgl64.Vec3{0, 10, 0})
	p.Yaw, p.Pitch = 0.5, 0.25
	pc.Update(&p, InputState{Yaw: math.NaN(), Pitch: math.Inf(1)}, nil, tickDt)
	if p.Yaw != 0.5 || p.Pitch != 0.25 {
		t.Fatalf("yaw/pitch = %.3f/%.3f, want 0.5/0.25", p.Yaw, p.Pitch)
	}
}

func TestPlayer_SpawnKeepsLook(t *testing.T) {
	pc := newController()
	p := PlayerState{Yaw: 1, Pitch: -0.3, Velocity: mgl64.Vec3{1, 2, 3}, Grounded: true}
	pc.Spawn(&p, mgl64.Vec3{5, 20, 5})
	if p.Yaw != 1 || p.Pitch != -0.3 {
		t.Fatal("spawn should keep the look direction")
	}
	if p.Velocity != (mgl64.Vec3{}) || p.Grounded {
		t.Fatal("spawn should reset velocity and grounded")
	}
}

func TestAimDirection(t *testing.T) {
	assertVec(t, "level", aimDirection(0, 0), mgl64.Vec3{0, 0, -1}, 1e-12)
	assertVec(t, "up", aimDirection(0, math.Pi/2), mgl64.Vec3{0, 1, 0}, 1e-12)
	assertVec(t, "turned", aimDirection(math.Pi/2, 0), mgl64.Vec3{-1, 0, 0}, 1e-12)
	if l := aimDirection(0.7, -0.4).Len(); !approx(l, 1, 1e-12) {
		t.Fatalf("aim not unit: %.6f", l)
	}
}

func TestDirection_String(t *testing.T) {
	for d, want := range map[Direction]string{
		DirForward: "forward", DirBack: "back", DirLeft: "left", DirRight: "right", Direction(7): "unknown",
	} {
		if got := d.String(); got != want {
			t.Errorf("%d: got %q want %q", int(d), got, want)
		}
	}
}
