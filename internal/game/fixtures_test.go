package game

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/level"
)

// --- Level fixtures ---

func floorPlane(size float64) level.Primitive {
	return level.Primitive{Kind: level.KindPlane, Plane: &level.Plane{
		Size:     [2]float64{size, size},
		Rotation: mgl64.Vec3{-math.Pi / 2, 0, 0},
		Color:    0x808080,
	}}
}

func wallBox(pos, size mgl64.Vec3) level.Primitive {
	return level.Primitive{Kind: level.KindBox, Box: &level.Box{Size: size, Position: pos, Color: 0x880000}}
}

func enemyBox(pos mgl64.Vec3) level.Primitive {
	p := wallBox(pos, mgl64.Vec3{5, 5, 5})
	p.Tag = level.EnemyTag
	p.Box.Color = 0x0000ff
	return p
}

func testLevel(name string, start mgl64.Vec3, objects ...level.Primitive) *level.Level {
	return &level.Level{Name: name, PlayerStart: start, Objects: objects}
}

// openArena is a floor with a single enemy 30 units down -Z from the spawn.
func openArena() *level.Level {
	return testLevel("open", mgl64.Vec3{0, 10, 0},
		floorPlane(400),
		enemyBox(mgl64.Vec3{0, 10, -30}),
	)
}

// shieldedArena puts a wall between the spawn and the enemy.
func shieldedArena() *level.Level {
	return testLevel("shielded", mgl64.Vec3{0, 10, 0},
		floorPlane(400),
		wallBox(mgl64.Vec3{0, 10, -15}, mgl64.Vec3{20, 20, 2}),
		enemyBox(mgl64.Vec3{0, 10, -30}),
	)
}

// basicArena loads the stock first level.
func basicArena(t *testing.T) *level.Level {
	t.Helper()
	lvl, err := level.NewSource(level.Builtin()).Load(context.Background(), "level1")
	if err != nil {
		t.Fatalf("load builtin level1: %v", err)
	}
	return lvl
}

// --- Assertions ---

const eps = 1e-9

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func assertVec(t *testing.T, what string, got, want mgl64.Vec3, tol float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		if !approx(got[i], want[i], tol) {
			t.Fatalf("%s = %s, want %s", what, fmtVec(got), fmtVec(want))
		}
	}
}

// checkFloor verifies the player never sits below the floor.
func checkFloor(t *testing.T, ts *TestSim) {
	t.Helper()
	p := ts.Sim.Player()
	if floor := ts.Sim.Tuning().FloorHeight; p.Position.Y() < floor-eps {
		t.Fatalf("tick %d: player y=%.4f below floor %.1f", ts.Sim.Tick(), p.Position.Y(), floor)
	}
}

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	if len(ts.SimLog.Entries()) == 0 {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + ts.SimLog.Format())
}
