package host

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// maxPitch keeps the camera just short of straight up or down.
const maxPitch = math.Pi/2 - 0.001

// moveKeys lists the keys bound to each movement direction.
var moveKeys = struct {
	forward, back, left, right []ebiten.Key
}{
	forward: []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
	back:    []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
	left:    []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
	right:   []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
}

// movement reports the held movement keys using pressed as the key query.
func movement(pressed func(ebiten.Key) bool) (forward, back, left, right bool) {
	held := func(keys []ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return held(moveKeys.forward), held(moveKeys.back), held(moveKeys.left), held(moveKeys.right)
}

// mouseLook turns the camera by a cursor delta in pixels. Moving the mouse
// right turns right (yaw decreases) and moving it down looks down.
func mouseLook(yaw, pitch float64, dx, dy int, sensitivity float64) (float64, float64) {
	yaw -= float64(dx) * sensitivity
	pitch -= float64(dy) * sensitivity
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	yaw = math.Remainder(yaw, 2*math.Pi)
	return yaw, pitch
}

// cursorTracker turns absolute cursor positions into per-frame deltas.
type cursorTracker struct {
	x, y  int
	valid bool
}

// delta returns the movement since the previous sample. The first sample
// after a reset yields zero so recapturing never jerks the view.
func (c *cursorTracker) delta(x, y int) (int, int) {
	if !c.valid {
		c.x, c.y, c.valid = x, y, true
		return 0, 0
	}
	dx, dy := x-c.x, y-c.y
	c.x, c.y = x, y
	return dx, dy
}

func (c *cursorTracker) reset() { c.valid = false }
