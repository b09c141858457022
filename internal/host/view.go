package host

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Arena/internal/game"
	"github.com/Garsondee/Arena/internal/level"
)

// viewMargin is the screen padding around the fitted map, in pixels.
const viewMargin = 24

// bounds is an XZ rectangle in world units.
type bounds struct {
	minX, minZ, maxX, maxZ float64
}

func (b bounds) empty() bool { return b.maxX <= b.minX || b.maxZ <= b.minZ }

func (b *bounds) include(x, z float64) {
	b.minX = math.Min(b.minX, x)
	b.minZ = math.Min(b.minZ, z)
	b.maxX = math.Max(b.maxX, x)
	b.maxZ = math.Max(b.maxZ, z)
}

// footprint returns the XZ half sizes of a renderable seen from above.
// Planes are assumed to lie flat, which is how every level floor is authored.
func footprint(r game.Renderable) (hx, hz float64) {
	if r.Kind == level.KindPlane {
		return r.Size.X() / 2, r.Size.Y() / 2
	}
	return r.Size.X() / 2, r.Size.Z() / 2
}

// sceneBounds returns the XZ extent of every renderable in s.
func sceneBounds(s game.Scene) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, r := range s.Renderables {
		hx, hz := footprint(r)
		b.include(r.Position.X()-hx, r.Position.Z()-hz)
		b.include(r.Position.X()+hx, r.Position.Z()+hz)
	}
	if b.empty() {
		return bounds{-50, -50, 50, 50}
	}
	return b
}

// projection maps world XZ to screen pixels for the top-down map. -Z is up
// on screen, matching a yaw of 0 looking up the map.
type projection struct {
	scale  float64
	cx, cz float64 // world point at the screen centre
	sw, sh float64
}

func fitProjection(b bounds, screenW, screenH int) projection {
	w := float64(screenW - 2*viewMargin)
	h := float64(screenH - 2*viewMargin)
	scale := math.Min(w/(b.maxX-b.minX), h/(b.maxZ-b.minZ))
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}
	return projection{
		scale: scale,
		cx:    (b.minX + b.maxX) / 2,
		cz:    (b.minZ + b.maxZ) / 2,
		sw:    float64(screenW),
		sh:    float64(screenH),
	}
}

func (p projection) toScreen(v mgl64.Vec3) (float32, float32) {
	x := p.sw/2 + (v.X()-p.cx)*p.scale
	y := p.sh/2 + (v.Z()-p.cz)*p.scale
	return float32(x), float32(y)
}

func (p projection) length(l float64) float32 { return float32(l * p.scale) }

// rgb converts a 0xRRGGBB level colour.
func rgb(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 255}
}

// shade darkens c for drawing objects below eye level.
func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
