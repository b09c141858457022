package game

import "github.com/go-gl/mathgl/mgl64"

//go:generate go tool mockgen -destination=./mocks/sink_mock.go -package=mocks . Sink

// Sink receives simulation output for presentation. ReplaceScene is called
// once per installed level; Publish once per simulation step.
type Sink interface {
	ReplaceScene(scene Scene)
	Publish(frame Frame)
}

// Camera is the published player view.
type Camera struct {
	Position   mgl64.Vec3
	Yaw, Pitch float64
}

// ProjectileTransform is the published pose of one projectile.
type ProjectileTransform struct {
	ID       uint64
	Position mgl64.Vec3
}

// Frame is everything a renderer needs after one step.
type Frame struct {
	Tick        int
	Generation  uint64
	Camera      Camera
	Projectiles []ProjectileTransform
	// Removed lists level entities whose renderables must be dropped.
	Removed []EntityID
	// Despawned lists projectiles that left play this step.
	Despawned []uint64
	// Charge is the current charge fraction in [0, 1], for HUD display.
	Charge float64
}

type nopSink struct{}

func (nopSink) ReplaceScene(Scene) {}
func (nopSink) Publish(Frame)      {}
