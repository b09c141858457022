package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/Garsondee/Arena/internal/level"
)

// EntityID links a level object's collider to its renderable handle.
type EntityID = uuid.UUID

// Role is the gameplay role a level object plays.
type Role int

const (
	RoleFloor Role = iota
	RoleWall
	RoleEnemy
)

func (r Role) String() string {
	switch r {
	case RoleFloor:
		return "floor"
	case RoleWall:
		return "wall"
	case RoleEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Entity is one loaded level object. Boxes carry a Collider, planes a Surface.
type Entity struct {
	ID       EntityID
	Role     Role
	Collider *Collider
	Surface  *Surface
}

// Enemy is the level's single target.
type Enemy struct {
	ID       EntityID
	Collider Collider
	Alive    bool
}

// Renderable describes one object for the rendering collaborator. Size is
// (w, h, d) for boxes and (w, h, 0) for planes.
type Renderable struct {
	ID       EntityID
	Kind     level.Kind
	Role     Role
	Position mgl64.Vec3
	Size     mgl64.Vec3
	Rotation mgl64.Vec3
	Color    uint32
}

// Scene is the full renderable set of a loaded level.
type Scene struct {
	Name        string
	Generation  uint64
	Renderables []Renderable
}

// World is the collidable state derived from one loaded level.
type World struct {
	Name  string
	Spawn mgl64.Vec3

	entities map[EntityID]*Entity
	order    []EntityID
	walls    []Collider
	wallIDs  []EntityID
	enemy    *Enemy
}

// BuildWorld converts a decoded level into a World and its Scene. When more
// than one box carries the enemy tag the last one becomes the enemy and the
// others load as ordinary walls.
func BuildWorld(lvl *level.Level) (*World, Scene) {
	w := &World{
		Name:     lvl.Name,
		Spawn:    lvl.PlayerStart,
		entities: make(map[EntityID]*Entity, len(lvl.Objects)),
	}
	scene := Scene{Name: lvl.Name, Renderables: make([]Renderable, 0, len(lvl.Objects))}

	enemyIdx := -1
	for i, p := range lvl.Objects {
		if p.Kind == level.KindBox && p.IsEnemy() {
			enemyIdx = i
		}
	}

	for i, p := range lvl.Objects {
		e := &Entity{ID: uuid.New()}
		r := Renderable{ID: e.ID, Kind: p.Kind}

		switch p.Kind {
		case level.KindPlane:
			s := surfaceFromPlane(p.Plane)
			e.Role = RoleFloor
			e.Surface = &s
			r.Position = p.Plane.Position
			r.Size = mgl64.Vec3{p.Plane.Size[0], p.Plane.Size[1], 0}
			r.Rotation = p.Plane.Rotation
			r.Color = p.Plane.Color
		case level.KindBox:
			c := Collider{Center: p.Box.Position, HalfExtents: p.Box.Size.Mul(0.5)}
			e.Collider = &c
			if i == enemyIdx {
				e.Role = RoleEnemy
				w.enemy = &Enemy{ID: e.ID, Collider: c, Alive: true}
			} else {
				e.Role = RoleWall
				w.walls = append(w.walls, c)
				w.wallIDs = append(w.wallIDs, e.ID)
			}
			r.Position = p.Box.Position
			r.Size = p.Box.Size
			r.Color = p.Box.Color
		default:
			continue
		}

		r.Role = e.Role
		w.entities[e.ID] = e
		w.order = append(w.order, e.ID)
		scene.Renderables = append(scene.Renderables, r)
	}
	return w, scene
}

// surfaceFromPlane orients the plane's local XY rectangle by its Euler
// rotation. A floor authored as rotation (-π/2, 0, 0) ends up facing +Y.
func surfaceFromPlane(p *level.Plane) Surface {
	q := mgl64.AnglesToQuat(p.Rotation.X(), p.Rotation.Y(), p.Rotation.Z(), mgl64.XYZ)
	return Surface{
		Center: p.Position,
		U:      q.Rotate(mgl64.Vec3{1, 0, 0}),
		V:      q.Rotate(mgl64.Vec3{0, 1, 0}),
		Normal: q.Rotate(mgl64.Vec3{0, 0, 1}),
		HalfU:  p.Size[0] / 2,
		HalfV:  p.Size[1] / 2,
	}
}

// Walls returns the colliders that block player movement. The slice is
// owned by the World.
func (w *World) Walls() []Collider { return w.walls }

// WallIDs returns the entity IDs of Walls in the same order.
func (w *World) WallIDs() []EntityID { return w.wallIDs }

// Enemy returns the enemy record, or false when the level has none.
func (w *World) Enemy() (Enemy, bool) {
	if w.enemy == nil {
		return Enemy{}, false
	}
	return *w.enemy, true
}

// EnemyAlive reports whether the level has an enemy that has not been killed.
func (w *World) EnemyAlive() bool { return w.enemy != nil && w.enemy.Alive }

// Entity returns a live entity by ID.
func (w *World) Entity(id EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int { return len(w.entities) }

// SceneHit is the nearest object struck by CastScene.
type SceneHit struct {
	ID       EntityID
	Role     Role
	Distance float64
}

// CastScene returns the nearest live entity hit by a unit ray within
// maxDistance. Unlike CastAxisRay it sees every object: floor, walls and the
// enemy while alive.
func (w *World) CastScene(origin, dir mgl64.Vec3, maxDistance float64) (SceneHit, bool) {
	best := SceneHit{Distance: math.Inf(1)}
	found := false
	for _, id := range w.order {
		e, ok := w.entities[id]
		if !ok {
			continue
		}
		var t float64
		var hit bool
		switch {
		case e.Collider != nil:
			t, hit = rayAABBHitT(origin, dir, *e.Collider)
		case e.Surface != nil:
			t, hit = raySurfaceHitT(origin, dir, *e.Surface)
		}
		if !hit || t > maxDistance || t >= best.Distance {
			continue
		}
		best = SceneHit{ID: e.ID, Role: e.Role, Distance: t}
		found = true
	}
	return best, found
}

// killEnemy marks the enemy dead and drops it from every query. It reports
// false when there is no live enemy to kill.
func (w *World) killEnemy() bool {
	if w.enemy == nil || !w.enemy.Alive {
		return false
	}
	w.enemy.Alive = false
	delete(w.entities, w.enemy.ID)
	return true
}
