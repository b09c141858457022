package level

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// EnemyTag marks the primitive that becomes the level's enemy.
const EnemyTag = "enemy"

// Kind identifies which payload of a Primitive is populated.
type Kind int

const (
	KindPlane Kind = iota
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "plane"
	case KindBox:
		return "box"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Plane is a finite rectangle of Size[0] x Size[1] in its local XY plane,
// rotated by Rotation (Euler XYZ, radians) and centred on Position.
type Plane struct {
	Size     [2]float64
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Color    uint32
}

// Box is an axis-aligned box of Size (w, h, d) centred on Position.
type Box struct {
	Size     mgl64.Vec3
	Position mgl64.Vec3
	Color    uint32
}

// Primitive is one declarative level object. Exactly one of Plane or Box is
// set, selected by Kind.
type Primitive struct {
	Kind  Kind
	Tag   string
	Plane *Plane
	Box   *Box
}

// IsEnemy reports whether the primitive carries the enemy tag.
func (p Primitive) IsEnemy() bool { return p.Tag == EnemyTag }

// Level is a decoded, immutable level description.
type Level struct {
	Name        string
	PlayerStart mgl64.Vec3
	Objects     []Primitive

	// Skipped counts primitives dropped at decode time because their type
	// was unknown or their vectors had the wrong arity.
	Skipped int
}

// ErrMalformed is returned when a level document cannot be parsed.
var ErrMalformed = errors.New("malformed level")

type rawLevel struct {
	Name        string         `json:"name"`
	PlayerStart *rawPoint      `json:"playerStart"`
	Objects     []rawPrimitive `json:"objects"`
}

type rawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type rawPrimitive struct {
	Type     string    `json:"type"`
	Size     []float64 `json:"size"`
	Position []float64 `json:"position"`
	Rotation []float64 `json:"rotation,omitempty"`
	Color    *uint32   `json:"color,omitempty"`
	Tag      string    `json:"tag,omitempty"`
	// Name is the legacy enemy marker written by the grid level painter.
	Name string `json:"name,omitempty"`
}

// Decode parses a level document. Unknown primitive types are skipped rather
// than failing the whole level.
func Decode(data []byte) (*Level, error) {
	var raw rawLevel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.PlayerStart == nil {
		return nil, fmt.Errorf("%w: missing playerStart", ErrMalformed)
	}

	lvl := &Level{
		Name:        raw.Name,
		PlayerStart: mgl64.Vec3{raw.PlayerStart.X, raw.PlayerStart.Y, raw.PlayerStart.Z},
		Objects:     make([]Primitive, 0, len(raw.Objects)),
	}
	for _, rp := range raw.Objects {
		p, ok := rp.primitive()
		if !ok {
			lvl.Skipped++
			continue
		}
		lvl.Objects = append(lvl.Objects, p)
	}
	return lvl, nil
}

func (rp rawPrimitive) primitive() (Primitive, bool) {
	pos, ok := vec3(rp.Position)
	if !ok {
		return Primitive{}, false
	}
	tag := rp.Tag
	if tag == "" && rp.Name == EnemyTag {
		tag = EnemyTag
	}
	var color uint32
	if rp.Color != nil {
		color = *rp.Color
	}

	switch rp.Type {
	case "plane":
		if len(rp.Size) != 2 || rp.Size[0] <= 0 || rp.Size[1] <= 0 {
			return Primitive{}, false
		}
		var rot mgl64.Vec3
		if rp.Rotation != nil {
			if rot, ok = vec3(rp.Rotation); !ok {
				return Primitive{}, false
			}
		}
		return Primitive{
			Kind: KindPlane,
			Tag:  tag,
			Plane: &Plane{
				Size:     [2]float64{rp.Size[0], rp.Size[1]},
				Position: pos,
				Rotation: rot,
				Color:    color,
			},
		}, true
	case "box":
		size, ok := vec3(rp.Size)
		if !ok || size.X() <= 0 || size.Y() <= 0 || size.Z() <= 0 {
			return Primitive{}, false
		}
		return Primitive{
			Kind: KindBox,
			Tag:  tag,
			Box:  &Box{Size: size, Position: pos, Color: color},
		}, true
	default:
		return Primitive{}, false
	}
}

func vec3(v []float64) (mgl64.Vec3, bool) {
	if len(v) != 3 {
		return mgl64.Vec3{}, false
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, true
}
