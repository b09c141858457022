package level

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDecode_BasicArena(t *testing.T) {
	data, err := builtinFS.ReadFile("builtin/level1.json")
	if err != nil {
		t.Fatalf("read builtin: %v", err)
	}
	lvl, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lvl.Name != "Basic Arena" {
		t.Errorf("Name = %q, want Basic Arena", lvl.Name)
	}
	if lvl.PlayerStart != (mgl64.Vec3{0, 10, 0}) {
		t.Errorf("PlayerStart = %v, want (0,10,0)", lvl.PlayerStart)
	}
	if len(lvl.Objects) != 8 {
		t.Fatalf("len(Objects) = %d, want 8", len(lvl.Objects))
	}
	if lvl.Objects[0].Kind != KindPlane || lvl.Objects[0].Plane == nil {
		t.Errorf("first object should be the floor plane, got %v", lvl.Objects[0].Kind)
	}
	enemies := 0
	for _, p := range lvl.Objects {
		if p.IsEnemy() {
			enemies++
			if p.Kind != KindBox {
				t.Errorf("enemy kind = %v, want box", p.Kind)
			}
		}
	}
	if enemies != 1 {
		t.Errorf("enemy count = %d, want 1", enemies)
	}
}

func TestDecode_LegacyEnemyName(t *testing.T) {
	doc := `{"name":"x","playerStart":{"x":1,"y":10,"z":2},"objects":[
		{"type":"box","size":[5,5,5],"position":[0,2.5,0],"name":"enemy"}]}`
	lvl, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lvl.Objects) != 1 || !lvl.Objects[0].IsEnemy() {
		t.Fatalf("legacy name field should mark the enemy: %+v", lvl.Objects)
	}
}

func TestDecode_SkipsMalformedPrimitives(t *testing.T) {
	doc := `{"name":"x","playerStart":{"x":0,"y":10,"z":0},"objects":[
		{"type":"sphere","size":[1],"position":[0,0,0]},
		{"type":"box","size":[5,5],"position":[0,0,0]},
		{"type":"box","size":[5,5,5],"position":[0,0]},
		{"type":"plane","size":[10,10],"position":[0,0,0],"rotation":[1]},
		{"type":"box","size":[0,5,5],"position":[0,0,0]},
		{"type":"box","size":[5,5,5],"position":[1,2,3],"color":255}]}`
	lvl, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("malformed primitives must not fail the level: %v", err)
	}
	if lvl.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", lvl.Skipped)
	}
	if len(lvl.Objects) != 1 {
		t.Fatalf("len(Objects) = %d, want 1", len(lvl.Objects))
	}
	b := lvl.Objects[0].Box
	if b == nil || b.Position != (mgl64.Vec3{1, 2, 3}) || b.Color != 255 {
		t.Errorf("surviving box decoded wrong: %+v", b)
	}
}

func TestDecode_PlaneWithoutRotation(t *testing.T) {
	doc := `{"playerStart":{"x":0,"y":10,"z":0},"objects":[
		{"type":"plane","size":[4,6],"position":[0,0,0]}]}`
	lvl, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	p := lvl.Objects[0].Plane
	if p.Rotation != (mgl64.Vec3{}) {
		t.Errorf("Rotation = %v, want zero", p.Rotation)
	}
	if p.Size != [2]float64{4, 6} {
		t.Errorf("Size = %v, want [4 6]", p.Size)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := map[string]string{
		"syntax":         `{"name":`,
		"no playerStart": `{"name":"x","objects":[]}`,
		"wrong type":     `{"playerStart":{"x":0,"y":10,"z":0},"objects":{}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindPlane.String() != "plane" || KindBox.String() != "box" {
		t.Fatalf("unexpected kind names %q %q", KindPlane, KindBox)
	}
	if Kind(7).String() != "kind(7)" {
		t.Fatalf("unknown kind = %q", Kind(7))
	}
}
