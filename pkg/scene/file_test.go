package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
	"github.com/df07/go-trt/pkg/material"
)

const twoSpheres = `name: two spheres
objects:
  - sphere: {center: [0, 0, -1], radius: 0.5}
    material: {type: diffuse, albedo: [0.8, 0.3, 0.3]}
  - sphere: {center: [1, 0, -1], radius: 0.5}
    material: {type: mirror, albedo: [0.8, 0.6, 0.2], fuzz: 1.5}
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(twoSpheres))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if s.Name != "two spheres" {
		t.Errorf("Expected name 'two spheres', got %q", s.Name)
	}
	if len(s.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(s.Objects))
	}
	if s.Camera != geometry.DefaultCamera() {
		t.Errorf("Missing camera block should give the default camera")
	}

	diffuse, ok := s.Objects[0].Material.(*material.Diffuse)
	if !ok || !diffuse.Albedo.Equals(core.NewVec3(0.8, 0.3, 0.3)) {
		t.Errorf("Unexpected first material: %+v", s.Objects[0].Material)
	}

	mirror, ok := s.Objects[1].Material.(*material.Mirror)
	if !ok {
		t.Fatalf("Expected mirror, got %T", s.Objects[1].Material)
	}
	// Out of range fuzz is kept as written and clamped when used
	if mirror.Fuzz != 1.5 || mirror.Fuzziness() != 1.0 {
		t.Errorf("Unexpected fuzz %f / %f", mirror.Fuzz, mirror.Fuzziness())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			doc:     "objects: [",
			wantErr: "failed to decode scene",
		},
		{
			name: "unknown material",
			doc: `objects:
  - sphere: {center: [0, 0, -1], radius: 0.5}
    material: {type: glass, albedo: [1, 1, 1]}`,
			wantErr: `object 0: unknown material type "glass"`,
		},
		{
			name: "missing material type",
			doc: `objects:
  - sphere: {center: [0, 0, -1], radius: 0.5}
    material: {type: diffuse, albedo: [1, 1, 1]}
  - sphere: {center: [0, 0, -1], radius: 0.5}
    material: {albedo: [1, 1, 1]}`,
			wantErr: "object 1: material type is required",
		},
		{
			name: "degenerate look-at camera",
			doc: `camera: {look_from: [0, 0, 0], look_at: [0, 0, 0]}
objects: []`,
			wantErr: "camera:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParse_Camera(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		doc := `camera:
  origin: [0, 1, 0]
  lower_left: [-2, 0, -1]
objects: []`
		s, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if !s.Camera.Origin.Equals(core.NewVec3(0, 1, 0)) || !s.Camera.LowerLeft.Equals(core.NewVec3(-2, 0, -1)) {
			t.Errorf("Unexpected camera: %+v", s.Camera)
		}
		// Unset vectors come from the default camera
		if !s.Camera.Horizontal.Equals(core.NewVec3(4, 0, 0)) {
			t.Errorf("Expected default horizontal, got %v", s.Camera.Horizontal)
		}
	})

	t.Run("look-at", func(t *testing.T) {
		doc := `camera:
  look_from: [0, 0, 0]
  look_at: [0, 0, -1]
  vfov: 90
  aspect: 2
objects: []`
		s, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		want := geometry.DefaultCamera()
		if s.Camera.LowerLeft.Subtract(want.LowerLeft).Length() > 1e-9 ||
			s.Camera.Horizontal.Subtract(want.Horizontal).Length() > 1e-9 {
			t.Errorf("Look-at camera %+v should match the default %+v", s.Camera, want)
		}
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	original := NewDefaultScene()
	path := filepath.Join(t.TempDir(), "four-spheres.yaml")

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Camera != original.Camera {
		t.Errorf("Camera changed: %+v vs %+v", loaded.Camera, original.Camera)
	}
	if len(loaded.Objects) != len(original.Objects) {
		t.Fatalf("Expected %d objects, got %d", len(original.Objects), len(loaded.Objects))
	}
	for i := range original.Objects {
		a := original.Objects[i].Shape.(*geometry.Sphere)
		b := loaded.Objects[i].Shape.(*geometry.Sphere)
		if *a != *b {
			t.Errorf("Object %d: sphere %+v became %+v", i, a, b)
		}
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0.2, -0.1, -1))
	h1, _, _ := original.NearestHit(ray, core.NewInterval(0.001, 1e9))
	h2, _, _ := loaded.NearestHit(ray, core.NewInterval(0.001, 1e9))
	if h1 != h2 {
		t.Errorf("Loaded scene intersects differently: %+v vs %+v", h1, h2)
	}
}

func TestLoad_NameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yml")
	doc := "objects:\n  - sphere: {center: [0, 0, -1], radius: 0.5}\n    material: {type: diffuse, albedo: [1, 1, 1]}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Name != "unnamed" {
		t.Errorf("Expected name from file, got %q", s.Name)
	}

	// Create accepts file paths too
	s2, err := Create(path, 0)
	if err != nil || len(s2.Objects) != 1 {
		t.Errorf("Create(%q) = %v, %v", path, s2, err)
	}
}

type unsupportedShape struct{}

func (unsupportedShape) Hit(core.Ray, core.Interval) (geometry.HitRecord, bool) {
	return geometry.HitRecord{}, false
}

func TestMarshal_Unsupported(t *testing.T) {
	s := New("bad")
	s.Add(unsupportedShape{}, material.NewDiffuse(core.NewVec3(1, 1, 1)))

	if _, err := Marshal(s); err == nil {
		t.Error("Expected error for unsupported shape")
	}
}
