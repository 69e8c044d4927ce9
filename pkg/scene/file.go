package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
	"github.com/df07/go-trt/pkg/material"
)

// Material type names used in scene files
const (
	MaterialDiffuse = "diffuse"
	MaterialMirror  = "mirror"
)

// File is the on-disk YAML representation of a scene
type File struct {
	Name    string       `yaml:"name,omitempty"`
	Camera  *CameraFile  `yaml:"camera,omitempty"`
	Objects []ObjectFile `yaml:"objects"`
}

// CameraFile describes the camera either by its image plane vectors or by
// a look-at configuration. Setting look_from selects the look-at form.
type CameraFile struct {
	Origin     *[3]float64 `yaml:"origin,omitempty"`
	Horizontal *[3]float64 `yaml:"horizontal,omitempty"`
	Vertical   *[3]float64 `yaml:"vertical,omitempty"`
	LowerLeft  *[3]float64 `yaml:"lower_left,omitempty"`

	LookFrom *[3]float64 `yaml:"look_from,omitempty"`
	LookAt   *[3]float64 `yaml:"look_at,omitempty"`
	Up       *[3]float64 `yaml:"up,omitempty"`
	VFov     float64     `yaml:"vfov,omitempty"`
	Aspect   float64     `yaml:"aspect,omitempty"`
}

// ObjectFile is a sphere and its material
type ObjectFile struct {
	Sphere   SphereFile   `yaml:"sphere"`
	Material MaterialFile `yaml:"material"`
}

// SphereFile holds sphere geometry
type SphereFile struct {
	Center [3]float64 `yaml:"center,flow"`
	Radius float64    `yaml:"radius"`
}

// MaterialFile holds a tagged material description
type MaterialFile struct {
	Type   string     `yaml:"type"`
	Albedo [3]float64 `yaml:"albedo,flow"`
	Fuzz   float64    `yaml:"fuzz,omitempty"`
}

// Parse decodes a YAML scene document
func Parse(data []byte) (*Scene, error) {
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return doc.Build()
}

// Load reads a scene file from disk. The scene is named after the file when
// the document does not set a name.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Build converts the file representation into a renderable scene, reporting
// every invalid object at once
func (f *File) Build() (*Scene, error) {
	s := New(f.Name)

	if f.Camera != nil {
		camera, err := f.Camera.build()
		if err != nil {
			return nil, fmt.Errorf("camera: %w", err)
		}
		s.Camera = camera
	}

	var errs []error
	for i, obj := range f.Objects {
		mat, err := obj.Material.build()
		if err != nil {
			errs = append(errs, fmt.Errorf("object %d: %w", i, err))
			continue
		}
		s.AddSphere(vec(obj.Sphere.Center), obj.Sphere.Radius, mat)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return s, nil
}

func (c *CameraFile) build() (geometry.Camera, error) {
	if c.LookFrom != nil {
		config := geometry.DefaultCameraConfig()
		config.LookFrom = vec(*c.LookFrom)
		if c.LookAt != nil {
			config.LookAt = vec(*c.LookAt)
		}
		if c.Up != nil {
			config.Up = vec(*c.Up)
		}
		if c.VFov != 0 {
			config.VFov = c.VFov
		}
		if c.Aspect != 0 {
			config.AspectRatio = c.Aspect
		}
		return geometry.NewLookAtCamera(config)
	}

	// Explicit form: unset vectors keep the default camera's values
	camera := geometry.DefaultCamera()
	if c.Origin != nil {
		camera.Origin = vec(*c.Origin)
	}
	if c.Horizontal != nil {
		camera.Horizontal = vec(*c.Horizontal)
	}
	if c.Vertical != nil {
		camera.Vertical = vec(*c.Vertical)
	}
	if c.LowerLeft != nil {
		camera.LowerLeft = vec(*c.LowerLeft)
	}
	return camera, nil
}

func (m MaterialFile) build() (material.Material, error) {
	albedo := vec(m.Albedo)
	switch strings.ToLower(m.Type) {
	case MaterialDiffuse:
		return material.NewDiffuse(albedo), nil
	case MaterialMirror:
		return material.NewMirror(albedo, m.Fuzz), nil
	case "":
		return nil, errors.New("material type is required")
	default:
		return nil, fmt.Errorf("unknown material type %q", m.Type)
	}
}

// ToFile converts a scene into its file representation. Only spheres with
// diffuse or mirror materials can be represented.
func ToFile(s *Scene) (*File, error) {
	camera := s.Camera
	doc := &File{
		Name: s.Name,
		Camera: &CameraFile{
			Origin:     arr(camera.Origin),
			Horizontal: arr(camera.Horizontal),
			Vertical:   arr(camera.Vertical),
			LowerLeft:  arr(camera.LowerLeft),
		},
		Objects: make([]ObjectFile, 0, len(s.Objects)),
	}

	for i, obj := range s.Objects {
		sphere, ok := obj.Shape.(*geometry.Sphere)
		if !ok {
			return nil, fmt.Errorf("object %d: unsupported shape %T", i, obj.Shape)
		}

		var mf MaterialFile
		switch mat := obj.Material.(type) {
		case *material.Diffuse:
			mf = MaterialFile{Type: MaterialDiffuse, Albedo: *arr(mat.Albedo)}
		case *material.Mirror:
			mf = MaterialFile{Type: MaterialMirror, Albedo: *arr(mat.Albedo), Fuzz: mat.Fuzz}
		default:
			return nil, fmt.Errorf("object %d: unsupported material %T", i, obj.Material)
		}

		doc.Objects = append(doc.Objects, ObjectFile{
			Sphere:   SphereFile{Center: *arr(sphere.Center), Radius: sphere.Radius},
			Material: mf,
		})
	}

	return doc, nil
}

// Marshal encodes a scene as YAML
func Marshal(s *Scene) ([]byte, error) {
	doc, err := ToFile(s)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene: %w", err)
	}
	return data, nil
}

// Save writes a scene to disk as YAML
func Save(path string, s *Scene) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

func arr(v core.Vec3) *[3]float64 {
	return &[3]float64{v.X, v.Y, v.Z}
}
