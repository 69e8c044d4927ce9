package scene

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
	"github.com/df07/go-trt/pkg/material"
)

// Object pairs a surface with the material that shades it
type Object struct {
	Shape    geometry.Shape
	Material material.Material
}

// Scene contains all the elements needed for rendering. It is read-only while
// a render is running and may be shared between workers without locking.
type Scene struct {
	Name    string
	Objects []Object
	Camera  geometry.Camera
}

// New creates an empty scene viewed through the default camera
func New(name string) *Scene {
	return &Scene{
		Name:    name,
		Objects: make([]Object, 0),
		Camera:  geometry.DefaultCamera(),
	}
}

// Add appends an object to the scene
func (s *Scene) Add(shape geometry.Shape, mat material.Material) {
	s.Objects = append(s.Objects, Object{Shape: shape, Material: mat})
}

// AddSphere is shorthand for adding a sphere with a material
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.Add(geometry.NewSphere(center, radius), mat)
}

// NearestHit scans every object and returns the hit with the smallest t
// strictly inside bounds. On equal t the object added first wins.
func (s *Scene) NearestHit(ray core.Ray, bounds core.Interval) (geometry.HitRecord, material.Material, bool) {
	var (
		closest    geometry.HitRecord
		closestMat material.Material
		hitAny     bool
	)

	for _, obj := range s.Objects {
		// Shrinking the upper bound keeps only strictly closer hits
		hit, ok := obj.Shape.Hit(ray, bounds)
		if !ok {
			continue
		}
		closest = hit
		closestMat = obj.Material
		hitAny = true
		bounds = bounds.WithMax(hit.T)
	}

	return closest, closestMat, hitAny
}

// SphereCount returns the number of sphere objects in the scene
func (s *Scene) SphereCount() int {
	count := 0
	for _, obj := range s.Objects {
		if _, ok := obj.Shape.(*geometry.Sphere); ok {
			count++
		}
	}
	return count
}
