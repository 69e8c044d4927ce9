package geometry

import (
	"math"

	"github.com/df07/go-trt/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere.
//
// The quadratic uses the half-b form throughout: with h = (o-c)·d the roots
// are (-h ± √(h² - a·c)) / a. Mixing this with the full-b divisor 2a halves t.
func (s *Sphere) Hit(ray core.Ray, bounds core.Interval) (HitRecord, bool) {
	if s.Radius <= 0 {
		return HitRecord{}, false
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.LengthSquared()
	if a == 0 {
		return HitRecord{}, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || math.IsNaN(discriminant) || math.IsInf(discriminant, 0) {
		return HitRecord{}, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !bounds.Surrounds(root) {
		// Try the farther intersection point
		root = (-halfB + sqrtD) / a
		if !bounds.Surrounds(root) {
			return HitRecord{}, false
		}
	}

	point := ray.At(root)
	return HitRecord{
		T:      root,
		Point:  point,
		Normal: point.Subtract(s.Center).Divide(s.Radius),
	}, true
}
