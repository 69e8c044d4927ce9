package geometry

import (
	"github.com/df07/go-trt/pkg/core"
)

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T      float64   // Parameter t along the ray
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Unit outward surface normal at Point
}

// Shape interface for objects that can be hit by rays. Hit reports the
// closest intersection with t strictly inside bounds.
type Shape interface {
	Hit(ray core.Ray, bounds core.Interval) (HitRecord, bool)
}
