package integrator

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along a camera ray
	RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3
}
