package integrator

import (
	"math"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/scene"
)

// ShadowAcneEpsilon is the minimum ray parameter accepted as a hit. It keeps
// scattered rays from re-hitting the surface they leave due to rounding.
const ShadowAcneEpsilon = 0.001

var (
	skyWhite = core.NewVec3(1.0, 1.0, 1.0)
	skyBlue  = core.NewVec3(0.5, 0.7, 1.0)
)

// PathTracingIntegrator implements unidirectional path tracing with a sky
// gradient as the only light source
type PathTracingIntegrator struct {
	MaxDepth int // Maximum number of scattering events per path
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{MaxDepth: maxDepth}
}

// RayColor computes the color for a camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.Radiance(ray, s, sampler, 0)
}

// Radiance follows a path from the given bounce depth. Paths that reach
// MaxDepth while still hitting geometry contribute nothing.
func (pt *PathTracingIntegrator) Radiance(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	hit, mat, isHit := s.NearestHit(ray, core.NewInterval(ShadowAcneEpsilon, math.Inf(1)))
	if !isHit {
		return SkyGradient(ray.Direction)
	}

	if depth >= pt.MaxDepth {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	scatter := mat.Scatter(ray, hit, sampler)
	// Zero attenuation zeroes any incoming light, so skipping the recursion
	// only saves work and never changes a finite result
	if scatter.Attenuation.Equals(core.Vec3{}) {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	incoming := pt.Radiance(scatter.Scattered, s, sampler, depth+1)
	return incoming.MultiplyVec(scatter.Attenuation)
}

// SkyGradient blends from white at the bottom to light blue at the top based
// on the vertical component of the normalized direction
func SkyGradient(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return skyWhite.Lerp(skyBlue, t)
}
