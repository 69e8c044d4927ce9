package material

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
)

// Diffuse represents a Lambertian surface
type Diffuse struct {
	Albedo core.Vec3 // Per-channel reflectance in [0,1]
}

// NewDiffuse creates a new diffuse material
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// Scatter bounces the ray towards a random point in the unit sphere tangent
// to the surface. The incoming direction does not matter for a Lambertian
// surface.
func (d *Diffuse) Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) ScatterResult {
	target := hit.Point.Add(hit.Normal).Add(core.RandomInUnitSphere(sampler))

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, target.Subtract(hit.Point)),
		Attenuation: d.Albedo,
	}
}
