package material

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter maps an incoming ray and its hit record to an outgoing ray and
	// a per-channel attenuation. Absorption is expressed as zero attenuation.
	Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) ScatterResult
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n
func Reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
