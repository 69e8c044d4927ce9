package material

import (
	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
)

// Mirror represents a specular surface with optional fuzzy reflection
type Mirror struct {
	Albedo core.Vec3 // Reflection tint
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy; clamped when used
}

// NewMirror creates a new mirror material. Fuzz is stored as given.
func NewMirror(albedo core.Vec3, fuzz float64) *Mirror {
	return &Mirror{Albedo: albedo, Fuzz: fuzz}
}

// Fuzziness returns Fuzz clamped to [0, 1]
func (m *Mirror) Fuzziness() float64 {
	return max(0.0, min(1.0, m.Fuzz))
}

// Scatter implements the Material interface for mirror scattering
func (m *Mirror) Scatter(rayIn core.Ray, hit geometry.HitRecord, sampler core.Sampler) ScatterResult {
	reflected := Reflect(rayIn.Direction, hit.Normal)

	direction := reflected
	if fuzz := m.Fuzziness(); fuzz > 0 {
		direction = reflected.Add(core.RandomInUnitSphere(sampler).Multiply(fuzz))
	}

	// A perturbed ray that turns back past the ideal reflection is absorbed
	attenuation := m.Albedo
	if direction.Dot(reflected) <= 0 {
		attenuation = core.Vec3{X: 0, Y: 0, Z: 0}
	}

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: attenuation,
	}
}
