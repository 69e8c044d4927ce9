package core

import (
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator. It must not be shared
// between goroutines.
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// ConstantSampler always returns the same value. Useful for exact tests.
type ConstantSampler struct {
	Value float64
}

// Get1D returns the constant value
func (c ConstantSampler) Get1D() float64 { return c.Value }

// Get2D returns the constant value in both components
func (c ConstantSampler) Get2D() Vec2 { return NewVec2(c.Value, c.Value) }

// Get3D returns the constant value in all components
func (c ConstantSampler) Get3D() Vec3 { return NewVec3(c.Value, c.Value, c.Value) }

// RandomInUnitSphere returns a uniformly distributed point strictly inside the
// unit ball using rejection sampling.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for {
		// Generate random point in [-1,1]³ cube
		p := sampler.Get3D().Multiply(2).Subtract(NewVec3(1, 1, 1))
		// Accept if inside unit sphere
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
}
