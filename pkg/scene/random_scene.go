package scene

import (
	"math/rand"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/material"
)

const (
	maxRandomSpheres   = 100
	randomSphereRadius = 0.5
)

// NewRandomScene creates up to 99 spheres with random positions and albedos,
// half diffuse and half mirror on average. The same generator state always
// produces the same scene.
func NewRandomScene(random *rand.Rand) *Scene {
	s := New("random")

	count := random.Intn(maxRandomSpheres)
	for i := 0; i < count; i++ {
		center := core.NewVec3(
			uniform(random, -1, 1),
			uniform(random, -0.5, 0.5),
			uniform(random, -1, 1),
		)
		albedo := core.NewVec3(random.Float64(), random.Float64(), random.Float64())

		var mat material.Material
		if random.Float64() < 0.5 {
			mat = material.NewMirror(albedo, 0.0)
		} else {
			mat = material.NewDiffuse(albedo)
		}
		s.AddSphere(center, randomSphereRadius, mat)
	}

	return s
}

// uniform returns a value in [lo, hi)
func uniform(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}
