package scene

import (
	"math"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/geometry"
	"github.com/df07/go-trt/pkg/material"
)

// Sphere grid layout
const (
	sphereGridSize   = 10
	sphereGridExtent = 9.0 // Edge length of the square covered by the grid
	groundRadius     = 1000.0
)

// oklchToRGB converts OKLCH color values to RGB clamped to [0, 1].
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	lp = lp * lp * lp
	mp = mp * mp * mp
	sp = sp * sp * sp

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*lp-3.3077115913*mp+0.2309699292*sp,
		-1.2684380046*lp+2.6097574011*mp-0.3413193965*sp,
		-0.0041960863*lp-0.7034186147*mp+1.7076147010*sp,
	)

	unit := core.NewInterval(0, 1)
	return core.NewVec3(unit.Clamp(rgb.X), unit.Clamp(rgb.Y), unit.Clamp(rgb.Z))
}

// NewSphereGridScene creates a grid of colored fuzzy mirrors resting on a
// large ground sphere. Hue varies along x and chroma along z.
func NewSphereGridScene() *Scene {
	s := New("spheregrid")

	center := sphereGridExtent / 2
	cameraConfig := geometry.CameraConfig{
		LookFrom:    core.NewVec3(center, 6, 18),
		LookAt:      core.NewVec3(center, 0.8, center),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40,
		AspectRatio: 16.0 / 9.0,
	}
	// The configuration is constant and valid
	camera, err := geometry.NewLookAtCamera(cameraConfig)
	if err == nil {
		s.Camera = camera
	}

	s.AddSphere(core.NewVec3(center, -groundRadius, center), groundRadius,
		material.NewDiffuse(core.NewVec3(0.5, 0.5, 0.5)))

	spacing := sphereGridExtent / float64(sphereGridSize-1)
	radius := spacing * 0.35

	const (
		baseLightness = 0.65
		minChroma     = 0.05
		maxChroma     = 0.25
	)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			position := core.NewVec3(float64(i)*spacing, radius, float64(j)*spacing)

			hue := float64(i) / float64(sphereGridSize-1) * 360.0
			chroma := minChroma + float64(j)/float64(sphereGridSize-1)*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)

			fuzz := 0.05 + 0.1*float64((i+j)%3)/2.0
			s.AddSphere(position, radius, material.NewMirror(oklchToRGB(lightness, chroma, hue), fuzz))
		}
	}

	return s
}
