package renderer

import (
	"image"
	"math"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/integrator"
	"github.com/df07/go-trt/pkg/scene"
)

// centerJitter is the fixed sub-pixel offset used when jitter is disabled
const centerJitter = 0.5

// TileRenderer renders the pixels of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     RenderConfig
}

// TileStats summarizes the work done for one tile
type TileStats struct {
	Pixels  int
	Samples int
	Invalid []image.Point // Pixels replaced by the sentinel color
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(s *scene.Scene, integratorInst integrator.Integrator, config RenderConfig) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integratorInst,
		config:     config,
	}
}

// RenderTile writes every pixel of the tile into the frame. Tiles never
// overlap, so concurrent calls on distinct tiles are safe.
func (tr *TileRenderer) RenderTile(tile *Tile, frame *Frame) TileStats {
	sampler := core.NewRandomSampler(tile.Random)
	stats := TileStats{}

	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		// Raster rows run top to bottom while v runs bottom to top
		j := tr.config.Height - 1 - y
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			average := tr.samplePixel(i, j, sampler)

			pixel, ok := quantize(average)
			if !ok {
				pixel = SentinelColor
				stats.Invalid = append(stats.Invalid, image.Pt(i, y))
			}
			frame.Set(i, y, pixel)

			stats.Pixels++
			stats.Samples += tr.config.SamplesPerPixel
		}
	}

	return stats
}

// samplePixel averages SamplesPerPixel radiance estimates for pixel (i, j)
func (tr *TileRenderer) samplePixel(i, j int, sampler core.Sampler) core.Vec3 {
	camera := tr.scene.Camera
	width := float64(tr.config.Width)
	height := float64(tr.config.Height)

	colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
	for sample := 0; sample < tr.config.SamplesPerPixel; sample++ {
		du, dv := centerJitter, centerJitter
		if tr.config.Jitter {
			offset := sampler.Get2D()
			du, dv = offset.X, offset.Y
		}

		u := (float64(i) + du) / width
		v := (float64(j) + dv) / height
		ray := camera.GetRay(u, v)

		colorAccum = colorAccum.Add(tr.integrator.RayColor(ray, tr.scene, sampler))
	}

	return colorAccum.Multiply(1.0 / float64(tr.config.SamplesPerPixel))
}

// SentinelColor replaces pixels whose color could not be quantized
var SentinelColor = RGB{R: 0, G: 0, B: 0}

// quantize applies gamma 2 and maps each channel to 8 bits with
// floor(c * 255.99). It reports false if any channel is NaN or lands outside
// [0, 255]; the range is checked before converting to an integer.
func quantize(c core.Vec3) (RGB, bool) {
	r, okR := quantizeChannel(c.X)
	g, okG := quantizeChannel(c.Y)
	b, okB := quantizeChannel(c.Z)
	if !okR || !okG || !okB {
		return RGB{}, false
	}
	return RGB{R: r, G: g, B: b}, true
}

func quantizeChannel(c float64) (uint8, bool) {
	q := math.Floor(math.Sqrt(c) * 255.99)
	if math.IsNaN(q) || q < 0 || q > 255 {
		return 0, false
	}
	return uint8(q), true
}
