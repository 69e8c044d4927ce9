package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of samples taken
	InvalidPixels    int           // Pixels replaced by the sentinel color
	Tiles            int           // Number of tiles rendered
	Workers          int           // Number of parallel workers used
	Duration         time.Duration // Wall-clock render time
	AverageLuminance float64       // Mean luminance of the final frame
}

// SamplesPerSecond returns the sampling throughput of the render
func (s RenderStats) SamplesPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.TotalSamples) / s.Duration.Seconds()
}

// TileProgress is reported after each completed tile
type TileProgress struct {
	TileID      int
	Bounds      image.Rectangle
	TilesDone   int
	TotalTiles  int
	PixelsDone  int
	TotalPixels int
}

// Fraction returns the completed share of pixels in [0, 1]
func (p TileProgress) Fraction() float64 {
	if p.TotalPixels == 0 {
		return 1
	}
	return float64(p.PixelsDone) / float64(p.TotalPixels)
}

// ProgressFunc receives progress updates. It is always called from the
// goroutine running Render, never concurrently.
type ProgressFunc func(progress TileProgress)
