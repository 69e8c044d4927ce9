package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/integrator"
	"github.com/df07/go-trt/pkg/scene"
)

// DefaultTileSize is the edge length of a square tile in pixels
const DefaultTileSize = 32

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width           int   // Image width in pixels
	Height          int   // Image height in pixels
	SamplesPerPixel int   // Number of rays averaged per pixel
	MaxDepth        int   // Maximum ray bounce depth
	TileSize        int   // Tile edge length (0 = DefaultTileSize)
	NumWorkers      int   // Number of parallel workers (0 = logical CPU count)
	Seed            int64 // Base seed for the per-tile random generators
	Jitter          bool  // Randomize the sample position inside each pixel
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		TileSize:        DefaultTileSize,
		NumWorkers:      0,
		Seed:            42,
		Jitter:          true,
	}
}

// Validate reports every invalid setting
func (c RenderConfig) Validate() error {
	var errs []error
	if c.Width <= 0 {
		errs = append(errs, fmt.Errorf("width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		errs = append(errs, fmt.Errorf("height must be positive, got %d", c.Height))
	}
	if c.SamplesPerPixel <= 0 {
		errs = append(errs, fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}
	if c.TileSize < 0 {
		errs = append(errs, fmt.Errorf("tile size must not be negative, got %d", c.TileSize))
	}
	return errors.Join(errs...)
}

// Raytracer renders a scene into a frame using a pool of tile workers
type Raytracer struct {
	scene      *scene.Scene
	config     RenderConfig
	integrator integrator.Integrator
	logger     core.Logger
	progress   ProgressFunc
}

// NewRaytracer creates a new raytracer using the path tracing integrator
func NewRaytracer(s *scene.Scene, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, errors.New("scene is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render config: %w", err)
	}
	if config.TileSize == 0 {
		config.TileSize = DefaultTileSize
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		scene:      s,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth),
		logger:     logger,
	}, nil
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(integratorInst integrator.Integrator) {
	rt.integrator = integratorInst
}

// OnProgress registers a callback invoked after each completed tile
func (rt *Raytracer) OnProgress(fn ProgressFunc) {
	rt.progress = fn
}

// Config returns the effective render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// Render renders the full frame. Cancelling ctx stops the render between
// tiles and returns the context error.
func (rt *Raytracer) Render(ctx context.Context) (*Frame, RenderStats, error) {
	start := time.Now()
	cfg := rt.config

	if err := CheckFrameMemory(cfg.Width, cfg.Height); err != nil {
		return nil, RenderStats{}, err
	}

	frame := NewFrame(cfg.Width, cfg.Height)
	tiles := NewTileGrid(cfg.Width, cfg.Height, cfg.TileSize, cfg.Seed)

	tileRenderer := NewTileRenderer(rt.scene, rt.integrator, cfg)
	pool := NewWorkerPool(tileRenderer, cfg.NumWorkers, len(tiles))
	pool.Start(ctx)
	defer pool.Stop()

	rt.logger.Printf("Rendering %dx%d, %d spp, depth %d, %d tiles on %d workers\n",
		cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth, len(tiles), pool.GetNumWorkers())

	for _, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, Frame: frame})
	}

	stats := RenderStats{Workers: pool.GetNumWorkers()}
	totalPixels := cfg.Width * cfg.Height

	// Collect results and dispatch callbacks from this goroutine only
	for done := 0; done < len(tiles); done++ {
		var result TileResult
		select {
		case <-ctx.Done():
			return nil, RenderStats{}, ctx.Err()
		case result = <-pool.Results():
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}

		stats.Tiles++
		stats.TotalPixels += result.Stats.Pixels
		stats.TotalSamples += result.Stats.Samples
		stats.InvalidPixels += len(result.Stats.Invalid)
		for _, p := range result.Stats.Invalid {
			rt.logger.Printf("Warning: invalid color at pixel (%d, %d), using sentinel\n", p.X, p.Y)
		}

		if rt.progress != nil {
			rt.progress(TileProgress{
				TileID:      result.Tile.ID,
				Bounds:      result.Tile.Bounds,
				TilesDone:   stats.Tiles,
				TotalTiles:  len(tiles),
				PixelsDone:  stats.TotalPixels,
				TotalPixels: totalPixels,
			})
		}
	}

	stats.Duration = time.Since(start)
	stats.AverageLuminance = frame.AverageLuminance()
	return frame, stats, nil
}

// Render is a convenience wrapper that builds a Raytracer and renders once
func Render(ctx context.Context, s *scene.Scene, config RenderConfig, logger core.Logger, progress ProgressFunc) (*Frame, RenderStats, error) {
	rt, err := NewRaytracer(s, config, logger)
	if err != nil {
		return nil, RenderStats{}, err
	}
	rt.OnProgress(progress)
	return rt.Render(ctx)
}
