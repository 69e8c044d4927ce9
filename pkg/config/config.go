package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/df07/go-trt/pkg/logging"
	"github.com/df07/go-trt/pkg/renderer"
)

const (
	// DefaultScene is the built-in scene rendered when none is requested.
	DefaultScene = "default"
	// DefaultWidth and DefaultHeight give a 16:9 frame.
	DefaultWidth  = 400
	DefaultHeight = 225
	// DefaultSamples is the number of antialiasing samples per pixel.
	DefaultSamples = 100
	// DefaultMaxDepth bounds the number of bounces per path.
	DefaultMaxDepth = 50
	// DefaultOut is where the CLI writes its image.
	DefaultOut = "renders/render.png"
	// DefaultFormat is used when Out names a directory.
	DefaultFormat = "png"
	// DefaultSeed makes renders reproducible unless overridden.
	DefaultSeed int64 = 42
	// DefaultScenesDir is scanned for YAML scene files.
	DefaultScenesDir = "scenes"
	// DefaultLogLevel controls verbosity.
	DefaultLogLevel = "info"
	// DefaultLogFormat selects text or json log lines.
	DefaultLogFormat = "text"
)

// Supported output formats, keyed by file extension without the dot.
var formats = []string{"png", "ppm", "ppm.zst", "ppm.sz"}

// Config captures all runtime tunables for a render.
type Config struct {
	Scene     string
	Width     int
	Height    int
	Samples   int
	MaxDepth  int
	Out       string
	Format    string
	Workers   int
	Seed      int64
	TileSize  int
	ScenesDir string
	LogLevel  string
	LogFormat string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Scene:     DefaultScene,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Samples:   DefaultSamples,
		MaxDepth:  DefaultMaxDepth,
		Out:       DefaultOut,
		Format:    DefaultFormat,
		Workers:   0,
		Seed:      DefaultSeed,
		TileSize:  renderer.DefaultTileSize,
		ScenesDir: DefaultScenesDir,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// FromEnv overlays TRT_* environment variables on base, returning every
// malformed value together.
func FromEnv(base Config) (Config, error) {
	cfg := base
	cfg.Scene = getString("TRT_SCENE", cfg.Scene)
	cfg.Out = getString("TRT_OUT", cfg.Out)
	cfg.Format = getString("TRT_FORMAT", cfg.Format)
	cfg.ScenesDir = getString("TRT_SCENES_DIR", cfg.ScenesDir)
	cfg.LogLevel = getString("TRT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getString("TRT_LOG_FORMAT", cfg.LogFormat)

	var problems []error
	intVars := []struct {
		key    string
		target *int
	}{
		{"TRT_WIDTH", &cfg.Width},
		{"TRT_HEIGHT", &cfg.Height},
		{"TRT_SAMPLES", &cfg.Samples},
		{"TRT_MAX_DEPTH", &cfg.MaxDepth},
		{"TRT_WORKERS", &cfg.Workers},
		{"TRT_TILE_SIZE", &cfg.TileSize},
	}
	for _, v := range intVars {
		raw := strings.TrimSpace(os.Getenv(v.key))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s must be an integer, got %q", v.key, raw))
			continue
		}
		*v.target = value
	}

	if raw := strings.TrimSpace(os.Getenv("TRT_SEED")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			problems = append(problems, fmt.Errorf("TRT_SEED must be an integer, got %q", raw))
		} else {
			cfg.Seed = value
		}
	}

	if len(problems) > 0 {
		return base, errors.Join(problems...)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.Scene) == "" {
		problems = append(problems, errors.New("scene must not be empty"))
	}
	if c.Width <= 0 {
		problems = append(problems, fmt.Errorf("width must be positive, got %d", c.Width))
	}
	if c.Height <= 0 {
		problems = append(problems, fmt.Errorf("height must be positive, got %d", c.Height))
	}
	if c.Samples <= 0 {
		problems = append(problems, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	if c.MaxDepth <= 0 {
		problems = append(problems, fmt.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.TileSize < 0 {
		problems = append(problems, fmt.Errorf("tile size must not be negative, got %d", c.TileSize))
	}
	if !isFormat(c.Format) {
		problems = append(problems, fmt.Errorf("unknown output format %q (supported: %s)", c.Format, strings.Join(formats, ", ")))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, err)
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}

// RenderConfig converts the settings into a renderer configuration.
func (c Config) RenderConfig() renderer.RenderConfig {
	return renderer.RenderConfig{
		Width:           c.Width,
		Height:          c.Height,
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
		TileSize:        c.TileSize,
		NumWorkers:      c.Workers,
		Seed:            c.Seed,
		Jitter:          true,
	}
}

// OutputPath resolves Out into a file path. When Out is a directory, either
// existing or ending in a separator, a timestamped file name is generated
// inside it using Format.
func (c Config) OutputPath(now time.Time) string {
	isDir := strings.HasSuffix(c.Out, "/") || strings.HasSuffix(c.Out, string(os.PathSeparator))
	if !isDir {
		if info, err := os.Stat(c.Out); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if !isDir {
		return c.Out
	}

	name := fmt.Sprintf("%s-%s.%s", sanitize(c.Scene), now.Format("20060102-150405"), c.Format)
	return filepath.Join(c.Out, name)
}

// sanitize keeps scene names usable as file names
func sanitize(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(os.PathSeparator) {
		return "render"
	}
	return base
}

func isFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
