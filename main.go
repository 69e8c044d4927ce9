package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/df07/go-trt/pkg/config"
	"github.com/df07/go-trt/pkg/imageio"
	"github.com/df07/go-trt/pkg/logging"
	"github.com/df07/go-trt/pkg/renderer"
	"github.com/df07/go-trt/pkg/scene"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// options are command line switches that are not part of the render config
type options struct {
	help       bool
	listScenes bool
	quiet      bool
	saveScene  string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.FromEnv(config.Default())
	if err != nil {
		fmt.Fprintf(stderr, "Invalid environment: %v\n", err)
		return exitUsage
	}

	cfg, opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if opts.help {
		printHelp(stdout)
		return exitOK
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration:\n%v\n", err)
		return exitUsage
	}

	// Validated above, so parsing cannot fail here
	level, _ := logging.ParseLevel(cfg.LogLevel)
	format, _ := logging.ParseFormat(cfg.LogFormat)
	logger := logging.New(stderr, level, format)
	logging.ReplaceGlobals(logger)

	if opts.listScenes {
		return listScenes(cfg.ScenesDir, stdout, logger)
	}

	s, err := scene.Create(cfg.Scene, cfg.Seed)
	if err != nil {
		logger.Error("failed to create scene", logging.Err(err))
		return exitFailure
	}
	logger.Info("scene ready", logging.String("scene", s.Name), logging.Int("objects", len(s.Objects)))

	if opts.saveScene != "" {
		if err := imageio.EnsureDir(opts.saveScene); err != nil {
			logger.Error("failed to save scene", logging.Err(err))
			return exitFailure
		}
		if err := scene.Save(opts.saveScene, s); err != nil {
			logger.Error("failed to save scene", logging.Err(err))
			return exitFailure
		}
		logger.Info("scene saved", logging.String("path", opts.saveScene))
		return exitOK
	}

	if err := render(cfg, s, opts, stderr, logger); err != nil {
		logger.Error("render failed", logging.Err(err))
		return exitFailure
	}
	return exitOK
}

// newFlagSet binds every flag to cfg and opts. The current cfg values become
// the flag defaults.
func newFlagSet(cfg *config.Config, opts *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("trt", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene: "+strings.Join(scene.BuiltinNames(), ", ")+", or a path to a .yaml scene file")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height in pixels")
	fs.IntVar(&cfg.Samples, "aa", cfg.Samples, "Antialiasing samples per pixel")
	fs.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum bounces per path")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "Output file (.png, .ppm, .ppm.zst, .ppm.sz) or directory")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format when --out is a directory")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers (0 = logical CPU count)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	fs.IntVar(&cfg.TileSize, "tile", cfg.TileSize, "Tile edge length in pixels")
	fs.StringVar(&cfg.ScenesDir, "scenes-dir", cfg.ScenesDir, "Directory scanned by --list-scenes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	fs.StringVar(&opts.saveScene, "save-scene", "", "Write the selected scene as YAML to this path and exit")
	fs.BoolVar(&opts.listScenes, "list-scenes", false, "List available scenes and exit")
	fs.BoolVar(&opts.quiet, "quiet", false, "Disable the progress bar")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	return fs
}

// parseFlags overrides cfg with command line flags. Flag defaults are the
// values already taken from the environment, so flags win over env.
func parseFlags(args []string, cfg config.Config, output io.Writer) (config.Config, options, error) {
	var opts options
	fs := newFlagSet(&cfg, &opts, output)

	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
		fmt.Fprintln(output, err)
		return cfg, opts, err
	}
	return cfg, opts, nil
}

func printHelp(w io.Writer) {
	cfg := config.Default()
	var opts options

	fmt.Fprintln(w, "trt - Monte Carlo sphere path tracer")
	fmt.Fprintln(w, "Usage: trt [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	newFlagSet(&cfg, &opts, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	fmt.Fprintln(w, "  default - Four spheres: diffuse, two mirrors and a large ground sphere")
	fmt.Fprintln(w, "  random  - Up to 99 random diffuse and mirror spheres (depends on --seed)")
	fmt.Fprintln(w, "  spheregrid - 10x10 grid of colored fuzzy mirrors seen through a look-at camera")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables TRT_SCENE, TRT_WIDTH, TRT_HEIGHT, TRT_SAMPLES, TRT_MAX_DEPTH,")
	fmt.Fprintln(w, "TRT_OUT, TRT_FORMAT, TRT_WORKERS, TRT_SEED, TRT_TILE_SIZE, TRT_SCENES_DIR,")
	fmt.Fprintln(w, "TRT_LOG_LEVEL and TRT_LOG_FORMAT set defaults that flags override.")
}

func listScenes(dir string, w io.Writer, logger *logging.Logger) int {
	scenes, err := scene.ListSceneFiles(dir)
	if err != nil {
		logger.Error("failed to list scenes", logging.Err(err))
		return exitFailure
	}
	for _, info := range scenes {
		objects := "generated"
		if info.Objects >= 0 {
			objects = fmt.Sprintf("%d objects", info.Objects)
		}
		fmt.Fprintf(w, "%-30s %-8s %s (%s)\n", info.ID, info.Type, info.Name, objects)
	}
	return exitOK
}

func render(cfg config.Config, s *scene.Scene, opts options, progressOut io.Writer, logger *logging.Logger) error {
	rt, err := renderer.NewRaytracer(s, cfg.RenderConfig(), logger.With(logging.String("scene", s.Name)))
	if err != nil {
		return err
	}

	if !opts.quiet {
		var bar *progressbar.ProgressBar
		rt.OnProgress(func(p renderer.TileProgress) {
			if bar == nil {
				bar = newProgressBar(p.TotalTiles, progressOut)
			}
			_ = bar.Set(p.TilesDone)
			if p.TilesDone == p.TotalTiles {
				_ = bar.Finish()
			}
		})
	}

	frame, stats, err := rt.Render(context.Background())
	if err != nil {
		return err
	}

	path := cfg.OutputPath(time.Now())
	if err := imageio.Save(path, frame); err != nil {
		return err
	}

	logger.Info("render complete",
		logging.String("path", path),
		logging.Duration("elapsed", stats.Duration.Round(time.Millisecond)),
		logging.Int("workers", stats.Workers),
		logging.Int("samples", stats.TotalSamples),
		logging.Float("samples_per_second", stats.SamplesPerSecond()),
		logging.Int("invalid_pixels", stats.InvalidPixels),
		logging.Float("average_luminance", stats.AverageLuminance),
	)
	if stats.InvalidPixels > 0 {
		logger.Warn("some pixels could not be quantized and were replaced", logging.Int("count", stats.InvalidPixels))
	}
	return nil
}

func newProgressBar(tiles int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(tiles,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Rendering"),
		progressbar.OptionSetItsString("tiles"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
