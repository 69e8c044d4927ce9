package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TRT_SCENE", "TRT_WIDTH", "TRT_HEIGHT", "TRT_SAMPLES", "TRT_MAX_DEPTH",
		"TRT_OUT", "TRT_FORMAT", "TRT_WORKERS", "TRT_SEED", "TRT_TILE_SIZE",
		"TRT_SCENES_DIR", "TRT_LOG_LEVEL", "TRT_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv(Default())
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRT_SCENE", "random")
	t.Setenv("TRT_WIDTH", "800")
	t.Setenv("TRT_HEIGHT", "400")
	t.Setenv("TRT_SAMPLES", "16")
	t.Setenv("TRT_MAX_DEPTH", "8")
	t.Setenv("TRT_WORKERS", "2")
	t.Setenv("TRT_SEED", "-7")
	t.Setenv("TRT_OUT", "out/x.ppm")
	t.Setenv("TRT_LOG_FORMAT", "json")

	cfg, err := FromEnv(Default())
	if err != nil {
		t.Fatalf("FromEnv() returned error: %v", err)
	}

	if cfg.Scene != "random" || cfg.Width != 800 || cfg.Height != 400 {
		t.Fatalf("unexpected scene/size: %+v", cfg)
	}
	if cfg.Samples != 16 || cfg.MaxDepth != 8 || cfg.Workers != 2 || cfg.Seed != -7 {
		t.Fatalf("unexpected sampling settings: %+v", cfg)
	}
	if cfg.Out != "out/x.ppm" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected output settings: %+v", cfg)
	}
}

func TestFromEnvCollectsProblems(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRT_WIDTH", "wide")
	t.Setenv("TRT_SEED", "1.5")

	base := Default()
	cfg, err := FromEnv(base)
	if err == nil {
		t.Fatal("expected error for malformed values")
	}
	for _, want := range []string{"TRT_WIDTH", "TRT_SEED"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got %v", want, err)
		}
	}
	if cfg != base {
		t.Errorf("expected base config on error, got %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{"empty scene", func(c *Config) { c.Scene = " " }, "scene"},
		{"zero width", func(c *Config) { c.Width = 0 }, "width"},
		{"negative height", func(c *Config) { c.Height = -10 }, "height"},
		{"zero samples", func(c *Config) { c.Samples = 0 }, "samples"},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }, "depth"},
		{"negative workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"bad format", func(c *Config) { c.Format = "gif" }, "output format"},
		{"bad level", func(c *Config) { c.LogLevel = "chatty" }, "log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	// All problems are reported together
	cfg := Default()
	cfg.Width = 0
	cfg.Samples = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "width") || !strings.Contains(err.Error(), "samples") {
		t.Fatalf("expected both problems, got %v", err)
	}
}

func TestRenderConfig(t *testing.T) {
	cfg := Default()
	cfg.Workers = 3
	rc := cfg.RenderConfig()

	if rc.Width != cfg.Width || rc.Height != cfg.Height || rc.SamplesPerPixel != cfg.Samples ||
		rc.MaxDepth != cfg.MaxDepth || rc.NumWorkers != 3 || rc.Seed != cfg.Seed || !rc.Jitter {
		t.Fatalf("unexpected render config %+v", rc)
	}
	if err := rc.Validate(); err != nil {
		t.Fatalf("render config should validate: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	dir := t.TempDir()

	cfg := Default()
	cfg.Out = filepath.Join(dir, "image.png")
	if got := cfg.OutputPath(now); got != cfg.Out {
		t.Errorf("file path should be kept, got %q", got)
	}

	cfg.Out = dir
	cfg.Format = "ppm"
	want := filepath.Join(dir, "default-20240309-140506.ppm")
	if got := cfg.OutputPath(now); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	cfg.Out = "not-yet-created" + string(os.PathSeparator)
	cfg.Scene = "scenes/two-mirrors.yaml"
	want = filepath.Join("not-yet-created", "two-mirrors-20240309-140506.ppm")
	if got := cfg.OutputPath(now); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
