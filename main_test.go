package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-trt/pkg/config"
	"github.com/df07/go-trt/pkg/imageio"
	"github.com/df07/go-trt/pkg/scene"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		check    func(t *testing.T, cfg config.Config, opts options)
		expectOK bool
	}{
		{
			name:     "no flags keeps base",
			args:     nil,
			expectOK: true,
			check: func(t *testing.T, cfg config.Config, opts options) {
				if cfg != config.Default() {
					t.Errorf("Expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name:     "render settings",
			args:     []string{"--width", "64", "--height", "32", "--aa", "4", "--depth", "7", "--seed", "9", "--tile", "8"},
			expectOK: true,
			check: func(t *testing.T, cfg config.Config, opts options) {
				if cfg.Width != 64 || cfg.Height != 32 || cfg.Samples != 4 || cfg.MaxDepth != 7 || cfg.Seed != 9 || cfg.TileSize != 8 {
					t.Errorf("Flags not applied: %+v", cfg)
				}
			},
		},
		{
			name:     "switches",
			args:     []string{"--quiet", "--list-scenes", "--save-scene", "out.yaml"},
			expectOK: true,
			check: func(t *testing.T, cfg config.Config, opts options) {
				if !opts.quiet || !opts.listScenes || opts.saveScene != "out.yaml" {
					t.Errorf("Switches not applied: %+v", opts)
				}
			},
		},
		{"unknown flag", []string{"--bogus"}, nil, false},
		{"bad integer", []string{"--width", "wide"}, nil, false},
		{"positional argument", []string{"extra"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, opts, err := parseFlags(tt.args, config.Default(), &out)
			if tt.expectOK && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.expectOK {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			tt.check(t, cfg, opts)
		})
	}
}

func TestParseFlags_OverridesEnvironment(t *testing.T) {
	t.Setenv("TRT_WIDTH", "50")
	t.Setenv("TRT_SCENE", "random")

	base, err := config.FromEnv(config.Default())
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	cfg, _, err := parseFlags([]string{"--width", "20"}, base, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if cfg.Width != 20 {
		t.Errorf("Flag should win over env: expected width 20, got %d", cfg.Width)
	}
	if cfg.Scene != "random" {
		t.Errorf("Env should be kept when no flag is given: expected random, got %s", cfg.Scene)
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--help"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("Expected exit %d, got %d", exitOK, code)
	}
	for _, want := range []string{"Usage: trt", "-scene", "-aa", "TRT_SCENE"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Help output missing %q", want)
		}
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"zero width", []string{"--width", "0"}},
		{"negative samples", []string{"--aa", "-1"}},
		{"bad format", []string{"--format", "gif"}},
		{"bad log level", []string{"--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != exitUsage {
				t.Errorf("Expected exit %d, got %d (stderr: %s)", exitUsage, code, stderr.String())
			}
		})
	}
}

func TestRun_InvalidEnvironment(t *testing.T) {
	t.Setenv("TRT_SAMPLES", "many")

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != exitUsage {
		t.Errorf("Expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr.String(), "TRT_SAMPLES") {
		t.Errorf("Expected the offending variable in the message, got %q", stderr.String())
	}
}

func TestRun_UnknownScene(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--scene", "nope", "--out", filepath.Join(t.TempDir(), "x.png")}, &stdout, &stderr)
	if code != exitFailure {
		t.Errorf("Expected exit %d, got %d", exitFailure, code)
	}
}

func TestRun_Render(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"png", "out/render.png"},
		{"ppm", "render.ppm"},
		{"zstd ppm", "render.ppm.zst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.output)
			args := []string{"--width", "8", "--height", "4", "--aa", "2", "--depth", "5", "--quiet", "--out", path}

			var stdout, stderr bytes.Buffer
			if code := run(args, &stdout, &stderr); code != exitOK {
				t.Fatalf("Expected exit %d, got %d (stderr: %s)", exitOK, code, stderr.String())
			}

			frame, err := imageio.Load(path)
			if err != nil {
				t.Fatalf("Failed to load rendered image: %v", err)
			}
			if frame.Width != 8 || frame.Height != 4 {
				t.Errorf("Expected 8x4 image, got %dx%d", frame.Width, frame.Height)
			}
			if !strings.Contains(stderr.String(), "render complete") {
				t.Errorf("Expected completion log line, got %q", stderr.String())
			}
		})
	}
}

func TestRun_RenderIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	args := []string{"--width", "4", "--height", "4", "--aa", "1", "--quiet", "--out", dir, "--format", "ppm"}

	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("Expected exit %d, got %d (stderr: %s)", exitOK, code, stderr.String())
	}

	matches, err := filepath.Glob(filepath.Join(dir, "default-*.ppm"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected one timestamped render, found %v", matches)
	}
}

func TestRun_SaveScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes", "random.yaml")
	args := []string{"--scene", "random", "--seed", "3", "--save-scene", path}

	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("Expected exit %d, got %d (stderr: %s)", exitOK, code, stderr.String())
	}

	saved, err := scene.Load(path)
	if err != nil {
		t.Fatalf("Failed to load saved scene: %v", err)
	}
	original, err := scene.Create("random", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Objects) != len(original.Objects) {
		t.Errorf("Expected %d objects, got %d", len(original.Objects), len(saved.Objects))
	}
}

func TestRun_ListScenes(t *testing.T) {
	dir := t.TempDir()
	doc := "name: Two Mirrors\nobjects:\n  - sphere: {center: [0, 0, -1], radius: 0.5}\n    material: {type: mirror, albedo: [1, 1, 1]}\n"
	if err := os.WriteFile(filepath.Join(dir, "two-mirrors.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"--list-scenes", "--scenes-dir", dir}, &stdout, &stderr); code != exitOK {
		t.Fatalf("Expected exit %d, got %d", exitOK, code)
	}

	out := stdout.String()
	for _, want := range []string{"default", "random", "Two Mirrors", "1 objects"} {
		if !strings.Contains(out, want) {
			t.Errorf("Scene list missing %q:\n%s", want, out)
		}
	}
}
