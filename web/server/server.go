package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-trt/pkg/config"
	"github.com/df07/go-trt/pkg/imageio"
	"github.com/df07/go-trt/pkg/logging"
	"github.com/df07/go-trt/pkg/renderer"
	"github.com/df07/go-trt/pkg/scene"
)

// Request limits
const (
	minDimension = 1
	maxDimension = 2000
	maxSamples   = 10000
	maxDepth     = 1000
)

// Server handles web requests for the ray tracer
type Server struct {
	port      int
	scenesDir string
	logger    *logging.Logger
}

// NewServer creates a new web server. Scene files are only served from
// scenesDir.
func NewServer(port int, scenesDir string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.L()
	}
	return &Server{port: port, scenesDir: scenesDir, logger: logger}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Samples  int    `json:"samples"`
	MaxDepth int    `json:"maxDepth"`
	Seed     int64  `json:"seed"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	InvalidPixels    int     `json:"invalidPixels"`
	Tiles            int     `json:"tiles"`
	Workers          int     `json:"workers"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

func newStats(stats renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      stats.TotalPixels,
		TotalSamples:     stats.TotalSamples,
		InvalidPixels:    stats.InvalidPixels,
		Tiles:            stats.Tiles,
		Workers:          stats.Workers,
		ElapsedMs:        stats.Duration.Milliseconds(),
		SamplesPerSecond: stats.SamplesPerSecond(),
		AverageLuminance: stats.AverageLuminance,
	}
}

// Handler builds the echo instance with every route registered
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.requestLogger)
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/render/ws", s.handleRenderWS)
	e.GET("/api/inspect", s.handleInspect)

	return e
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	e := s.Handler()
	addr := fmt.Sprintf(":%d", s.port)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", logging.String("addr", addr))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// requestLogger attaches a request-scoped logger carrying a request ID
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		requestID := req.Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		logger := s.logger.With(
			logging.String(logging.RequestIDField, requestID),
			logging.String("path", req.URL.Path),
		)
		c.SetRequest(req.WithContext(logging.ContextWithLogger(req.Context(), logger)))

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		logger.Debug("request handled",
			logging.Int("status", c.Response().Status),
			logging.Duration("elapsed", time.Since(start)),
		)
		return nil
	}
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET")
		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files on disk
func (s *Server) handleScenes(c echo.Context) error {
	scenes, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		logging.LoggerFromContext(c.Request().Context()).Error("failed to list scenes", logging.Err(err))
		return jsonError(c, http.StatusInternalServerError, "failed to list scenes")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// handleRender renders a frame synchronously and returns it as PNG
func (s *Server) handleRender(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logging.LoggerFromContext(ctx)

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
	}
	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	frame, stats, err := renderer.Render(ctx, sceneObj, renderConfig(req), logger, nil)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("render cancelled by client")
			return nil
		}
		logger.Error("render failed", logging.Err(err))
		return jsonError(c, http.StatusInternalServerError, fmt.Sprintf("render failed: %v", err))
	}

	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, frame); err != nil {
		return jsonError(c, http.StatusInternalServerError, "failed to encode image")
	}

	logger.Info("render complete",
		logging.String("scene", sceneObj.Name),
		logging.Duration("elapsed", stats.Duration),
		logging.Int("invalid_pixels", stats.InvalidPixels),
	)
	c.Response().Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// createScene resolves a built-in scene name or a scene ID from the scenes
// directory listing
func (s *Server) createScene(name string, seed int64) (*scene.Scene, error) {
	if !scene.IsSceneFile(name) {
		return scene.Create(name, seed)
	}

	scenes, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range scenes {
		if info.Type == scene.TypeFile && info.ID == name {
			return scene.Load(info.FilePath)
		}
	}
	return nil, fmt.Errorf("unknown scene %q", name)
}

// parseRenderRequest parses and validates query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: config.DefaultScene}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", config.DefaultWidth, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", config.DefaultHeight, minDimension, maxDimension); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", config.DefaultSamples, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", config.DefaultMaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	req.Seed = config.DefaultSeed
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func renderConfig(req *RenderRequest) renderer.RenderConfig {
	cfg := renderer.DefaultRenderConfig()
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.SamplesPerPixel = req.Samples
	cfg.MaxDepth = req.MaxDepth
	cfg.Seed = req.Seed
	return cfg
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
