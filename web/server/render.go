package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/imageio"
	"github.com/df07/go-trt/pkg/logging"
	"github.com/df07/go-trt/pkg/renderer"
	"github.com/df07/go-trt/pkg/scene"
)

// Message types sent over the render websocket
const (
	MessageProgress = "progress"
	MessageConsole  = "console"
	MessageComplete = "complete"
	MessageError    = "error"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RenderMessage is a single websocket message. Type selects which of the
// remaining fields are set.
type RenderMessage struct {
	Type      string           `json:"type"`
	Progress  *ProgressMessage `json:"progress,omitempty"`
	Console   *ConsoleMessage  `json:"console,omitempty"`
	ImageData string           `json:"imageData,omitempty"` // Base64 encoded PNG
	Stats     *Stats           `json:"stats,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// ProgressMessage reports a completed tile
type ProgressMessage struct {
	TileID      int     `json:"tileId"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TilesDone   int     `json:"tilesDone"`
	TotalTiles  int     `json:"totalTiles"`
	PixelsDone  int     `json:"pixelsDone"`
	TotalPixels int     `json:"totalPixels"`
	Fraction    float64 `json:"fraction"`
}

func newProgressMessage(p renderer.TileProgress) *ProgressMessage {
	return &ProgressMessage{
		TileID:      p.TileID,
		X:           p.Bounds.Min.X,
		Y:           p.Bounds.Min.Y,
		Width:       p.Bounds.Dx(),
		Height:      p.Bounds.Dy(),
		TilesDone:   p.TilesDone,
		TotalTiles:  p.TotalTiles,
		PixelsDone:  p.PixelsDone,
		TotalPixels: p.TotalPixels,
		Fraction:    p.Fraction(),
	}
}

// handleRenderWS streams tile progress over a websocket and finishes with
// the encoded image. Closing the socket cancels the render.
func (s *Server) handleRenderWS(c echo.Context) error {
	logger := logging.LoggerFromContext(c.Request().Context())

	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
	}
	sceneObj, err := s.createScene(req.Scene, req.Seed)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logging.Err(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// The client never sends anything; a read error means it went away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	consoleChan := make(chan ConsoleMessage, 100)
	events := make(chan RenderMessage, 100)
	go s.runRender(ctx, req, sceneObj, NewWebLogger(logger, consoleChan), events)

	s.writeMessages(ctx, conn, events, consoleChan, logger)
	return nil
}

// runRender renders the frame and reports progress on events, which it
// closes when done
func (s *Server) runRender(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, logger core.Logger, events chan<- RenderMessage) {
	defer close(events)

	send := func(msg RenderMessage) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	rt, err := renderer.NewRaytracer(sceneObj, renderConfig(req), logger)
	if err != nil {
		send(RenderMessage{Type: MessageError, Error: err.Error()})
		return
	}
	rt.OnProgress(func(p renderer.TileProgress) {
		send(RenderMessage{Type: MessageProgress, Progress: newProgressMessage(p)})
	})

	frame, stats, err := rt.Render(ctx)
	if err != nil {
		send(RenderMessage{Type: MessageError, Error: err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := imageio.EncodePNG(&buf, frame); err != nil {
		send(RenderMessage{Type: MessageError, Error: "failed to encode image"})
		return
	}

	summary := newStats(stats)
	send(RenderMessage{
		Type:      MessageComplete,
		ImageData: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Stats:     &summary,
	})
}

// writeMessages is the only goroutine writing to conn. It returns once the
// render has finished and its final message has been sent.
func (s *Server) writeMessages(ctx context.Context, conn *websocket.Conn, events <-chan RenderMessage, consoleChan <-chan ConsoleMessage, logger *logging.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	write := func(msg RenderMessage) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("websocket write failed", logging.Err(err))
			return false
		}
		return true
	}

	for {
		select {
		case console := <-consoleChan:
			if !write(RenderMessage{Type: MessageConsole, Console: &console}) {
				return
			}
		case msg, ok := <-events:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			// Flush pending console lines so they arrive before the result
			for drained := false; !drained; {
				select {
				case console := <-consoleChan:
					if !write(RenderMessage{Type: MessageConsole, Console: &console}) {
						return
					}
				default:
					drained = true
				}
			}
			if !write(msg) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			logger.Info("render stream closed by client")
			return
		}
	}
}
