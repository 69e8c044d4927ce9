package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-trt/pkg/core"
	"github.com/df07/go-trt/pkg/logging"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning"
}

// WebLogger implements core.Logger by sending messages to a console channel
// and mirroring them to the server log
type WebLogger struct {
	server      *logging.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a single render
func NewWebLogger(server *logging.Logger, consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{
		server:      server,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	if wl.server != nil {
		wl.server.Printf("%s", message)
	}

	level := "info"
	if strings.HasPrefix(message, "Warning") {
		level = "warning"
	}

	// Never block the render on a slow client
	if wl.consoleChan != nil {
		select {
		case wl.consoleChan <- ConsoleMessage{
			Message:   message,
			Timestamp: time.Now(),
			Level:     level,
		}:
		default:
		}
	}
}
