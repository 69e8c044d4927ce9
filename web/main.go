package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-trt/pkg/config"
	"github.com/df07/go-trt/pkg/logging"
	"github.com/df07/go-trt/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes-dir", config.DefaultScenesDir, "Directory of YAML scene files")
	logLevel := flag.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", config.DefaultLogFormat, "Log format: text or json")
	flag.Parse()

	logger, err := logging.NewFromConfig(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging configuration: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(*port, *scenesDir, logger)
	logger.Info("ray tracer web server", logging.String("url", fmt.Sprintf("http://localhost:%d", *port)))

	if err := webServer.Start(ctx); err != nil {
		logger.Error("web server stopped", logging.Err(err))
		os.Exit(1)
	}
}
