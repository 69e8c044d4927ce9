package imageio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-trt/pkg/renderer"
)

// Format identifies an output encoding by its file extension
type Format string

const (
	FormatPNG       Format = "png"
	FormatPPM       Format = "ppm"
	FormatPPMZstd   Format = "ppm.zst"
	FormatPPMSnappy Format = "ppm.sz"
)

// Formats lists every supported output format
func Formats() []Format {
	return []Format{FormatPNG, FormatPPM, FormatPPMZstd, FormatPPMSnappy}
}

// FormatFromPath picks the format from a file name. Compound extensions are
// matched before simple ones.
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".ppm.zst"):
		return FormatPPMZstd, nil
	case strings.HasSuffix(lower, ".ppm.sz"):
		return FormatPPMSnappy, nil
	case strings.HasSuffix(lower, ".ppm"):
		return FormatPPM, nil
	case strings.HasSuffix(lower, ".png"):
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unsupported image extension in %q (use .png, .ppm, .ppm.zst or .ppm.sz)", path)
	}
}

// EnsureDir creates the parent directory of path if it does not exist
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Save writes the frame to path, choosing the encoding from the extension
// and creating the output directory as needed
func Save(path string, frame *renderer.Frame) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := EnsureDir(path); err != nil {
		return err
	}

	if format == FormatPNG {
		if err := gg.NewContextForRGBA(frame.ToRGBA()).SavePNG(path); err != nil {
			return fmt.Errorf("failed to save PNG: %w", err)
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := Encode(file, frame, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Encode writes the frame to w in the given format
func Encode(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPNG:
		return EncodePNG(w, frame)
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPPMZstd:
		return WritePPMZstd(w, frame)
	case FormatPPMSnappy:
		return WritePPMSnappy(w, frame)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// EncodePNG writes the frame as PNG
func EncodePNG(w io.Writer, frame *renderer.Frame) error {
	if err := gg.NewContextForRGBA(frame.ToRGBA()).EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WritePPM writes the frame as a binary (P6) portable pixmap
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	buf := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(buf, "P6\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}
	if _, err := buf.Write(frame.Bytes()); err != nil {
		return fmt.Errorf("failed to write PPM pixels: %w", err)
	}
	return buf.Flush()
}

// WritePPMZstd writes a P6 pixmap inside a zstd stream
func WritePPMZstd(w io.Writer, frame *renderer.Frame) error {
	stream, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd stream: %w", err)
	}
	if err := WritePPM(stream, frame); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}

// WritePPMSnappy writes a P6 pixmap inside a framed snappy stream
func WritePPMSnappy(w io.Writer, frame *renderer.Frame) error {
	stream := snappy.NewBufferedWriter(w)
	if err := WritePPM(stream, frame); err != nil {
		stream.Close()
		return err
	}
	return stream.Close()
}
