package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-trt/pkg/renderer"
)

// Load reads an image written by Save back into a frame
func Load(path string) (*renderer.Frame, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file, format)
}

// Decode reads a frame in any of the formats Save writes
func Decode(r io.Reader, format Format) (*renderer.Frame, error) {
	switch format {
	case FormatPNG:
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode PNG: %w", err)
		}
		return FromImage(img), nil
	case FormatPPM:
		return ReadPPM(r)
	case FormatPPMZstd:
		stream, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer stream.Close()
		return ReadPPM(stream)
	case FormatPPMSnappy:
		return ReadPPM(snappy.NewReader(r))
	default:
		return nil, fmt.Errorf("cannot decode format %q", format)
	}
}

// Pixmap size limits checked before any pixel buffer is allocated
const (
	maxPPMDimension = 1 << 16
	maxPPMPixels    = 1 << 28
)

// ReadPPM parses a binary P6 pixmap with a maximum value of 255
func ReadPPM(r io.Reader) (*renderer.Frame, error) {
	buf := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(buf, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("failed to read PPM header: %w", err)
	}
	if magic != "P6" || maxVal != 255 || width < 0 || height < 0 {
		return nil, fmt.Errorf("unsupported PPM header %s %dx%d max %d", magic, width, height, maxVal)
	}
	if width > maxPPMDimension || height > maxPPMDimension || width*height > maxPPMPixels {
		return nil, fmt.Errorf("PPM dimensions %dx%d exceed the supported size", width, height)
	}
	if err := renderer.CheckFrameMemory(width, height); err != nil {
		return nil, err
	}
	// Exactly one whitespace byte separates the header from the pixels
	if _, err := buf.ReadByte(); err != nil {
		return nil, fmt.Errorf("truncated PPM header: %w", err)
	}

	data := make([]byte, width*height*3)
	if _, err := io.ReadFull(buf, data); err != nil {
		return nil, fmt.Errorf("failed to read PPM pixels: %w", err)
	}

	frame := renderer.NewFrame(width, height)
	for i := range frame.Pix {
		frame.Pix[i] = renderer.RGB{R: data[3*i], G: data[3*i+1], B: data[3*i+2]}
	}
	return frame, nil
}

// FromImage converts any decoded image into a frame, dropping alpha
func FromImage(img image.Image) *renderer.Frame {
	bounds := img.Bounds()
	frame := renderer.NewFrame(bounds.Dx(), bounds.Dy())

	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			frame.Set(x, y, renderer.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}
	return frame
}
