package renderer

import (
	"image"
	"image/color"
)

// RGB is an 8-bit per channel pixel
type RGB struct {
	R, G, B uint8
}

// Frame is a rendered image stored row-major from the top row down
type Frame struct {
	Width  int
	Height int
	Pix    []RGB
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// Index returns the buffer index of pixel (x, y), with y = 0 the top row
func (f *Frame) Index(x, y int) int {
	return y*f.Width + x
}

// At returns the pixel at (x, y)
func (f *Frame) At(x, y int) RGB {
	return f.Pix[f.Index(x, y)]
}

// Set stores the pixel at (x, y)
func (f *Frame) Set(x, y int, c RGB) {
	f.Pix[f.Index(x, y)] = c
}

// ToRGBA converts the frame into an opaque RGBA image
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// Bytes returns the pixels packed as consecutive R, G, B bytes
func (f *Frame) Bytes() []byte {
	out := make([]byte, 0, len(f.Pix)*3)
	for _, p := range f.Pix {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}

// AverageLuminance returns the mean Rec. 709 luminance of the frame in [0, 1]
func (f *Frame) AverageLuminance() float64 {
	if len(f.Pix) == 0 {
		return 0
	}

	total := 0.0
	for _, p := range f.Pix {
		r := float64(p.R) / 255.0
		g := float64(p.G) / 255.0
		b := float64(p.B) / 255.0
		total += 0.2126*r + 0.7152*g + 0.0722*b
	}
	return total / float64(len(f.Pix))
}
