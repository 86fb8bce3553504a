// Package raster defines the decoded frame type consumed by all analyzers
// and the shared pixel-level primitives they are built on.
//
// A Frame is an immutable RGBA8 raster owned by the caller. Analyzers only
// read it, so a single Frame may be analyzed concurrently without locking.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// ErrInvalidFrame is returned when a frame's dimensions and buffer length
// do not agree.
var ErrInvalidFrame = errors.New("raster: invalid frame")

// Frame is a decoded RGBA8 raster: Pix holds interleaved R,G,B,A bytes
// row by row, so len(Pix) must equal Width*Height*4.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New validates the dimensions against the buffer and returns a Frame.
// The buffer is not copied; the caller must not mutate it while the
// frame is being analyzed.
func New(width, height int, pix []byte) (Frame, error) {
	f := Frame{Width: width, Height: height, Pix: pix}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate checks the frame invariants: positive dimensions and a pixel
// buffer of exactly Width*Height*4 bytes.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if want := f.Width * f.Height * 4; len(f.Pix) != want {
		return fmt.Errorf("%w: buffer length %d, want %d (%dx%dx4)",
			ErrInvalidFrame, len(f.Pix), want, f.Width, f.Height)
	}
	return nil
}

// FromImage converts any decoded image into a Frame. The pixel data is
// copied into a fresh NRGBA buffer so the resulting frame is independent
// of the source image.
func FromImage(img image.Image) Frame {
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)

	return Frame{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    nrgba.Pix,
	}
}

// RGBA returns the channel bytes at (x, y). Coordinates must be in range.
func (f Frame) RGBA(x, y int) (r, g, b, a uint8) {
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
}

// In reports whether (x, y) lies inside the frame.
func (f Frame) In(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}
