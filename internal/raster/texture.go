// Package raster provides the float texture and binary mask buffers that the
// recolouring engine operates on.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/iristint/internal/security"
)

// ErrInvalidInput is returned when a required texture or mask is missing or has no pixels.
var ErrInvalidInput = errors.New("invalid input")

// Texture is an RGBA raster with channels normalised to [0, 1].
// Pix holds 4 float32 values per pixel in row-major order; colour channels
// are not premultiplied by alpha.
type Texture struct {
	Width  int
	Height int
	Pix    []float32
}

// NewTexture allocates a fully transparent black texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*4),
	}
}

// FromImage converts any decoded image into a texture. Images without an
// alpha channel come through fully opaque.
func FromImage(img image.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: texture image cannot be nil", ErrInvalidInput)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: texture image has no pixels", ErrInvalidInput)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	t := NewTexture(b.Dx(), b.Dy())
	for y := range t.Height {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+t.Width*4]
		base := y * t.Width * 4
		for i, v := range row {
			t.Pix[base+i] = float32(v) / 255.0
		}
	}
	return t, nil
}

// Size returns the texture dimensions.
func (t *Texture) Size() image.Point {
	return image.Pt(t.Width, t.Height)
}

// Offset returns the index of the first channel of pixel (x, y) in Pix.
func (t *Texture) Offset(x, y int) int {
	return (y*t.Width + x) * 4
}

// Clone returns a deep copy of the texture.
func (t *Texture) Clone() *Texture {
	c := &Texture{Width: t.Width, Height: t.Height, Pix: make([]float32, len(t.Pix))}
	copy(c.Pix, t.Pix)
	return c
}

// NRGBA quantises the texture to 8 bits per channel.
func (t *Texture) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		row := out.Pix[y*out.Stride : y*out.Stride+t.Width*4]
		base := y * t.Width * 4
		for i := range row {
			row[i] = quantise(t.Pix[base+i])
		}
	}
	return out
}

// quantise maps a [0, 1] channel to [0, 255], rounding to nearest.
func quantise(v float32) uint8 {
	if v != v { // NaN
		return 0
	}
	return security.SafeUint8(int(math.Round(float64(v) * 255.0)))
}
