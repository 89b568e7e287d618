package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// MaskThreshold is the 8-bit luminance a resampled mask pixel must exceed to be selected.
const MaskThreshold = 32

// Mask is a binary selection raster. Pix holds one byte per pixel, 1 for
// selected and 0 otherwise.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates an empty (all zero) mask.
func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// PrepareMask turns an arbitrary mask image into a binary mask of the given size.
//
// A source of a different resolution is first resampled with a Catmull-Rom
// filter and only then thresholded, so that scaled selections keep smooth
// edges instead of blocky ones. Colour sources are reduced to luminance and
// alpha is ignored, so white painted on a transparent background counts as
// white whatever its opacity. A result with no selected pixels is valid; see Mask.Empty.
func PrepareMask(src image.Image, size image.Point) (*Mask, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: mask image cannot be nil", ErrInvalidInput)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: mask target size %dx%d", ErrInvalidInput, size.X, size.Y)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("%w: mask image has no pixels", ErrInvalidInput)
	}

	opaque := opaqueCopy(src)
	gray := image.NewGray(image.Rect(0, 0, size.X, size.Y))
	if sb.Size() != size {
		draw.CatmullRom.Scale(gray, gray.Bounds(), opaque, opaque.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(gray, gray.Bounds(), opaque, image.Point{}, draw.Src)
	}

	m := NewMask(size.X, size.Y)
	for y := range size.Y {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+size.X]
		for x, lum := range row {
			if lum > MaskThreshold {
				m.Pix[y*size.X+x] = 1
			}
		}
	}
	return m, nil
}

// opaqueCopy returns src as straight-alpha NRGBA with every alpha set to 255.
// Drawing src directly would premultiply, darkening translucent pixels.
func opaqueCopy(src image.Image) *image.NRGBA {
	sb := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	if n, ok := src.(*image.NRGBA); ok {
		for y := range sb.Dy() {
			srcOff := n.PixOffset(sb.Min.X, sb.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+sb.Dx()*4], n.Pix[srcOff:srcOff+sb.Dx()*4])
		}
	} else {
		for y := range sb.Dy() {
			for x := range sb.Dx() {
				c := color.NRGBAModel.Convert(src.At(sb.Min.X+x, sb.Min.Y+y)).(color.NRGBA)
				dst.SetNRGBA(x, y, c)
			}
		}
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// Size returns the mask dimensions.
func (m *Mask) Size() image.Point {
	return image.Pt(m.Width, m.Height)
}

// Selected reports whether pixel (x, y) is part of the selection.
func (m *Mask) Selected(x, y int) bool {
	return m.Pix[y*m.Width+x] != 0
}

// Count returns the number of selected pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is selected.
func (m *Mask) Empty() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Centroid returns the mean coordinate of the selected pixels.
// ok is false for an empty selection.
func (m *Mask) Centroid() (cx, cy float64, ok bool) {
	var sx, sy float64
	n := 0
	for y := range m.Height {
		for x := range m.Width {
			if m.Pix[y*m.Width+x] == 0 {
				continue
			}
			sx += float64(x)
			sy += float64(y)
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / float64(n), sy / float64(n), true
}

// Bounds returns the smallest rectangle containing every selected pixel.
// It is the zero rectangle for an empty selection.
func (m *Mask) Bounds() image.Rectangle {
	r := image.Rectangle{}
	found := false
	for y := range m.Height {
		for x := range m.Width {
			if m.Pix[y*m.Width+x] == 0 {
				continue
			}
			if !found {
				r = image.Rect(x, y, x+1, y+1)
				found = true
				continue
			}
			r.Min.X = min(r.Min.X, x)
			r.Min.Y = min(r.Min.Y, y)
			r.Max.X = max(r.Max.X, x+1)
			r.Max.Y = max(r.Max.Y, y+1)
		}
	}
	return r
}

// Gray renders the mask as a black and white image.
func (m *Mask) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v != 0 {
			g.Pix[i] = 255
		}
	}
	return g
}
