// Package colour provides the HSV colour model and the named recolouring presets.
package colour

import "math"

// hsvEpsilon keeps the saturation and hue divisions finite for black and grey pixels.
const hsvEpsilon = 1e-12

// sectorPerm maps each 60° hue sector to the order in which the candidate
// values (chroma, intermediate, zero) land in the red, green and blue channels.
var sectorPerm = [6][3]uint8{
	{0, 1, 2}, // (c, x, 0)
	{1, 0, 2}, // (x, c, 0)
	{2, 0, 1}, // (0, c, x)
	{2, 1, 0}, // (0, x, c)
	{1, 2, 0}, // (x, 0, c)
	{0, 2, 1}, // (c, 0, x)
}

// Clamp01 limits v to the closed unit interval.
func Clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}

// WrapHue wraps a hue expressed in turns into [0, 1).
func WrapHue(h float64) float64 {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	if h >= 1.0 {
		h = 0
	}
	return h
}

// RGBToHSV converts normalised RGB to HSV, all components in [0, 1].
// Hue is expressed in turns rather than degrees. Inputs outside [0, 1] are
// not rejected; callers own that precondition.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	v = maxc
	s = (maxc - minc) / (maxc + hsvEpsilon)

	if maxc == minc {
		return 0, s, v
	}

	denom := (maxc - minc) + hsvEpsilon
	rc := (maxc - r) / denom
	gc := (maxc - g) / denom
	bc := (maxc - b) / denom

	switch maxc {
	case r:
		h = bc - gc
	case g:
		h = 2.0 + rc - bc
	default:
		h = 4.0 + gc - rc
	}

	return WrapHue(h / 6.0), s, v
}

// HSVToRGB converts HSV (hue in turns) back to normalised RGB.
// It is the numerical inverse of RGBToHSV.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	c := v * s
	h6 := math.Mod(h*6.0, 6.0)
	if h6 < 0 {
		h6 += 6.0
	}
	x := c * (1 - math.Abs(math.Mod(h6, 2.0)-1))
	m := v - c

	sector := int(h6)
	if sector > 5 {
		sector = 5
	}

	candidates := [3]float64{c, x, 0}
	p := sectorPerm[sector]
	return candidates[p[0]] + m, candidates[p[1]] + m, candidates[p[2]] + m
}

// RGBAToHSVA converts a packed RGBA buffer to packed HSVA.
// Alpha is copied unchanged. Only whole pixels present in both slices are converted.
func RGBAToHSVA(dst, src []float32) {
	n := min(len(dst), len(src)) / 4 * 4
	for i := 0; i < n; i += 4 {
		h, s, v := RGBToHSV(float64(src[i]), float64(src[i+1]), float64(src[i+2]))
		dst[i] = float32(h)
		dst[i+1] = float32(s)
		dst[i+2] = float32(v)
		dst[i+3] = src[i+3]
	}
}

// HSVAToRGBA converts a packed HSVA buffer to packed RGBA, clamping every
// channel to [0, 1]. Alpha is copied unchanged.
//
// The sector of every pixel is resolved to an index into sectorPerm, so the
// per-pixel work is a table lookup rather than a six-way branch.
func HSVAToRGBA(dst, src []float32) {
	n := min(len(dst), len(src)) / 4 * 4
	for i := 0; i < n; i += 4 {
		r, g, b := HSVToRGB(float64(src[i]), float64(src[i+1]), float64(src[i+2]))
		dst[i] = float32(Clamp01(r))
		dst[i+1] = float32(Clamp01(g))
		dst[i+2] = float32(Clamp01(b))
		dst[i+3] = src[i+3]
	}
}
