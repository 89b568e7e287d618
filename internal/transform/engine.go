package transform

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/raster"
)

var (
	// ErrInvalidInput is returned when the texture or mask is missing.
	ErrInvalidInput = raster.ErrInvalidInput

	// ErrDimensionMismatch is returned when a mask was not prepared at the texture's resolution.
	ErrDimensionMismatch = errors.New("mask and texture dimensions differ")
)

const (
	// auroraMaxSaturation caps Aurora's saturation so the shimmer never turns garish.
	auroraMaxSaturation = 0.6
	// auroraMaxHueShift bounds the wave-driven hue offset in either direction.
	auroraMaxHueShift = 0.15
	// highlightBand is the fraction of the texture height above the centroid
	// where Gradient's highlight starts.
	highlightBand = 0.05
	// highlightGain converts the Highlight parameter to a value increment.
	highlightGain = 0.15
	// minDistanceSpan guards the Gradient normalisation for single-pixel selections.
	minDistanceSpan = 1e-6
)

// Result is the output of a single transform call.
type Result struct {
	// Texture is the recoloured texture, same size as the input.
	Texture *raster.Texture
	// Emission is the glow ring mask; nil unless requested.
	Emission *image.Gray
}

// Apply runs one algorithm over a texture and its prepared mask.
// The inputs are never modified.
func Apply(tex *raster.Texture, mask *raster.Mask, preset colour.Preset, mode Mode, params Params) (*Result, error) {
	if err := checkInputs(tex, mask); err != nil {
		return nil, err
	}

	var out *raster.Texture
	switch mode {
	case ModeBasic:
		out = Basic(tex, mask, preset, params)
	case ModeGradient:
		out = Gradient(tex, mask, preset, params)
	case ModeAurora:
		out = Aurora(tex, mask, preset, params)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	res := &Result{Texture: out}
	if params.MakeEmission {
		res.Emission = BuildEmission(mask, params.RingInner, params.RingOuter, params.RingSoft)
	}
	return res, nil
}

func checkInputs(tex *raster.Texture, mask *raster.Mask) error {
	if tex == nil {
		return fmt.Errorf("%w: texture is required", ErrInvalidInput)
	}
	if mask == nil {
		return fmt.Errorf("%w: mask is required", ErrInvalidInput)
	}
	if mask.Size() != tex.Size() || len(mask.Pix) != tex.Width*tex.Height || len(tex.Pix) != tex.Width*tex.Height*4 {
		return fmt.Errorf("%w: texture %v, mask %v", ErrDimensionMismatch, tex.Size(), mask.Size())
	}
	return nil
}

// Basic sets every selected pixel to the preset hue and scaled saturation,
// blending brightness between the original and the preset value.
func Basic(tex *raster.Texture, mask *raster.Mask, preset colour.Preset, params Params) *raster.Texture {
	hue := float32(colour.WrapHue(preset.Hue))
	sat := float32(colour.Clamp01(preset.Saturation * params.SatScale))

	return recolor(tex, mask, func(_, _ int, px []float32) {
		px[0] = hue
		px[1] = sat
		px[2] = blendValue(px[2], preset.Value, params.KeepValue)
	})
}

// Gradient shades the selection from its centroid outwards: saturation and
// brightness peak at the centre and fall off towards the farthest selected
// pixel. Selected pixels above the centroid get an extra highlight.
// An empty selection returns an unmodified copy of the input.
func Gradient(tex *raster.Texture, mask *raster.Mask, preset colour.Preset, params Params) *raster.Texture {
	field, _, cy, ok := gradientField(mask)
	if !ok {
		return tex.Clone()
	}

	hue := float32(colour.WrapHue(preset.Hue))
	highlightY := cy - highlightBand*float64(tex.Height)
	lift := params.Highlight * highlightGain

	return recolor(tex, mask, func(x, y int, px []float32) {
		inv := 1.0 - field[y*mask.Width+x]
		localSat := colour.Clamp01(preset.Saturation * (0.85 + 0.3*inv))
		localVal := colour.Clamp01(preset.Value * (0.90 + 0.2*inv))

		v := float64(blendValue(px[2], localVal, params.KeepValue))
		if float64(y) < highlightY {
			v = colour.Clamp01(v + lift)
		}

		px[0] = hue
		px[1] = float32(localSat)
		px[2] = float32(v)
	})
}

// gradientField returns, for every pixel, the distance to the selection
// centroid normalised so the nearest selected pixel maps to 0 and the
// farthest to 1. Unselected pixels are clamped into the same range.
func gradientField(mask *raster.Mask) (field []float64, cx, cy float64, ok bool) {
	cx, cy, ok = mask.Centroid()
	if !ok {
		return nil, 0, 0, false
	}

	field = make([]float64, mask.Width*mask.Height)
	selected := make([]float64, 0, mask.Count())
	for y := range mask.Height {
		for x := range mask.Width {
			i := y*mask.Width + x
			field[i] = math.Hypot(float64(x)-cx, float64(y)-cy)
			if mask.Pix[i] != 0 {
				selected = append(selected, field[i])
			}
		}
	}

	lo := floats.Min(selected)
	span := math.Max(floats.Max(selected)-lo, minDistanceSpan)
	for i, d := range field {
		field[i] = colour.Clamp01((d - lo) / span)
	}
	return field, cx, cy, true
}

// Aurora ripples the preset hue along a fixed interference pattern of sine
// waves, with a gently varying saturation capped at 0.6.
func Aurora(tex *raster.Texture, mask *raster.Mask, preset colour.Preset, params Params) *raster.Texture {
	return recolor(tex, mask, func(x, y int, px []float32) {
		fx, fy := float64(x), float64(y)
		wave := math.Sin((fx+fy)*0.02)*0.4 + math.Cos(fx*0.015)*0.3 + math.Sin(fy*0.02)*0.3
		shift := clamp(wave*params.AuroraStrength, -auroraMaxHueShift, auroraMaxHueShift)
		sat := preset.Saturation + math.Sin(fx*0.01+fy*0.015)*0.1 + 0.1

		px[0] = float32(colour.WrapHue(preset.Hue + shift))
		px[1] = float32(clamp(sat, 0, auroraMaxSaturation))
		px[2] = blendValue(px[2], preset.Value, params.KeepValue)
	})
}

// shader rewrites the h, s, v channels of one selected pixel in place.
// px holds h, s, v and alpha; alpha must be left alone.
type shader func(x, y int, px []float32)

// recolor converts the texture to HSV, shades every selected pixel, converts
// back and composites the result over a copy of the input by mask.
// Unselected pixels and all alpha values are copied bit for bit.
func recolor(tex *raster.Texture, mask *raster.Mask, shade shader) *raster.Texture {
	hsv := make([]float32, len(tex.Pix))
	colour.RGBAToHSVA(hsv, tex.Pix)

	for y := range tex.Height {
		for x := range tex.Width {
			if mask.Selected(x, y) {
				i := tex.Offset(x, y)
				shade(x, y, hsv[i:i+4])
			}
		}
	}

	rgb := make([]float32, len(hsv))
	colour.HSVAToRGBA(rgb, hsv)

	out := tex.Clone()
	for i, sel := range mask.Pix {
		if sel == 0 {
			continue
		}
		o := i * 4
		copy(out.Pix[o:o+3], rgb[o:o+3])
	}
	return out
}

// blendValue mixes the original brightness with a target by the keep ratio.
func blendValue(orig float32, target, keep float64) float32 {
	return float32(colour.Clamp01(float64(orig)*keep + target*(1.0-keep)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
