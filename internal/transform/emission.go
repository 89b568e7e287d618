package transform

import (
	"image"
	"math"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/raster"
)

// radiusEpsilon keeps the characteristic radius non-zero for one-pixel-wide selections.
const radiusEpsilon = 1e-6

// BuildEmission synthesizes a grayscale glow mask for the selection.
//
// Distances are measured from the selection centroid in units of a
// characteristic radius, the hypotenuse of the half-extents of the
// selection's bounding box. inner and outer are radii in those units and
// softness is the width of the feathered transition at each edge. Both edges
// fade outwards: the inner edge over (inner, inner+softness) and the outer
// edge over (outer, outer+softness). The centre is therefore lit, and with the
// default radii the glow is a filled disc fading out past inner rather than a
// hollow ring. The result is zero outside the selection, and all zero for an empty
// mask.
func BuildEmission(mask *raster.Mask, inner, outer, softness float64) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, mask.Width, mask.Height))

	cx, cy, ok := mask.Centroid()
	if !ok {
		return out
	}

	b := mask.Bounds()
	rx := float64(b.Dx()-1)/2.0 + radiusEpsilon
	ry := float64(b.Dy()-1)/2.0 + radiusEpsilon
	r := math.Hypot(rx, ry)
	soft := math.Max(softness, radiusEpsilon)

	for y := range mask.Height {
		for x := range mask.Width {
			if !mask.Selected(x, y) {
				continue
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy) / r
			ringIn := colour.Clamp01((d - inner) / soft)
			ringOut := 1.0 - colour.Clamp01((d-outer)/soft)
			ring := colour.Clamp01(ringOut * (1.0 - ringIn))
			out.Pix[y*out.Stride+x] = uint8(ring * 255.0)
		}
	}
	return out
}
