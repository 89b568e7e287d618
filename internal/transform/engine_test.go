package transform

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/raster"
)

// patternTexture builds a deterministic texture with varied colour and alpha.
func patternTexture(w, h int) *raster.Texture {
	tex := raster.NewTexture(w, h)
	for y := range h {
		for x := range w {
			i := tex.Offset(x, y)
			tex.Pix[i] = float32((x*37+y*11)%256) / 255
			tex.Pix[i+1] = float32((x*13+y*53)%256) / 255
			tex.Pix[i+2] = float32((x*7+y*29)%256) / 255
			tex.Pix[i+3] = float32((x*3+y*5)%256) / 255
		}
	}
	return tex
}

func solidTexture(w, h int, r, g, b, a uint8) *raster.Texture {
	tex := raster.NewTexture(w, h)
	for i := 0; i < len(tex.Pix); i += 4 {
		tex.Pix[i] = float32(r) / 255
		tex.Pix[i+1] = float32(g) / 255
		tex.Pix[i+2] = float32(b) / 255
		tex.Pix[i+3] = float32(a) / 255
	}
	return tex
}

func fullMask(w, h int) *raster.Mask {
	m := raster.NewMask(w, h)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	return m
}

func squareMask(w, h, x0, y0, size int) *raster.Mask {
	m := raster.NewMask(w, h)
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			m.Pix[y*w+x] = 1
		}
	}
	return m
}

// leftHalfMask selects the left half of the texture.
func leftHalfMask(w, h int) *raster.Mask {
	m := raster.NewMask(w, h)
	for y := range h {
		for x := range w / 2 {
			m.Pix[y*w+x] = 1
		}
	}
	return m
}

func mustPreset(t *testing.T, id string) colour.Preset {
	t.Helper()
	p, err := colour.LookupPreset(id)
	if err != nil {
		t.Fatalf("LookupPreset(%q) failed: %v", id, err)
	}
	return p
}

func TestBasicSolidScenario(t *testing.T) {
	tex := solidTexture(4, 4, 200, 50, 50, 255)
	preset := mustPreset(t, "pastel_cyan")

	res, err := Apply(tex, fullMask(4, 4), preset, ModeBasic, DefaultParams())
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	img := res.Texture.NRGBA()
	first := img.NRGBAAt(0, 0)
	for y := range 4 {
		for x := range 4 {
			if got := img.NRGBAAt(x, y); got != first {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, first)
			}
		}
	}
	if first.A != 255 {
		t.Errorf("alpha = %d, want 255", first.A)
	}

	h, s, _ := colour.RGBToHSV(float64(first.R)/255, float64(first.G)/255, float64(first.B)/255)
	if math.Abs(h-0.5) > 0.01 {
		t.Errorf("hue = %v, want ~0.5", h)
	}
	if math.Abs(s-0.3) > 0.02 {
		t.Errorf("saturation = %v, want ~0.3", s)
	}
	if res.Emission != nil {
		t.Error("Emission produced without being requested")
	}
}

func TestUnselectedPixelsUntouched(t *testing.T) {
	tex := patternTexture(40, 30)
	mask := leftHalfMask(40, 30)
	preset := mustPreset(t, "pastel_pink")
	orig := tex.Clone()

	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := Apply(tex, mask, preset, mode, DefaultParams())
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			changed := false
			for y := range tex.Height {
				for x := range tex.Width {
					i := tex.Offset(x, y)
					for c := range 4 {
						got, want := res.Texture.Pix[i+c], orig.Pix[i+c]
						if !mask.Selected(x, y) || c == 3 {
							if got != want {
								t.Fatalf("pixel (%d,%d) channel %d = %v, want %v", x, y, c, got, want)
							}
						} else if got != want {
							changed = true
						}
					}
				}
			}
			if !changed {
				t.Error("Expected selected pixels to change")
			}
			// The input itself must not be mutated.
			for i := range tex.Pix {
				if tex.Pix[i] != orig.Pix[i] {
					t.Fatalf("input mutated at %d", i)
				}
			}
		})
	}
}

func TestOutputChannelsInRange(t *testing.T) {
	tex := patternTexture(64, 64)
	mask := fullMask(64, 64)
	params := DefaultParams()
	params.SatScale = 2.0
	params.Highlight = 1.0
	params.AuroraStrength = 0.6

	for _, preset := range colour.Presets() {
		for _, mode := range Modes() {
			res, err := Apply(tex, mask, preset, mode, params)
			if err != nil {
				t.Fatalf("%s/%s: Apply failed: %v", preset.ID, mode, err)
			}
			for i, v := range res.Texture.Pix {
				if v < 0 || v > 1 || v != v {
					t.Fatalf("%s/%s: Pix[%d] = %v outside [0,1]", preset.ID, mode, i, v)
				}
			}
		}
	}
}

func TestAuroraSaturationCap(t *testing.T) {
	tex := patternTexture(200, 200)
	mask := fullMask(200, 200)
	preset := mustPreset(t, "deep_blue")
	params := DefaultParams()
	params.KeepValue = 0

	out := Aurora(tex, mask, preset, params)
	for i := 0; i < len(out.Pix); i += 4 {
		_, s, _ := colour.RGBToHSV(float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2]))
		if s > auroraMaxSaturation+1e-5 {
			t.Fatalf("pixel %d saturation %v exceeds cap", i/4, s)
		}
	}
}

func TestAuroraHueStaysNearPreset(t *testing.T) {
	tex := solidTexture(120, 120, 128, 128, 128, 255)
	preset := mustPreset(t, "pastel_mint")
	params := DefaultParams()
	params.AuroraStrength = 0.6

	out := Aurora(tex, fullMask(120, 120), preset, params)
	for i := 0; i < len(out.Pix); i += 4 {
		h, _, _ := colour.RGBToHSV(float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2]))
		diff := math.Abs(h - preset.Hue)
		diff = math.Min(diff, 1-diff)
		if diff > auroraMaxHueShift+1e-4 {
			t.Fatalf("pixel %d hue %v drifts %v from preset", i/4, h, diff)
		}
	}
}

func TestEmptyMaskLeavesTextureUnchanged(t *testing.T) {
	tex := patternTexture(16, 16)
	mask := raster.NewMask(16, 16)
	params := DefaultParams()
	params.MakeEmission = true

	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := Apply(tex, mask, mustPreset(t, "pastel_peach"), mode, params)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if !bytes.Equal(res.Texture.NRGBA().Pix, tex.NRGBA().Pix) {
				t.Error("Expected output identical to input")
			}
			if res.Texture == tex {
				t.Error("Expected a fresh texture, got the input")
			}
			for i, v := range res.Emission.Pix {
				if v != 0 {
					t.Fatalf("emission Pix[%d] = %d, want 0", i, v)
				}
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	tex := patternTexture(50, 40)
	mask := squareMask(50, 40, 10, 5, 25)
	params := DefaultParams()
	params.MakeEmission = true

	for _, mode := range Modes() {
		a, err := Apply(tex, mask, mustPreset(t, "pastel_lavender"), mode, params)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		b, err := Apply(tex, mask, mustPreset(t, "pastel_lavender"), mode, params)
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if !bytes.Equal(a.Texture.NRGBA().Pix, b.Texture.NRGBA().Pix) {
			t.Errorf("%s: texture differs between runs", mode)
		}
		if !bytes.Equal(a.Emission.Pix, b.Emission.Pix) {
			t.Errorf("%s: emission differs between runs", mode)
		}
	}
}

func TestGradientFieldCentredSquare(t *testing.T) {
	mask := squareMask(100, 100, 45, 45, 10)

	field, cx, cy, ok := gradientField(mask)
	if !ok {
		t.Fatal("Expected a field for a non-empty mask")
	}
	if cx != 49.5 || cy != 49.5 {
		t.Errorf("centroid = (%v, %v), want (49.5, 49.5)", cx, cy)
	}

	at := func(x, y int) float64 { return field[y*100+x] }
	for _, p := range [][2]int{{49, 49}, {50, 50}, {49, 50}, {50, 49}} {
		if d := at(p[0], p[1]); d != 0 {
			t.Errorf("centre pixel %v has d = %v, want 0", p, d)
		}
	}
	for _, p := range [][2]int{{45, 45}, {54, 45}, {45, 54}, {54, 54}} {
		if d := at(p[0], p[1]); math.Abs(d-1) > 1e-9 {
			t.Errorf("corner pixel %v has d = %v, want 1", p, d)
		}
	}
}

func TestGradientCentreBrighterThanCorner(t *testing.T) {
	tex := solidTexture(100, 100, 90, 90, 90, 255)
	mask := squareMask(100, 100, 45, 45, 10)
	params := DefaultParams()
	params.KeepValue = 0
	params.Highlight = 0

	out := Gradient(tex, mask, mustPreset(t, "pastel_coral"), params)

	hsvAt := func(x, y int) (float64, float64, float64) {
		i := out.Offset(x, y)
		return colour.RGBToHSV(float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2]))
	}
	_, sc, vc := hsvAt(49, 49)
	_, sk, vk := hsvAt(45, 45)
	preset := mustPreset(t, "pastel_coral")

	if math.Abs(sc-preset.Saturation*1.15) > 1e-4 || math.Abs(vc-preset.Value*1.10) > 1e-4 {
		t.Errorf("centre s,v = %v,%v want %v,%v", sc, vc, preset.Saturation*1.15, preset.Value*1.10)
	}
	if math.Abs(sk-preset.Saturation*0.85) > 1e-4 || math.Abs(vk-preset.Value*0.90) > 1e-4 {
		t.Errorf("corner s,v = %v,%v want %v,%v", sk, vk, preset.Saturation*0.85, preset.Value*0.90)
	}
}

func TestGradientHighlightBand(t *testing.T) {
	tex := solidTexture(40, 40, 60, 60, 60, 255)
	mask := squareMask(40, 40, 10, 10, 20)
	preset := mustPreset(t, "pastel_sky")

	params := DefaultParams()
	params.Highlight = 0
	plain := Gradient(tex, mask, preset, params)
	params.Highlight = 1
	lit := Gradient(tex, mask, preset, params)

	// Centroid y is 19.5 and the band ends at 19.5 - 0.05*40 = 17.5.
	top, bottom := plain.Offset(20, 11), plain.Offset(20, 28)
	if lit.Pix[top+2] <= plain.Pix[top+2] && lit.Pix[top] <= plain.Pix[top] {
		t.Error("Expected the upper band to brighten")
	}
	for c := range 4 {
		if lit.Pix[bottom+c] != plain.Pix[bottom+c] {
			t.Errorf("lower pixel channel %d changed with highlight", c)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	tex := patternTexture(8, 8)
	mask := fullMask(8, 8)
	preset := mustPreset(t, "pastel_lemon")

	if _, err := Apply(nil, mask, preset, ModeBasic, DefaultParams()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil texture: got %v, want ErrInvalidInput", err)
	}
	if _, err := Apply(tex, nil, preset, ModeBasic, DefaultParams()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil mask: got %v, want ErrInvalidInput", err)
	}
	if _, err := Apply(tex, fullMask(4, 8), preset, ModeBasic, DefaultParams()); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("wrong mask size: got %v, want ErrDimensionMismatch", err)
	}
	if _, err := Apply(tex, mask, preset, Mode(42), DefaultParams()); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("bad mode: got %v, want ErrUnknownMode", err)
	}
}
