package transform

import "fmt"

// Default parameter values.
const (
	DefaultKeepValue      = 0.7
	DefaultSatScale       = 1.0
	DefaultHighlight      = 0.4
	DefaultAuroraStrength = 0.3
	DefaultRingInner      = 0.07
	DefaultRingOuter      = 0.14
	DefaultRingSoft       = 0.06
)

// Params holds the per-call knobs of the recolouring algorithms.
// The engine clamps its intermediate results but does not validate ranges;
// callers that accept user input should call Validate.
type Params struct {
	// KeepValue is the share of the original brightness retained, in [0, 1].
	KeepValue float64 `json:"keep_value"`
	// SatScale multiplies the preset saturation in Basic mode, in [0.5, 2].
	SatScale float64 `json:"sat_scale"`
	// Highlight brightens the upper band in Gradient mode, in [0, 1].
	Highlight float64 `json:"highlight"`
	// AuroraStrength scales the hue ripple in Aurora mode, in [0, 0.6].
	AuroraStrength float64 `json:"aurora_strength"`

	// MakeEmission requests the glow ring mask alongside the texture.
	MakeEmission bool `json:"make_emission"`
	// RingInner is the inner ring radius relative to the selection radius, in [0.02, 0.3].
	RingInner float64 `json:"ring_inner"`
	// RingOuter is the outer ring radius relative to the selection radius, in [0.05, 0.5].
	RingOuter float64 `json:"ring_outer"`
	// RingSoft is the feather width of both ring edges, in [0.01, 0.3].
	RingSoft float64 `json:"ring_soft"`
}

// DefaultParams returns the documented defaults with emission disabled.
func DefaultParams() Params {
	return Params{
		KeepValue:      DefaultKeepValue,
		SatScale:       DefaultSatScale,
		Highlight:      DefaultHighlight,
		AuroraStrength: DefaultAuroraStrength,
		RingInner:      DefaultRingInner,
		RingOuter:      DefaultRingOuter,
		RingSoft:       DefaultRingSoft,
	}
}

// Validate checks every parameter against its documented range.
func (p Params) Validate() error {
	checks := []struct {
		name     string
		val      float64
		min, max float64
	}{
		{"keep-value", p.KeepValue, 0, 1},
		{"sat-scale", p.SatScale, 0.5, 2.0},
		{"highlight", p.Highlight, 0, 1},
		{"aurora-strength", p.AuroraStrength, 0, 0.6},
		{"ring-inner", p.RingInner, 0.02, 0.30},
		{"ring-outer", p.RingOuter, 0.05, 0.50},
		{"ring-soft", p.RingSoft, 0.01, 0.30},
	}
	for _, c := range checks {
		if c.val < c.min || c.val > c.max || c.val != c.val {
			return fmt.Errorf("%s must be between %g and %g, got %g", c.name, c.min, c.max, c.val)
		}
	}
	if p.RingInner >= p.RingOuter {
		return fmt.Errorf("ring-inner (%g) must be smaller than ring-outer (%g)", p.RingInner, p.RingOuter)
	}
	return nil
}
