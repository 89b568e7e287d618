package colour

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownPreset is returned when a preset id is not in the fixed table.
var ErrUnknownPreset = errors.New("unknown colour preset")

// Preset is a named HSV target colour. Hue is in turns, saturation and value in [0, 1].
type Preset struct {
	ID          string  `json:"id"`
	Hue         float64 `json:"hue"`
	Saturation  float64 `json:"saturation"`
	Value       float64 `json:"value"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// presets is the fixed palette, in display order.
var presets = []Preset{
	{ID: "pastel_cyan", Hue: 0.50, Saturation: 0.30, Value: 0.92, Name: "Aqua Dream", Description: "Cool blue-green like tropical waters"},
	{ID: "pastel_pink", Hue: 0.92, Saturation: 0.25, Value: 0.95, Name: "Soft Blossom", Description: "Gentle pink like cherry blossoms"},
	{ID: "pastel_lavender", Hue: 0.75, Saturation: 0.20, Value: 0.90, Name: "Mystic Lavender", Description: "Light purple with magical charm"},
	{ID: "pastel_mint", Hue: 0.40, Saturation: 0.25, Value: 0.92, Name: "Fresh Mint", Description: "Soft green like spring leaves"},
	{ID: "pastel_peach", Hue: 0.08, Saturation: 0.30, Value: 0.95, Name: "Warm Peach", Description: "Orange-pink like sunset clouds"},
	{ID: "pastel_lemon", Hue: 0.15, Saturation: 0.25, Value: 0.95, Name: "Sunny Lemon", Description: "Light yellow like morning sunshine"},
	{ID: "pastel_coral", Hue: 0.02, Saturation: 0.35, Value: 0.90, Name: "Ocean Coral", Description: "Pink-orange like coral reefs"},
	{ID: "pastel_sky", Hue: 0.55, Saturation: 0.20, Value: 0.95, Name: "Sky Blue", Description: "Light blue like clear summer sky"},
	{ID: "deep_blue", Hue: 0.62, Saturation: 0.48, Value: 0.85, Name: "Ocean Depths", Description: "Rich deep blue like midnight waters"},
}

// Presets returns a copy of the preset table in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// PresetIDs returns the preset ids in display order.
func PresetIDs() []string {
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = p.ID
	}
	return ids
}

// LookupPreset finds a preset by id. Matching ignores case and surrounding space.
func LookupPreset(id string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, p := range presets {
		if p.ID == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, id, strings.Join(PresetIDs(), ", "))
}

// ParsePresets resolves a list of preset ids. The single entry "all" selects every preset.
func ParsePresets(ids []string) ([]Preset, error) {
	if len(ids) == 1 && strings.EqualFold(strings.TrimSpace(ids[0]), "all") {
		return Presets(), nil
	}

	out := make([]Preset, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		p, err := LookupPreset(id)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out, nil
}

// Hex returns the sRGB hex code of the preset's full-strength colour.
func (p Preset) Hex() string {
	return colorful.Hsv(p.Hue*360.0, p.Saturation, p.Value).Clamped().Hex()
}
