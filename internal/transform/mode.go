// Package transform implements the recolouring algorithms and the emission
// ring synthesizer.
package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when parsing an unsupported mode name.
var ErrUnknownMode = errors.New("unknown transform mode")

// Mode selects one of the recolouring algorithms.
type Mode int

const (
	// ModeBasic replaces hue and saturation uniformly.
	ModeBasic Mode = iota
	// ModeGradient shades from the selection centre outwards with an upper highlight.
	ModeGradient
	// ModeAurora ripples the hue along a fixed spatial wave.
	ModeAurora
)

var modeNames = [...]string{
	ModeBasic:    "basic",
	ModeGradient: "gradient",
	ModeAurora:   "aurora",
}

var modeDescriptions = [...]string{
	ModeBasic:    "Simple, uniform color change - clean and consistent",
	ModeGradient: "Smooth color transitions from center to edge with subtle highlights",
	ModeAurora:   "Magical color shimmer effect like northern lights",
}

// Modes returns every mode in canonical order.
func Modes() []Mode {
	return []Mode{ModeBasic, ModeGradient, ModeAurora}
}

// ParseMode parses a mode name, ignoring case.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == key {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownMode, s, strings.Join(modeNames[:], ", "))
}

// ParseModes parses a list of mode names. The single entry "all" selects every mode.
// Duplicates are dropped, keeping first occurrence order.
func ParseModes(names []string) ([]Mode, error) {
	if len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), "all") {
		return Modes(), nil
	}

	out := make([]Mode, 0, len(names))
	seen := make(map[Mode]bool, len(names))
	for _, n := range names {
		m, err := ParseMode(n)
		if err != nil {
			return nil, err
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out, nil
}

// String returns the lowercase mode name used in result names.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Title returns the capitalised mode name used in captions.
func (m Mode) Title() string {
	s := m.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Description returns a one-line summary of the effect.
func (m Mode) Description() string {
	if m < 0 || int(m) >= len(modeDescriptions) {
		return ""
	}
	return modeDescriptions[m]
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= 0 && int(m) < len(modeNames)
}
