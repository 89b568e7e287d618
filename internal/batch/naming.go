package batch

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/transform"
)

const (
	// DefaultPrefix names entries when the caller supplies no usable prefix.
	DefaultPrefix = "eye"
	// DefaultArchivePrefix names archives when the caller supplies no usable prefix.
	DefaultArchivePrefix = "magical_eyes"
	// EmissionName is the entry name of the shared glow mask.
	EmissionName = "emission_glow_mask"
	// ManifestName is the archive entry describing the batch.
	ManifestName = "manifest.json"
)

// Sanitize replaces every character other than ASCII letters, digits, '-'
// and '_' with '_'. Surrounding whitespace is dropped first.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
}

// Name returns the output name of one combination, e.g. "eye_pastel_cyan_basic".
func Name(prefix, presetID string, mode transform.Mode) string {
	base := Sanitize(prefix)
	if base == "" {
		base = DefaultPrefix
	}
	return fmt.Sprintf("%s_%s_%s", base, presetID, strings.ToLower(mode.String()))
}

// Caption returns the gallery caption of one combination, e.g. "Aqua Dream · Basic".
func Caption(preset colour.Preset, mode transform.Mode) string {
	return fmt.Sprintf("%s · %s", preset.Name, mode.Title())
}

// ArchiveName returns the base name of a batch archive. suffix is normally
// eight random hex characters; the extension is added by the caller.
func ArchiveName(prefix, suffix string) string {
	base := Sanitize(prefix)
	if base == "" {
		base = DefaultArchivePrefix
	}
	return fmt.Sprintf("%s_%s", base, suffix)
}
