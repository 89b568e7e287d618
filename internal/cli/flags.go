package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/iristint/internal/compression"
	"github.com/jmylchreest/iristint/internal/transform"
)

// addParamFlags registers the recolouring parameters on fs, bound to p.
// The current values of p become the flag defaults.
func addParamFlags(fs *pflag.FlagSet, p *transform.Params) {
	fs.Float64Var(&p.KeepValue, "keep-value", p.KeepValue, "share of the original brightness kept (0-1)")
	fs.Float64Var(&p.SatScale, "sat-scale", p.SatScale, "saturation multiplier for basic mode (0.5-2)")
	fs.Float64Var(&p.Highlight, "highlight", p.Highlight, "upper highlight strength for gradient mode (0-1)")
	fs.Float64Var(&p.AuroraStrength, "aurora-strength", p.AuroraStrength, "hue ripple strength for aurora mode (0-0.6)")
	fs.BoolVar(&p.MakeEmission, "emission", p.MakeEmission, "also produce a glow ring emission mask")
	fs.Float64Var(&p.RingInner, "ring-inner", p.RingInner, "emission ring inner radius (0.02-0.3)")
	fs.Float64Var(&p.RingOuter, "ring-outer", p.RingOuter, "emission ring outer radius (0.05-0.5)")
	fs.Float64Var(&p.RingSoft, "ring-soft", p.RingSoft, "emission ring edge softness (0.01-0.3)")
}

// modeListValue is a pflag.Value holding a comma-separated list of modes.
// The first Set replaces the default; later ones append.
type modeListValue struct {
	names   []string
	modes   *[]transform.Mode
	changed bool
}

func newModeListValue(defaults []string, p *[]transform.Mode) *modeListValue {
	v := &modeListValue{names: defaults, modes: p}
	if modes, err := transform.ParseModes(defaults); err == nil {
		*p = modes
	} else {
		*p = transform.Modes()
	}
	return v
}

func (v *modeListValue) String() string {
	if v.modes == nil {
		return ""
	}
	names := make([]string, len(*v.modes))
	for i, m := range *v.modes {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

func (v *modeListValue) Set(s string) error {
	names := parseList(s)
	if v.changed {
		names = append(append([]string{}, v.names...), names...)
	}
	modes, err := transform.ParseModes(names)
	if err != nil {
		return err
	}
	v.names = names
	*v.modes = modes
	v.changed = true
	return nil
}

func (v *modeListValue) Type() string {
	return "modes"
}

// formatValue is a pflag.Value for archive formats.
type formatValue struct {
	format *compression.Format
}

func newFormatValue(def compression.Format, p *compression.Format) *formatValue {
	*p = def
	return &formatValue{format: p}
}

func (v *formatValue) String() string {
	if v.format == nil {
		return ""
	}
	return v.format.String()
}

func (v *formatValue) Set(s string) error {
	f, err := compression.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.format = f
	return nil
}

func (v *formatValue) Type() string {
	return "format"
}
