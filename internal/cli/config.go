package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/compression"
	"github.com/jmylchreest/iristint/internal/transform"
)

// Environment variables that override command defaults. Flags always win.
const (
	EnvPresets       = "IRISTINT_PRESETS"
	EnvModes         = "IRISTINT_MODES"
	EnvPrefix        = "IRISTINT_PREFIX"
	EnvWorkers       = "IRISTINT_WORKERS"
	EnvArchiveFormat = "IRISTINT_ARCHIVE_FORMAT"
	EnvKeepValue     = "IRISTINT_KEEP_VALUE"
)

// defaultPrefix is the entry prefix used when neither flag nor environment sets one.
const defaultPrefix = "magical_eye"

// Config holds the defaults applied to the generate and batch flags.
type Config struct {
	Presets       []string
	Modes         []string
	Prefix        string
	Workers       int
	ArchiveFormat compression.Format
	Params        transform.Params

	errs []error
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Presets:       []string{"all"},
		Modes:         []string{"all"},
		Prefix:        defaultPrefix,
		ArchiveFormat: compression.FormatZip,
		Params:        transform.DefaultParams(),
	}
}

// ConfigFromEnv applies IRISTINT_* variables on top of DefaultConfig.
// Malformed values keep the default and are reported by Err.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()

	if v, ok := lookup(EnvPresets); ok && strings.TrimSpace(v) != "" {
		ids := parseList(v)
		if _, err := colour.ParsePresets(ids); err != nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("%s: %w", EnvPresets, err))
		} else {
			cfg.Presets = ids
		}
	}
	if v, ok := lookup(EnvModes); ok && strings.TrimSpace(v) != "" {
		names := parseList(v)
		if _, err := transform.ParseModes(names); err != nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("%s: %w", EnvModes, err))
		} else {
			cfg.Modes = names
		}
	}
	if v, ok := lookup(EnvPrefix); ok {
		cfg.Prefix = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvWorkers); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			cfg.errs = append(cfg.errs, fmt.Errorf("%s: invalid worker count %q", EnvWorkers, v))
		} else {
			cfg.Workers = n
		}
	}
	if v, ok := lookup(EnvArchiveFormat); ok && strings.TrimSpace(v) != "" {
		format, err := compression.ParseFormat(v)
		if err != nil {
			cfg.errs = append(cfg.errs, fmt.Errorf("%s: %w", EnvArchiveFormat, err))
		} else {
			cfg.ArchiveFormat = format
		}
	}
	if v, ok := lookup(EnvKeepValue); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 || f > 1 {
			cfg.errs = append(cfg.errs, fmt.Errorf("%s: keep value must be a number in [0, 1], got %q", EnvKeepValue, v))
		} else {
			cfg.Params.KeepValue = f
		}
	}

	return cfg
}

// Err returns the problems found while reading the environment, if any.
func (c Config) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid environment configuration: %w", errors.Join(c.errs...))
}

// parseList splits a comma-separated list, trimming blanks.
func parseList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
