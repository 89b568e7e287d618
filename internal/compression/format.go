// Package compression writes and reads the archive formats batch results are packaged in.
package compression

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for archive formats other than zip, tar.gz and tar.xz.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Format identifies an archive container and its compression.
type Format int

const (
	// FormatZip is a deflate-compressed zip archive.
	FormatZip Format = iota
	// FormatTarGz is a gzip-compressed tar stream.
	FormatTarGz
	// FormatTarXz is an xz-compressed tar stream.
	FormatTarXz
)

// Longer suffixes first so ".tar.gz" wins over any shorter match.
var formatExts = []struct {
	ext    string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.xz", FormatTarXz},
	{".txz", FormatTarXz},
	{".zip", FormatZip},
}

// Formats returns all writable formats.
func Formats() []Format {
	return []Format{FormatZip, FormatTarGz, FormatTarXz}
}

func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	case FormatTarXz:
		return "tar.xz"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Ext returns the canonical file extension, including the leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// ParseFormat parses a format name such as "zip", "tar.gz" or "txz".
// A leading dot is accepted.
func ParseFormat(s string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	if format, ok := FormatFromPath("archive." + name); ok {
		return format, nil
	}
	return 0, fmt.Errorf("%w: %q (supported: zip, tar.gz, tar.xz)", ErrUnsupportedFormat, s)
}

// FormatFromPath detects the archive format from a file name's extension.
func FormatFromPath(path string) (Format, bool) {
	lower := strings.ToLower(filepath.Base(path))
	for _, fe := range formatExts {
		if strings.HasSuffix(lower, fe.ext) {
			return fe.format, true
		}
	}
	return 0, false
}

// TrimExt removes a recognised archive extension from a file name.
// For example: "magical_eyes_1a2b3c4d.tar.xz" -> "magical_eyes_1a2b3c4d".
func TrimExt(name string) string {
	lower := strings.ToLower(name)
	for _, fe := range formatExts {
		if strings.HasSuffix(lower, fe.ext) {
			return name[:len(name)-len(fe.ext)]
		}
	}
	return name
}
