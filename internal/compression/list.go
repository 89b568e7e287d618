package compression

import (
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/iristint/internal/security"
)

const (
	// maxEntryBytes bounds a single decompressed entry.
	maxEntryBytes = 256 * 1024 * 1024
	// maxArchiveBytes bounds a whole decompressed tar stream.
	maxArchiveBytes = 2 * 1024 * 1024 * 1024
)

// Entry describes one file stored in an archive.
type Entry struct {
	Name string
	Size int64
}

// WalkFunc is called for every regular file in an archive. r yields the
// decompressed contents and is only valid until the function returns.
type WalkFunc func(entry Entry, r io.Reader) error

// Walk opens the archive at path and calls fn for each regular file, in
// archive order. The format is chosen from the file extension. Walking stops
// at the first error returned by fn.
func Walk(path string, fn WalkFunc) error {
	format, ok := FormatFromPath(path)
	if !ok {
		return fmt.Errorf("%w: cannot infer format from %q", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path) // #nosec G304 - Archive path is chosen by the user
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatZip:
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("failed to stat archive: %w", err)
		}
		return walkZip(f, info.Size(), fn)
	case FormatTarGz:
		return walkTarGz(f, fn)
	case FormatTarXz:
		return walkTarXz(f, fn)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// List returns the regular files stored in the archive at path.
func List(path string) ([]Entry, error) {
	var entries []Entry
	err := Walk(path, func(entry Entry, _ io.Reader) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadFile returns the decompressed contents of one archive entry.
func ReadFile(path, name string) ([]byte, error) {
	var data []byte
	found := false
	err := Walk(path, func(entry Entry, r io.Reader) error {
		if found || entry.Name != name {
			return nil
		}
		found = true
		var err error
		data, err = io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("file '%s' not found in archive", name)
	}
	return data, nil
}

func limitEntry(r io.Reader) io.Reader {
	return security.NewLimitedReader(r, maxEntryBytes)
}

func limitArchive(r io.Reader) io.Reader {
	return security.NewLimitedReader(r, maxArchiveBytes)
}
