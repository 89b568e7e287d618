package compression

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jmylchreest/iristint/internal/security"
)

// Writer adds whole files to an archive. Close must be called to flush the
// archive trailer; it does not close the underlying io.Writer.
type Writer interface {
	Add(name string, data []byte) error
	Close() error
}

// NewWriter returns a Writer producing the given format on w.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	modTime := time.Now()

	switch format {
	case FormatZip:
		return newZipWriter(w, modTime), nil
	case FormatTarGz:
		return newTarGzWriter(w, modTime), nil
	case FormatTarXz:
		return newTarXzWriter(w, modTime)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Create creates the archive file at path, choosing the format from its
// extension. Closing the returned Writer also closes the file.
func Create(path string) (Writer, error) {
	format, ok := FormatFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: cannot infer format from %q", ErrUnsupportedFormat, filepath.Base(path))
	}

	f, err := os.Create(path) // #nosec G304 - Archive destination path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}

	aw, err := NewWriter(f, format)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &fileWriter{Writer: aw, file: f}, nil
}

type fileWriter struct {
	Writer
	file *os.File
}

func (fw *fileWriter) Close() error {
	if err := fw.Writer.Close(); err != nil {
		_ = fw.file.Close()
		return err
	}
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("failed to close archive file: %w", err)
	}
	return nil
}

func validateEntry(name string) error {
	if err := security.ValidateEntryName(name); err != nil {
		return fmt.Errorf("invalid archive entry: %w", err)
	}
	return nil
}
