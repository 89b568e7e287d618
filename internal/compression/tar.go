package compression

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ulikunitz/xz"
)

// tarWriter writes a tar stream through a compressor.
type tarWriter struct {
	tw      *tar.Writer
	stream  io.WriteCloser
	modTime time.Time
}

func newTarGzWriter(w io.Writer, modTime time.Time) *tarWriter {
	gzw := gzip.NewWriter(w)
	return &tarWriter{tw: tar.NewWriter(gzw), stream: gzw, modTime: modTime}
}

func newTarXzWriter(w io.Writer, modTime time.Time) (*tarWriter, error) {
	xzw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz writer: %w", err)
	}
	return &tarWriter{tw: tar.NewWriter(xzw), stream: xzw, modTime: modTime}, nil
}

func (t *tarWriter) Add(name string, data []byte) error {
	if err := validateEntry(name); err != nil {
		return err
	}

	header := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  t.modTime,
	}
	if err := t.tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", name, err)
	}
	if _, err := t.tw.Write(data); err != nil {
		return fmt.Errorf("failed to write tar entry %s: %w", name, err)
	}
	return nil
}

func (t *tarWriter) Close() error {
	if err := t.tw.Close(); err != nil {
		_ = t.stream.Close()
		return fmt.Errorf("failed to finalise tar archive: %w", err)
	}
	if err := t.stream.Close(); err != nil {
		return fmt.Errorf("failed to flush compressed stream: %w", err)
	}
	return nil
}

// walkTarGz visits every regular file in a gzip-compressed tar stream.
func walkTarGz(r io.Reader, fn WalkFunc) error {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzr.Close()

	return walkTar(gzr, fn)
}

// walkTarXz visits every regular file in an xz-compressed tar stream.
func walkTarXz(r io.Reader, fn WalkFunc) error {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}

	return walkTar(xzr, fn)
}

func walkTar(r io.Reader, fn WalkFunc) error {
	tr := tar.NewReader(limitArchive(r))

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		if err := fn(Entry{Name: header.Name, Size: header.Size}, limitEntry(tr)); err != nil {
			return err
		}
	}
}
