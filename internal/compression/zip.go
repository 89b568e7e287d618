package compression

import (
	"archive/zip"
	"fmt"
	"io"
	"time"
)

type zipWriter struct {
	zw      *zip.Writer
	modTime time.Time
}

func newZipWriter(w io.Writer, modTime time.Time) *zipWriter {
	return &zipWriter{zw: zip.NewWriter(w), modTime: modTime}
}

func (z *zipWriter) Add(name string, data []byte) error {
	if err := validateEntry(name); err != nil {
		return err
	}

	fw, err := z.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: z.modTime,
	})
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", name, err)
	}
	return nil
}

func (z *zipWriter) Close() error {
	if err := z.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalise zip archive: %w", err)
	}
	return nil
}

// walkZip visits every regular file in a zip archive.
func walkZip(r io.ReaderAt, size int64, fn WalkFunc) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := walkZipFile(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkZipFile(f *zip.File, fn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open file in archive: %w", err)
	}
	defer rc.Close()

	entry := Entry{Name: f.Name, Size: int64(f.UncompressedSize64)} // #nosec G115 - Sizes above 8 EiB are not representable anyway
	return fn(entry, limitEntry(rc))
}
