package image

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

var pngEncoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("cannot encode nil image")
	}
	if err := pngEncoder.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// PNGBytes encodes img as PNG in memory.
func PNGBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePNG encodes img to path, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directories are user-facing
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := PNGBytes(img)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Output images are user-facing
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
