// Package image provides utilities for loading and saving textures and masks.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/iristint/internal/security"
	httputil "github.com/jmylchreest/iristint/internal/util/http"
)

// DefaultMaxPixels is the largest texture or mask accepted by the loaders (8192x8192).
const DefaultMaxPixels = 8192 * 8192

// ErrImageTooLarge is returned when an image header declares more pixels than allowed.
var ErrImageTooLarge = errors.New("image too large")

// Loader loads a texture or mask from a path or URL.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}

// FileLoader loads images from the local filesystem.
type FileLoader struct {
	// MaxPixels bounds width*height; zero means DefaultMaxPixels.
	MaxPixels int
}

// NewFileLoader creates a new FileLoader instance.
func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

// Load decodes a JPEG, PNG, GIF or WebP file.
func (l *FileLoader) Load(_ context.Context, path string) (image.Image, error) {
	file, err := openImageFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return decode(file, l.MaxPixels)
}

// IsRemote reports whether path is an HTTP(S) URL.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// ValidateImagePath checks that path is a readable image file with a
// decodable header, or an acceptable HTTPS URL. URLs are not fetched here.
func ValidateImagePath(path string) error {
	if IsRemote(path) {
		return security.ValidateHTTPURL(path)
	}

	file, err := openImageFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := decodeConfig(file, DefaultMaxPixels); err != nil {
		return err
	}
	return nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// SmartLoader loads images from both local files and HTTPS URLs.
type SmartLoader struct {
	// FetchOptions configures remote downloads.
	FetchOptions httputil.FetchOptions

	fileLoader *FileLoader
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{
		fileLoader: NewFileLoader(),
	}
}

// Load loads an image from either a local file path or HTTPS URL.
func (l *SmartLoader) Load(ctx context.Context, path string) (image.Image, error) {
	if IsRemote(path) {
		return l.loadFromURL(ctx, path)
	}

	return l.fileLoader.Load(ctx, path)
}

func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateHTTPURL(url); err != nil {
		return nil, fmt.Errorf("refusing to fetch image: %w", err)
	}

	data, err := httputil.Fetch(ctx, url, l.FetchOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	return decode(bytes.NewReader(data), l.fileLoader.MaxPixels)
}

func openImageFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return file, nil
}

func decodeConfig(r io.Reader, maxPixels int) (image.Config, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return cfg, fmt.Errorf("unsupported or invalid image format: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("%s image has no pixels (%dx%d)", format, cfg.Width, cfg.Height)
	}
	if cfg.Width > maxPixels/cfg.Height {
		return cfg, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return cfg, nil
}

// decode checks the header against the pixel budget before decoding the body.
func decode(r io.ReadSeeker, maxPixels int) (image.Image, error) {
	if _, err := decodeConfig(r, maxPixels); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}
