package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	imageio "github.com/jmylchreest/iristint/internal/image"
	"github.com/jmylchreest/iristint/internal/raster"
)

// inputOptions are the texture and mask sources shared by generate and batch.
type inputOptions struct {
	texture string
	mask    string
}

func (o *inputOptions) validate() error {
	if err := imageio.ValidateImagePath(o.texture); err != nil {
		return fmt.Errorf("invalid --texture: %w", err)
	}
	if err := imageio.ValidateImagePath(o.mask); err != nil {
		return fmt.Errorf("invalid --mask: %w", err)
	}
	return nil
}

// load decodes the texture and prepares the mask at the texture's resolution.
func (o *inputOptions) load(ctx context.Context, logger hclog.Logger) (*raster.Texture, *raster.Mask, error) {
	loader := imageio.NewSmartLoader()

	texImg, err := loader.Load(ctx, o.texture)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load texture: %w", err)
	}
	tex, err := raster.FromImage(texImg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert texture: %w", err)
	}

	maskImg, err := loader.Load(ctx, o.mask)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load mask: %w", err)
	}
	if maskImg.Bounds().Size() != tex.Size() {
		logger.Debug("resampling mask", "from", maskImg.Bounds().Size(), "to", tex.Size())
	}
	mask, err := raster.PrepareMask(maskImg, tex.Size())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare mask: %w", err)
	}

	if mask.Empty() {
		logger.Warn("mask selects no pixels; output will match the input texture")
	} else {
		logger.Debug("mask prepared", "selected", mask.Count(), "bounds", mask.Bounds())
	}
	return tex, mask, nil
}
