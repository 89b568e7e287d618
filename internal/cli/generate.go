package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/iristint/internal/batch"
	"github.com/jmylchreest/iristint/internal/colour"
	imageio "github.com/jmylchreest/iristint/internal/image"
	"github.com/jmylchreest/iristint/internal/transform"
)

type generateOptions struct {
	*globalOptions
	inputs         inputOptions
	preset         string
	mode           string
	prefix         string
	output         string
	emissionOutput string
	maskOutput     string
	params         transform.Params
}

func newGenerateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{
		globalOptions: global,
		params:        global.config.Params,
	}

	defaultPreset := "pastel_cyan"
	if ids := global.config.Presets; len(ids) > 0 && !strings.EqualFold(ids[0], "all") {
		defaultPreset = ids[0]
	}
	defaultMode := transform.ModeBasic.String()
	if names := global.config.Modes; len(names) > 0 && !strings.EqualFold(names[0], "all") {
		defaultMode = names[0]
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Recolour a texture with one preset and mode",
		Long: `Recolour the masked region of a texture with a single preset and mode.

The mask is resampled to the texture's resolution and thresholded; pixels
outside the selection are copied unchanged.

Examples:
  # Basic recolour, written next to the current directory
  iristint generate -t eye.png -m iris_mask.png -p deep_blue

  # Gradient with a stronger highlight and a glow mask
  iristint generate -t eye.png -m iris_mask.png -p pastel_pink --mode gradient \
    --highlight 0.8 -o out/pink.png --emission-output out/glow.png

  # Check which pixels the mask selects after resampling
  iristint generate -t eye.png -m iris_mask.png --mask-output out/selection.png

  # Textures can be fetched over HTTPS
  iristint generate -t https://example.com/eye.webp -m mask.png --mode aurora`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.inputs.texture, "texture", "t", "", "eye texture (file path or HTTPS URL)")
	fs.StringVarP(&opts.inputs.mask, "mask", "m", "", "iris mask (file path or HTTPS URL)")
	fs.StringVarP(&opts.preset, "preset", "p", defaultPreset, "colour preset id (see 'iristint presets')")
	fs.StringVar(&opts.mode, "mode", defaultMode, "transform mode (basic, gradient, aurora)")
	fs.StringVar(&opts.prefix, "prefix", global.config.Prefix, "file name prefix for generated output")
	fs.StringVarP(&opts.output, "output", "o", ".", "output PNG file or directory")
	fs.StringVar(&opts.emissionOutput, "emission-output", "", "write the glow ring mask to this PNG (implies --emission)")
	fs.StringVar(&opts.maskOutput, "mask-output", "", "write the thresholded selection to this PNG")
	addParamFlags(fs, &opts.params)

	_ = cmd.MarkFlagRequired("texture")
	_ = cmd.MarkFlagRequired("mask")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	preset, err := colour.LookupPreset(opts.preset)
	if err != nil {
		return err
	}
	mode, err := transform.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.emissionOutput != "" {
		opts.params.MakeEmission = true
	}
	if err := opts.params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if err := opts.inputs.validate(); err != nil {
		return err
	}

	name := batch.Name(opts.prefix, preset.ID, mode)
	outPath, err := resolveImageOutput(opts.output, name)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := opts.logger(stderr)

	tex, mask, err := opts.inputs.load(cmd.Context(), logger)
	if err != nil {
		return err
	}

	if opts.maskOutput != "" {
		if err := imageio.SavePNG(opts.maskOutput, mask.Gray()); err != nil {
			return err
		}
		opts.progress(stderr, "✓ Selection (%d px) → %s\n", mask.Count(), opts.maskOutput)
	}

	logger.Debug("applying transform", "preset", preset.ID, "mode", mode)
	res, err := transform.Apply(tex, mask, preset, mode, opts.params)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", mode, err)
	}

	if err := imageio.SavePNG(outPath, res.Texture.NRGBA()); err != nil {
		return err
	}
	opts.progress(stderr, "✓ %s → %s\n", batch.Caption(preset, mode), outPath)

	if res.Emission != nil {
		emissionPath := opts.emissionOutput
		if emissionPath == "" {
			emissionPath = filepath.Join(filepath.Dir(outPath), batch.EmissionName+".png")
		}
		if err := imageio.SavePNG(emissionPath, res.Emission); err != nil {
			return err
		}
		opts.progress(stderr, "✓ Emission mask → %s\n", emissionPath)
	}

	return nil
}

// resolveImageOutput turns --output into a PNG path. A path without an image
// extension is treated as a directory and name.png is placed inside it.
func resolveImageOutput(output, name string) (string, error) {
	if output == "" {
		output = "."
	}
	if !imageio.IsImageFile(output) {
		return filepath.Join(output, name+".png"), nil
	}
	if !strings.EqualFold(filepath.Ext(output), ".png") {
		return "", fmt.Errorf("only PNG output is supported (got %s)", filepath.Ext(output))
	}
	return output, nil
}
