package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/iristint/internal/batch"
	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/compression"
	"github.com/jmylchreest/iristint/internal/transform"
)

type batchOptions struct {
	*globalOptions
	inputs  inputOptions
	presets []string
	modes   []transform.Mode
	prefix  string
	output  string
	format  compression.Format
	workers int
	params  transform.Params
}

func newBatchCmd(global *globalOptions) *cobra.Command {
	opts := &batchOptions{
		globalOptions: global,
		params:        global.config.Params,
	}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Render every preset and mode combination",
		Long: `Render the cross product of the selected presets and modes concurrently.

Results are named {prefix}_{preset}_{mode}.png. When --output names an
archive (.zip, .tar.gz, .tar.xz) the results are packed into it; when it
names a directory they are written there, unless --format is given, in which
case a uniquely named archive is created inside it. Without --output a
uniquely named archive is created in the current directory.

A manifest.json describing every entry is always included. When --emission
is set, a single emission_glow_mask.png is added as well.

Defaults can be set with IRISTINT_PRESETS, IRISTINT_MODES, IRISTINT_PREFIX,
IRISTINT_WORKERS, IRISTINT_ARCHIVE_FORMAT and IRISTINT_KEEP_VALUE.

Examples:
  # Everything, packed into magical_eye_<random>.zip
  iristint batch -t eye.png -m iris_mask.png

  # Two presets in gradient and aurora, written to a directory
  iristint batch -t eye.png -m iris_mask.png --presets pastel_cyan,deep_blue \
    --modes gradient,aurora -o out/

  # A tar.xz archive with an emission mask, four workers
  iristint batch -t eye.png -m iris_mask.png --emission -o eyes.tar.xz --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&opts.inputs.texture, "texture", "t", "", "eye texture (file path or HTTPS URL)")
	fs.StringVarP(&opts.inputs.mask, "mask", "m", "", "iris mask (file path or HTTPS URL)")
	fs.StringSliceVarP(&opts.presets, "presets", "p", global.config.Presets, "colour presets (comma-separated or 'all')")
	fs.Var(newModeListValue(global.config.Modes, &opts.modes), "modes", "transform modes (comma-separated or 'all')")
	fs.StringVar(&opts.prefix, "prefix", global.config.Prefix, "file name prefix for results")
	fs.StringVarP(&opts.output, "output", "o", "", "output archive or directory")
	fs.Var(newFormatValue(global.config.ArchiveFormat, &opts.format), "format", "archive format (zip, tar.gz, tar.xz)")
	fs.IntVarP(&opts.workers, "workers", "w", global.config.Workers, "concurrent renders (0 = number of CPUs)")
	addParamFlags(fs, &opts.params)

	_ = cmd.MarkFlagRequired("texture")
	_ = cmd.MarkFlagRequired("mask")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *batchOptions) error {
	presets, err := colour.ParsePresets(opts.presets)
	if err != nil {
		return err
	}
	if err := opts.params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	if opts.workers < 0 {
		return fmt.Errorf("--workers must not be negative")
	}
	if err := opts.inputs.validate(); err != nil {
		return err
	}

	archivePath, dir, err := opts.destination(cmd.Flags().Changed("format"))
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	logger := opts.logger(stderr)

	tex, mask, err := opts.inputs.load(cmd.Context(), logger)
	if err != nil {
		return err
	}

	job := batch.Job{
		Prefix:  opts.prefix,
		Presets: presets,
		Modes:   opts.modes,
		Params:  opts.params,
	}
	opts.progress(stderr, "Rendering %d presets × %d modes...\n", len(presets), len(opts.modes))

	report, err := batch.NewRunner(logger, opts.workers).Run(cmd.Context(), tex, mask, job)
	if err != nil {
		return err
	}

	succeeded := len(report.Succeeded())
	if succeeded == 0 {
		printSummary(stdout, report)
		return fmt.Errorf("all %d renders failed", len(report.Entries))
	}

	if archivePath != "" {
		if err := writeArchive(archivePath, report); err != nil {
			return err
		}
		opts.progress(stderr, "✓ Packed %d results into %s\n", succeeded, archivePath)
	} else {
		if err := report.WriteDir(dir); err != nil {
			return err
		}
		opts.progress(stderr, "✓ Wrote %d results to %s\n", succeeded, dir)
	}

	if !opts.quiet {
		printSummary(stdout, report)
	}
	return nil
}

// destination resolves --output into either an archive path or a directory.
func (o *batchOptions) destination(formatSet bool) (archivePath, dir string, err error) {
	if _, ok := compression.FormatFromPath(o.output); ok {
		return o.output, "", nil
	}

	if o.output != "" && !formatSet {
		return "", o.output, nil
	}

	suffix, err := randomSuffix()
	if err != nil {
		return "", "", err
	}
	name := batch.ArchiveName(o.prefix, suffix) + o.format.Ext()
	parent := o.output
	if parent == "" {
		parent = "."
	}
	return filepath.Join(parent, name), "", nil
}

func writeArchive(path string, report *batch.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Output directories are user-facing
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	w, err := compression.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteArchive(w); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return w.Close()
}

// randomSuffix returns eight random hex characters.
func randomSuffix() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate archive name: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

func printSummary(w io.Writer, report *batch.Report) {
	table := NewTable("NAME", "CAPTION", "STATUS", "TIME")
	for _, e := range report.Entries {
		status := "ok"
		if e.Err != nil {
			status = "failed: " + e.Err.Error()
		}
		table.AddRow(e.Name, e.Caption, status, e.Duration.Round(time.Millisecond).String())
	}
	table.SetColumnMaxWidth(2, 48)
	_, _ = table.WriteTo(w)
}
