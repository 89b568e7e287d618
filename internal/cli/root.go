// Package cli provides the command-line interface for iristint.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/iristint/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose bool
	quiet   bool
	logJSON bool
	config  Config
}

// NewRootCmd builds the iristint command tree. Each call returns fresh
// commands with their own flag state; environment defaults are read once here.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{config: ConfigFromEnv(os.LookupEnv)}

	rootCmd := &cobra.Command{
		Use:   "iristint",
		Short: "Recolour eye textures with pastel presets",
		Long: `iristint recolours the iris region of an eye texture in HSV space.

A grayscale mask selects the region to recolour. Three algorithms are
available (basic, gradient and aurora), each driven by one of nine named
colour presets. Batches render every preset and mode combination
concurrently and package the results as a directory or archive, optionally
with a glow ring emission mask.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose && opts.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			return opts.config.Err()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, "log-json", false, "emit logs as JSON")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newBatchCmd(opts))
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newModesCmd())
	rootCmd.AddCommand(newArchiveCmd(opts))

	return rootCmd
}

// logger builds the command logger writing to w.
func (o *globalOptions) logger(w io.Writer) hclog.Logger {
	level := hclog.Info
	switch {
	case o.verbose:
		level = hclog.Debug
	case o.quiet:
		level = hclog.Error
	}

	colour := hclog.ColorOff
	if !o.logJSON && isTerminal(w) {
		colour = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "iristint",
		Output:     w,
		Level:      level,
		JSONFormat: o.logJSON,
		Color:      colour,
	})
}

// progress prints a user-facing status line unless --quiet is set.
func (o *globalOptions) progress(w io.Writer, format string, args ...any) {
	if o.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) // #nosec G115 - File descriptors fit in int
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd())) // #nosec G115 - File descriptors fit in int
	if err != nil {
		return 0
	}
	return width
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
