package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/iristint/internal/compression"
	"github.com/jmylchreest/iristint/internal/security"
)

func newArchiveCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect batch archives",
	}
	cmd.AddCommand(newArchiveListCmd())
	cmd.AddCommand(newArchiveCatCmd())
	cmd.AddCommand(newArchiveExtractCmd(global))
	return cmd
}

func newArchiveListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list FILE",
		Short: "List the entries of a batch archive",
		Long:  `List the files stored in a .zip, .tar.gz or .tar.xz batch archive.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := compression.List(args[0])
			if err != nil {
				return err
			}

			table := NewTable("NAME", "SIZE")
			for _, e := range entries {
				table.AddRow(e.Name, strconv.FormatInt(e.Size, 10))
			}
			_, err = table.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newArchiveCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE NAME",
		Short: "Write one archive entry to stdout",
		Long: `Write the contents of a single archive entry to stdout.

Examples:
  iristint archive cat magical_eyes_1a2b3c4d.zip manifest.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := compression.ReadFile(args[0], args[1])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newArchiveExtractCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "extract FILE [DIR]",
		Short: "Unpack a batch archive into a directory",
		Long: `Unpack every file of a batch archive into DIR. Without DIR the archive
name minus its extension is used, e.g. magical_eyes_1a2b3c4d.tar.xz is
unpacked into magical_eyes_1a2b3c4d/.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := args[0]
			dir := compression.TrimExt(archive)
			if len(args) == 2 {
				dir = args[1]
			}
			if dir == archive {
				return fmt.Errorf("cannot infer output directory for %q", archive)
			}

			n, err := extractArchive(archive, dir)
			if err != nil {
				return err
			}
			global.progress(cmd.ErrOrStderr(), "✓ Extracted %d files → %s\n", n, dir)
			return nil
		},
	}
}

func extractArchive(archive, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directories are user-facing
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	n := 0
	err := compression.Walk(archive, func(entry compression.Entry, r io.Reader) error {
		if err := security.ValidateEntryName(entry.Name); err != nil {
			return fmt.Errorf("refusing to extract %q: %w", entry.Name, err)
		}
		path := filepath.Join(dir, filepath.FromSlash(entry.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Output directories are user-facing
			return fmt.Errorf("failed to create directory for %s: %w", entry.Name, err)
		}

		f, err := os.Create(path) // #nosec G304 - Entry name validated above
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if _, err := io.Copy(f, r); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		n++
		return nil
	})
	return n, err
}
