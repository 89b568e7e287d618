package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/iristint/internal/colour"
	"github.com/jmylchreest/iristint/internal/transform"
)

// presetJSON is the machine-readable form of a preset.
type presetJSON struct {
	colour.Preset
	Hex string `json:"hex"`
}

func newPresetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the colour presets",
		Long:  `List every colour preset with its HSV triple, sRGB swatch and description.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := colour.Presets()

			if asJSON {
				items := make([]presetJSON, len(presets))
				for i, p := range presets {
					items[i] = presetJSON{Preset: p, Hex: p.Hex()}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			table := NewTable("ID", "NAME", "HEX", "H", "S", "V", "DESCRIPTION")
			for _, p := range presets {
				table.AddRow(p.ID, p.Name, p.Hex(),
					fmt.Sprintf("%.2f", p.Hue),
					fmt.Sprintf("%.2f", p.Saturation),
					fmt.Sprintf("%.2f", p.Value),
					p.Description)
			}
			if width := terminalWidth(out); width > 80 {
				table.SetColumnMaxWidth(6, width-70)
			}
			_, err := table.WriteTo(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the transform modes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable("MODE", "DESCRIPTION")
			for _, m := range transform.Modes() {
				table.AddRow(m.String(), m.Description())
			}
			_, err := table.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
