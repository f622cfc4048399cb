package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/palette"
)

const swatchWidth = 4

func newPaletteCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect thread palettes",
		Long: `Inspect thread palettes.

Without --palette the embedded DMC palette is used. Palette files are JSON,
YAML or TOML, optionally compressed (` + "`.gz`, `.bz2`, `.xz`, `.zst`" + `).`,
	}
	cmd.PersistentFlags().StringP("palette", "p", "", "thread palette file (default embedded DMC)")

	cmd.AddCommand(newPaletteListCmd(g))
	cmd.AddCommand(newPaletteNearestCmd(g))
	cmd.AddCommand(newPaletteValidateCmd())

	return cmd
}

func newPaletteListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the threads of a palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, err := loadIndex(cfg.Palette, g.logger(cmd))
			if err != nil {
				return err
			}

			table := NewTable([]string{"ID", "Name", "Hex", "Swatch"})
			table.SetColumnMaxWidth(1, 30)
			for _, e := range idx.Entries() {
				table.AddRow([]string{e.ID, e.Name, e.Color.Hex(), colour.ColourPreview(e.Color, swatchWidth)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, table.Render())
			if !g.quiet {
				fmt.Fprintf(out, "\n%d threads from %s\n", idx.Len(), paletteName(cfg.Palette))
			}
			return nil
		},
	}
}

func newPaletteNearestCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <r> <g> <b> | <hex>",
		Short: "Find the thread closest to a colour",
		Example: `  xstitch palette nearest 200 40 60
  xstitch palette nearest "#c72b3b"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return errors.Newf("expected <r> <g> <b> or <hex>, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseColour(args)
			if err != nil {
				return err
			}
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			idx, err := loadIndex(cfg.Palette, g.logger(cmd))
			if err != nil {
				return err
			}

			e := idx.Nearest(c)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (distance %.1f)\n",
				colour.ColourPreview(e.Color, swatchWidth), e, e.Color.Hex(),
				math.Sqrt(float64(c.DistanceSq(e.Color))))
			return nil
		},
	}
}

func newPaletteValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a palette file loads and can be indexed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := palette.LoadFile(args[0])
			if err != nil {
				return err
			}
			idx, err := palette.NewIndex(entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d threads OK\n", args[0], idx.Len())
			return nil
		},
	}
}

// parseColour reads either three channel values or one hex colour.
func parseColour(args []string) (colour.RGB, error) {
	if len(args) == 1 {
		c, err := colour.ParseHex(args[0])
		if err != nil {
			return colour.RGB{}, errors.WithHint(err, "use #rrggbb or three values from 0 to 255")
		}
		return c, nil
	}

	var ch [3]int
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return colour.RGB{}, errors.Wrapf(err, "invalid channel %q", a)
		}
		ch[i] = v
	}
	c, err := colour.FromInts(ch[0], ch[1], ch[2])
	if err != nil {
		return colour.RGB{}, errors.WithHint(err, "use #rrggbb or three values from 0 to 255")
	}
	return c, nil
}
