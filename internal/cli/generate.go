package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/config"
	"github.com/jmylchreest/xstitch/internal/errors"
	imageio "github.com/jmylchreest/xstitch/internal/image"
	"github.com/jmylchreest/xstitch/internal/palette"
	"github.com/jmylchreest/xstitch/internal/pattern"
	"github.com/jmylchreest/xstitch/internal/render"
)

func newGenerateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <image>",
		Short: "Generate a cross-stitch pattern from an image",
		Long: `Generate a cross-stitch pattern from an image.

The pattern is printed to the console when it fits. Larger patterns, or any
pattern given --output, are written as text; --format png renders a chart
with coloured cells, grid numbers and a legend.

Supported image formats: ` + strings.Join(imageio.SupportedImageExtensions(), ", ") + `

Examples:
  # 100 stitches wide, 12 DMC colours, printed to the console
  xstitch generate photo.jpg -s 40

  # Median cut with 20 colours, text and PNG written to ./out
  xstitch generate photo.jpg -c 20 -a mediancut -f both -o out/

  # A custom thread palette and glyph set
  xstitch generate photo.jpg -p anchor.yaml --alphabet "ABCDEFGH"

  # Snap every pixel directly, keeping the first 8 threads found
  xstitch generate pixelart.png --direct -c 8

  # Downscale a photo with hard edges kept
  xstitch generate logo.png -s 60 --resample nearest`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], g)
		},
	}

	algorithms := make([]string, 0, len(colour.ValidAlgorithms()))
	for _, a := range colour.ValidAlgorithms() {
		algorithms = append(algorithms, string(a))
	}

	f := cmd.Flags()
	f.IntP("stitches", "s", pattern.DefaultStitches, "stitches along the longer side")
	f.IntP("colours", "c", pattern.DefaultColours, "maximum number of thread colours")
	f.StringP("algorithm", "a", string(colour.AlgorithmKMeans), "quantization algorithm ("+strings.Join(algorithms, ", ")+")")
	f.Int64("seed", 0, "seed for randomised clustering")
	f.StringP("palette", "p", "", "thread palette file (default embedded DMC)")
	f.StringP("format", "f", config.FormatText, "file format ("+strings.Join(config.Formats(), ", ")+")")
	f.StringP("output", "o", "", "output file or directory")
	f.Int("cell-size", render.DefaultCellSize, "PNG cell size in pixels")
	f.String("font", "", "TrueType font for PNG glyphs and labels")
	f.Int("console-width", render.DefaultConsoleWidth, "widest pattern printed to the console (0 = terminal width)")
	f.String("alphabet", "", "glyphs to assign to threads, in order")
	f.Bool("direct", false, "snap each pixel to the palette without clustering")
	f.String("resample", imageio.AutoInterpolation.String(), "resampling kernel ("+strings.Join(imageio.InterpolationNames(), ", ")+"); auto is nearest with --direct")
	f.Bool("ansi", false, "colour console glyphs with their thread colour")

	return cmd
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, source string, g *globalFlags) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := g.logger(cmd)
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	info, err := imageio.Inspect(source)
	if err != nil {
		return err
	}
	logger.Debug("source image", "path", source, "format", info.Format, "width", info.Width, "height", info.Height)

	idx, err := loadIndex(cfg.Palette, logger)
	if err != nil {
		return err
	}

	p, err := pattern.Generate(cmd.Context(), source, idx, cfg.PatternOptions(), logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	width := cfg.ConsoleWidth
	if width == 0 {
		width = render.AutoConsoleWidth()
	}
	view := render.RenderConsole(p.Grid, render.ConsoleOptions{
		Width:  width,
		Colour: cfg.ANSI,
	})

	if !g.quiet {
		fmt.Fprintln(out, render.Title(p))
		fmt.Fprintln(out, strings.TrimRight(view.Text, "\n"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "LEGEND:")
		for _, item := range p.Legend {
			fmt.Fprintln(out, render.LegendLine(item))
		}
	}

	both := cfg.Format == config.FormatBoth
	if cfg.WantsText() && (view.NeedsFile || cfg.Output != "") {
		path, err := outputPath(cfg.Output, render.TextFilename(p.Width(), p.Height(), p.Colours()), both)
		if err != nil {
			return err
		}
		if err := render.SaveText(path, p); err != nil {
			return err
		}
		saved(cmd, g, logger, path)
	}

	if cfg.WantsPNG() {
		path, err := outputPath(cfg.Output, render.BitmapFilename(p.Width(), p.Height(), p.Colours()), both)
		if err != nil {
			return err
		}
		img, err := render.RenderBitmap(p, render.BitmapOptions{CellSize: cfg.CellSize, FontPath: cfg.Font})
		if err != nil {
			return err
		}
		if err := render.SavePNG(path, img); err != nil {
			return err
		}
		saved(cmd, g, logger, path)
	}

	return nil
}

// loadIndex loads the thread palette at path, or the embedded DMC palette
// when path is empty, and indexes it.
func loadIndex(path string, logger hclog.Logger) (palette.Index, error) {
	entries, err := palette.Load(path)
	if err != nil {
		return nil, err
	}
	idx, err := palette.NewIndex(entries)
	if err != nil {
		return nil, err
	}
	logger.Debug("palette loaded", "source", paletteName(path), "entries", idx.Len())
	return idx, nil
}

func paletteName(path string) string {
	if path == "" {
		return palette.DefaultName
	}
	return path
}

// outputPath resolves where a file named defaultName is written. An empty
// output means the working directory, an existing directory or a path
// ending in a separator receives defaultName, and anything else is used as
// the file name. With multiple formats the extension of output is replaced
// by that of defaultName.
func outputPath(output, defaultName string, multiple bool) (string, error) {
	if output == "" {
		return defaultName, nil
	}

	if strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(os.PathSeparator)) {
		if err := os.MkdirAll(output, 0o755); err != nil { // #nosec G301 - user output directory
			return "", errors.Wrap(err, "failed to create output directory")
		}
		return filepath.Join(output, defaultName), nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, defaultName), nil
	}

	if multiple {
		return strings.TrimSuffix(output, filepath.Ext(output)) + filepath.Ext(defaultName), nil
	}
	return output, nil
}

func saved(cmd *cobra.Command, g *globalFlags, logger hclog.Logger, path string) {
	logger.Debug("pattern written", "path", path)
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	}
}
