// Package render draws finished patterns as console text, text files and
// PNG charts.
package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/pattern"
)

const (
	// DefaultConsoleWidth is the widest grid, in stitches, shown on the
	// console.
	DefaultConsoleWidth = 50
	// DefaultMaxConsoleRows is the number of grid rows shown on the console
	// before the view is cut short.
	DefaultMaxConsoleRows = 100

	// rulerEvery is the spacing of the counting lines.
	rulerEvery = 10
	ruleWidth  = 50
)

// ConsoleOptions controls RenderConsole.
type ConsoleOptions struct {
	// Width is the widest grid shown; wider grids only get a summary.
	// Zero means DefaultConsoleWidth; use AutoConsoleWidth to size from
	// the terminal.
	Width int
	// MaxRows is the number of rows shown before truncating. Zero means
	// DefaultMaxConsoleRows.
	MaxRows int
	// Colour draws each glyph on its thread colour with ANSI escapes.
	Colour bool
}

// ConsoleResult is the console view of a grid.
type ConsoleResult struct {
	Text string
	// NeedsFile is set when the grid is too large to be useful on the
	// console and should be written to a file instead.
	NeedsFile bool
}

// AutoConsoleWidth returns the number of stitches that fit on the terminal
// attached to stdout, each stitch taking two columns. It falls back to
// DefaultConsoleWidth when stdout is not a terminal.
func AutoConsoleWidth() int {
	fd := int(os.Stdout.Fd()) // #nosec G115 - file descriptors fit in int
	if !term.IsTerminal(fd) {
		return DefaultConsoleWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w < 2 {
		return DefaultConsoleWidth
	}
	return w / 2
}

// RenderConsole formats grid for the terminal: a column header every ten
// stitches, a label on each row, '|' between blocks of ten columns and a
// '+' ruler between blocks of ten rows.
func RenderConsole(grid *pattern.Grid, opts ConsoleOptions) ConsoleResult {
	width := opts.Width
	if width <= 0 {
		width = DefaultConsoleWidth
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxConsoleRows
	}

	if grid.Width == 0 || grid.Height == 0 {
		return ConsoleResult{Text: "Empty pattern"}
	}
	if grid.Width > width {
		return ConsoleResult{
			Text:      fmt.Sprintf("Pattern is too wide for the console (%dx%d)\nSave it to a file to view it", grid.Width, grid.Height),
			NeedsFile: true,
		}
	}

	shown := min(grid.Height, maxRows)
	label := max(len(fmt.Sprint(shown-1)), 2)
	indent := strings.Repeat(" ", label+1)

	var b strings.Builder

	b.WriteString(indent)
	for x := 0; x < grid.Width; x++ {
		if x%rulerEvery == 0 && x != 0 {
			b.WriteByte(' ')
		}
		if x%rulerEvery == 0 {
			fmt.Fprintf(&b, "%-2d", x)
		} else {
			b.WriteString("  ")
		}
	}
	b.WriteByte('\n')

	for y := 0; y < shown; y++ {
		fmt.Fprintf(&b, "%*d ", label, y)
		for x := 0; x < grid.Width; x++ {
			if x%rulerEvery == 0 && x != 0 {
				b.WriteByte('|')
			}
			glyph, entry := grid.At(x, y)
			if opts.Colour {
				b.WriteString(colour.GlyphPreview(entry.Color, glyph))
			} else {
				b.WriteRune(glyph)
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')

		if y%rulerEvery == rulerEvery-1 && y != grid.Height-1 && y != shown-1 {
			b.WriteString(indent)
			for x := 0; x < grid.Width; x++ {
				if x%rulerEvery == 0 && x != 0 {
					b.WriteByte('+')
				}
				b.WriteString("--")
			}
			b.WriteByte('\n')
		}
	}

	if shown < grid.Height {
		fmt.Fprintf(&b, "... (showing %d of %d rows)\n", shown, grid.Height)
	}

	return ConsoleResult{Text: b.String(), NeedsFile: shown < grid.Height}
}

// Title returns the pattern heading, e.g. "CROSS-STITCH PATTERN - 40x30 STITCHES".
func Title(p *pattern.Pattern) string {
	return fmt.Sprintf("CROSS-STITCH PATTERN - %dx%d STITCHES", p.Width(), p.Height())
}

// LegendLine formats one legend item as "glyph : ID (Name) - N stitches".
func LegendLine(item pattern.LegendItem) string {
	return fmt.Sprintf("%c : %s - %d stitches", item.Glyph, item.Entry, item.Count)
}

// WriteText writes the full pattern as plain text: a header, every grid
// row with '|' between blocks of ten columns and a dashed line between
// blocks of ten rows, then the legend.
func WriteText(w io.Writer, p *pattern.Pattern) error {
	bw := bufio.NewWriter(w)
	grid := p.Grid

	fmt.Fprintln(bw, Title(p))
	fmt.Fprintln(bw, strings.Repeat("=", ruleWidth))
	fmt.Fprintf(bw, "Size: %d x %d stitches\n", grid.Width, grid.Height)
	fmt.Fprintf(bw, "Colours: %d\n", p.Colours())
	fmt.Fprintln(bw)

	separator := strings.Repeat("-", grid.Width*2+10)
	row := make([]rune, 0, grid.Width+grid.Width/rulerEvery)
	for y := 0; y < grid.Height; y++ {
		if y%rulerEvery == 0 && y != 0 {
			fmt.Fprintln(bw, separator)
		}
		row = row[:0]
		for x := 0; x < grid.Width; x++ {
			if x%rulerEvery == 0 && x != 0 {
				row = append(row, '|')
			}
			row = append(row, grid.Cells[y][x])
		}
		fmt.Fprintf(bw, "%3d: %s\n", y, string(row))
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, strings.Repeat("=", ruleWidth))
	fmt.Fprintln(bw, "LEGEND:")
	for _, item := range p.Legend {
		fmt.Fprintln(bw, LegendLine(item))
	}

	return bw.Flush()
}

// TextFilename returns the default text output name for a pattern.
func TextFilename(width, height, colours int) string {
	return fmt.Sprintf("scheme_%dx%d_%dcolors.txt", width, height, colours)
}

// SaveText writes the pattern to path.
func SaveText(path string, p *pattern.Pattern) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return errors.Wrap(err, "failed to create text file")
	}
	if err := WriteText(f, p); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to write text file")
	}
	return f.Close()
}
