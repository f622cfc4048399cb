package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/palette"
	"github.com/jmylchreest/xstitch/internal/pattern"
)

var (
	white = palette.Entry{ID: "Blanc", Name: "White", Color: colour.RGB{R: 255, G: 255, B: 255}}
	black = palette.Entry{ID: "310", Name: "Black", Color: colour.RGB{}}
)

// checkerboard builds a w×h pattern alternating white 'o' and black 'x'
// stitches, with a matching legend.
func checkerboard(t *testing.T, w, h int) *pattern.Pattern {
	t.Helper()
	clusters := []palette.Entry{white, black}
	symbols, err := pattern.AllocateSymbols(clusters, []rune("ox"))
	require.NoError(t, err)

	assignment := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			assignment[y*w+x] = (x + y) % 2
		}
	}
	grid, legend, err := pattern.Assemble(w, h, assignment, clusters, symbols)
	require.NoError(t, err)
	return &pattern.Pattern{Grid: grid, Legend: legend}
}

func TestRenderConsoleSmall(t *testing.T) {
	p := checkerboard(t, 3, 2)
	got := RenderConsole(p.Grid, ConsoleOptions{})

	want := "   0     \n" +
		" 0 o x o \n" +
		" 1 x o x \n"
	assert.Equal(t, want, got.Text)
	assert.False(t, got.NeedsFile)
}

func TestRenderConsoleRulers(t *testing.T) {
	p := checkerboard(t, 12, 12)
	got := RenderConsole(p.Grid, ConsoleOptions{})
	lines := strings.Split(strings.TrimSuffix(got.Text, "\n"), "\n")

	// Header, 12 rows and one horizontal ruler after row 9.
	require.Len(t, lines, 14)
	assert.True(t, strings.HasPrefix(lines[0], "   0                    10"), "header = %q", lines[0])
	assert.Equal(t, " 0 o x o x o x o x o x |o x ", lines[1])
	assert.Equal(t, "   --------------------+----", lines[11])
	assert.True(t, strings.HasPrefix(lines[12], "10 "), "row 10 = %q", lines[12])
	assert.False(t, got.NeedsFile)
}

func TestRenderConsoleTooWide(t *testing.T) {
	p := checkerboard(t, 51, 2)
	got := RenderConsole(p.Grid, ConsoleOptions{})
	assert.True(t, got.NeedsFile)
	assert.Contains(t, got.Text, "too wide")
	assert.Contains(t, got.Text, "51x2")

	// A wider console shows it.
	got = RenderConsole(p.Grid, ConsoleOptions{Width: 60})
	assert.False(t, got.NeedsFile)
}

func TestRenderConsoleTruncatesRows(t *testing.T) {
	p := checkerboard(t, 4, 30)
	got := RenderConsole(p.Grid, ConsoleOptions{MaxRows: 20})

	assert.True(t, got.NeedsFile)
	assert.Contains(t, got.Text, "... (showing 20 of 30 rows)")
	assert.NotContains(t, got.Text, "\n20 ")
	// No ruler directly above the truncation note.
	assert.NotContains(t, got.Text, "--------\n...")
}

func TestRenderConsoleColour(t *testing.T) {
	p := checkerboard(t, 2, 1)
	got := RenderConsole(p.Grid, ConsoleOptions{Colour: true})
	assert.Contains(t, got.Text, "\033[48;2;255;255;255m")
	assert.Contains(t, got.Text, "\033[48;2;0;0;0m")
}

func TestRenderConsoleEmpty(t *testing.T) {
	got := RenderConsole(&pattern.Grid{}, ConsoleOptions{})
	assert.Equal(t, "Empty pattern", got.Text)
	assert.False(t, got.NeedsFile)
}

func TestWriteText(t *testing.T) {
	p := checkerboard(t, 3, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))

	want := strings.Join([]string{
		"CROSS-STITCH PATTERN - 3x2 STITCHES",
		strings.Repeat("=", 50),
		"Size: 3 x 2 stitches",
		"Colours: 2",
		"",
		"  0: oxo",
		"  1: xox",
		"",
		strings.Repeat("=", 50),
		"LEGEND:",
		"o : Blanc (White) - 3 stitches",
		"x : 310 (Black) - 3 stitches",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteTextRulers(t *testing.T) {
	p := checkerboard(t, 11, 11)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))
	lines := strings.Split(buf.String(), "\n")

	assert.Equal(t, "  0: oxoxoxoxox|o", lines[5])
	assert.Equal(t, strings.Repeat("-", 11*2+10), lines[15])
	assert.Equal(t, " 10: oxoxoxoxox|o", lines[16])
}

func TestWriteTextIsReproducible(t *testing.T) {
	idx, err := palette.NewIndex(palette.Default())
	require.NoError(t, err)

	const w, h = 24, 16
	pixels := make([]colour.RGB, w*h)
	for i := range pixels {
		x, y := i%w, i/w
		pixels[i] = colour.RGB{R: uint8(x * 10), G: uint8(y * 15), B: uint8((x + y) * 5)}
	}

	render := func() []byte {
		opts := pattern.DefaultOptions()
		opts.Colours = 8
		p, err := pattern.NewRun(idx, opts, nil).FromPixels(context.Background(), w, h, pixels)
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, p))
		return buf.Bytes()
	}

	first, second := render(), render()
	assert.Equal(t, string(first), string(second))
}

func TestSaveText(t *testing.T) {
	p := checkerboard(t, 2, 2)
	path := filepath.Join(t.TempDir(), TextFilename(2, 2, 2))

	require.NoError(t, SaveText(path, p))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "CROSS-STITCH PATTERN - 2x2 STITCHES\n"))
	assert.Equal(t, "scheme_2x2_2colors.txt", filepath.Base(path))
}
