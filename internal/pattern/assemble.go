package pattern

import (
	"sort"

	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/palette"
)

// Grid is the stitch grid. Cells and Entries are indexed [y][x].
type Grid struct {
	Width   int
	Height  int
	Cells   [][]rune
	Entries [][]palette.Entry
}

// At returns the glyph and thread at column x, row y.
func (g *Grid) At(x, y int) (rune, palette.Entry) {
	return g.Cells[y][x], g.Entries[y][x]
}

// LegendItem is one thread used by the pattern.
type LegendItem struct {
	Glyph rune
	Entry palette.Entry
	Count int
}

// Assemble builds the stitch grid and legend from a per-pixel cluster
// assignment. assignment is row-major (index y*width + x) and each value
// indexes clusterEntries.
//
// The legend holds one item per thread with at least one stitch, sorted by
// stitch count, most used first; equal counts keep the order in which the
// threads first appear scanning the grid row by row. The counts always sum
// to width*height.
func Assemble(width, height int, assignment []int, clusterEntries []palette.Entry, symbols *SymbolMap) (*Grid, []LegendItem, error) {
	if width < 0 || height < 0 {
		return nil, nil, errors.Classify(
			errors.Newf("invalid grid size %dx%d", width, height),
			errors.ErrInvalidAssignment,
		)
	}
	if len(assignment) != width*height {
		return nil, nil, errors.Classify(
			errors.Newf("assignment has %d pixels, want %d for a %dx%d grid", len(assignment), width*height, width, height),
			errors.ErrInvalidAssignment,
		)
	}

	grid := &Grid{
		Width:   width,
		Height:  height,
		Cells:   make([][]rune, height),
		Entries: make([][]palette.Entry, height),
	}

	var legend []LegendItem
	position := make(map[string]int)

	for y := 0; y < height; y++ {
		grid.Cells[y] = make([]rune, width)
		grid.Entries[y] = make([]palette.Entry, width)
		for x := 0; x < width; x++ {
			i := y*width + x
			cluster := assignment[i]
			if cluster < 0 || cluster >= len(clusterEntries) {
				return nil, nil, errors.Classify(
					errors.Newf("pixel (%d,%d) has cluster %d, want 0..%d", x, y, cluster, len(clusterEntries)-1),
					errors.ErrInvalidAssignment,
				)
			}

			entry := clusterEntries[cluster]
			glyph, ok := symbols.Glyph(entry.ID)
			if !ok {
				return nil, nil, errors.Classify(
					errors.Newf("no glyph allocated for %s", entry),
					errors.ErrInvalidAssignment,
				)
			}

			grid.Cells[y][x] = glyph
			grid.Entries[y][x] = entry

			p, seen := position[entry.ID]
			if !seen {
				p = len(legend)
				position[entry.ID] = p
				legend = append(legend, LegendItem{Glyph: glyph, Entry: entry})
			}
			legend[p].Count++
		}
	}

	sort.SliceStable(legend, func(i, j int) bool {
		return legend[i].Count > legend[j].Count
	})

	return grid, legend, nil
}
