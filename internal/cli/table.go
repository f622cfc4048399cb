package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiEscape matches SGR colour sequences, which take no space on screen.
var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// displayWidth returns the number of terminal columns s occupies, counting
// one per rune and ignoring colour escapes.
func displayWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

// Table lays out rows in aligned columns. Cells may hold multi-byte glyphs
// and ANSI swatches.
type Table struct {
	headers   []string
	rows      [][]string
	padding   int
	maxWidths map[int]int // column index -> wrap width; absent or 0 = no limit
}

// NewTable creates a table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		padding:   2,
		maxWidths: make(map[int]int),
	}
}

// SetColumnMaxWidth wraps cells of column col at word boundaries so they
// fit in width columns.
func (t *Table) SetColumnMaxWidth(col int, width int) {
	t.maxWidths[col] = width
}

// AddRow appends a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	cells := make([]string, len(t.headers))
	copy(cells, row)
	t.rows = append(t.rows, cells)
}

// Render returns the table: a header, a dashed separator and one or more
// lines per row.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	wrapped := t.wrapRows()
	widths := t.columnWidths(wrapped)
	gap := strings.Repeat(" ", t.padding)

	var b strings.Builder
	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = padRight(c, widths[i])
		}
		b.WriteString(strings.Join(parts, gap))
		b.WriteByte('\n')
	}

	writeLine(t.headers)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	writeLine(rule)

	for _, row := range wrapped {
		for line := 0; line < lineCount(row); line++ {
			cells := make([]string, len(row))
			for i, lines := range row {
				if line < len(lines) {
					cells[i] = lines[line]
				}
			}
			writeLine(cells)
		}
	}

	return b.String()
}

// wrapRows splits every cell into the lines it occupies.
func (t *Table) wrapRows() [][][]string {
	out := make([][][]string, len(t.rows))
	for r, row := range t.rows {
		out[r] = make([][]string, len(row))
		for c, cell := range row {
			out[r][c] = wrapText(cell, t.maxWidths[c])
		}
	}
	return out
}

// columnWidths sizes each column to its widest line. A column with a wrap
// width whose content overflows the header is sized to the wrap width.
func (t *Table) columnWidths(wrapped [][][]string) []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range wrapped {
		for c, lines := range row {
			for _, line := range lines {
				w := displayWidth(line)
				if w <= widths[c] {
					continue
				}
				if limit := t.maxWidths[c]; limit > 0 {
					w = max(limit, widths[c])
				}
				widths[c] = w
			}
		}
	}
	return widths
}

func lineCount(row [][]string) int {
	n := 1
	for _, lines := range row {
		n = max(n, len(lines))
	}
	return n
}

// padRight pads s with spaces to width display columns.
func padRight(s string, width int) string {
	if w := displayWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// wrapText breaks text into lines of at most width runes at word
// boundaries, splitting words longer than width. width <= 0 disables
// wrapping.
func wrapText(text string, width int) []string {
	if width <= 0 || displayWidth(text) <= width {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	line := ""
	for _, word := range words {
		runes := []rune(word)
		if len(runes) > width {
			if line != "" {
				lines = append(lines, line)
			}
			for len(runes) > width {
				lines = append(lines, string(runes[:width]))
				runes = runes[width:]
			}
			line = string(runes)
			continue
		}

		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+len(runes) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
