package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/pattern"
)

const (
	// DefaultCellSize is the side of one stitch in pixels.
	DefaultCellSize = 20
	// MinCellSize is the smallest cell that still fits a readable glyph.
	MinCellSize = 4

	margin          = 100
	titleTop        = 20
	titleFontSize   = 20
	labelFontSize   = 14
	legendGap       = 50
	legendSwatch    = 20
	legendTextInset = 30
	legendItemPad   = 20
	legendRowHeight = 40
)

var (
	lightGrey = color.RGBA{R: 211, G: 211, B: 211, A: 255}
	grey      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// BitmapOptions controls RenderBitmap.
type BitmapOptions struct {
	// CellSize is the side of one stitch in pixels. Zero means
	// DefaultCellSize.
	CellSize int
	// FontPath is a TrueType font file. Empty uses Go Regular.
	FontPath string
}

// LoadFont parses the TrueType font at path, or returns Go Regular when
// path is empty.
func LoadFont(path string) (*truetype.Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path) // #nosec G304 - User-specified font path, intended to be read
		if err != nil {
			return nil, errors.Wrap(err, "failed to read font")
		}
		data = b
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse font")
	}
	return f, nil
}

// faces holds the three text sizes used on a chart.
type faces struct {
	title, label, glyph font.Face
}

func newFaces(f *truetype.Font, cellSize int) faces {
	face := func(size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	return faces{
		title: face(titleFontSize),
		label: face(labelFontSize),
		glyph: face(max(1, float64(cellSize)*0.6)),
	}
}

func (f faces) Close() {
	_ = f.title.Close()
	_ = f.label.Close()
	_ = f.glyph.Close()
}

// RenderBitmap draws the pattern as a printable chart: a title, the grid
// with every cell filled in its thread colour and marked with its glyph,
// counting lines and numbers every ten stitches, and the legend below.
func RenderBitmap(p *pattern.Pattern, opts BitmapOptions) (*image.RGBA, error) {
	cell := opts.CellSize
	if cell == 0 {
		cell = DefaultCellSize
	}
	if cell < MinCellSize {
		return nil, errors.Newf("cell size must be at least %d, got %d", MinCellSize, cell)
	}

	ttf, err := LoadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	fc := newFaces(ttf, cell)
	defer fc.Close()

	grid := p.Grid
	gridW, gridH := grid.Width*cell, grid.Height*cell

	title := Title(p)
	labels := make([]string, len(p.Legend))
	widths := make([]int, len(p.Legend))
	content := max(gridW, textWidth(fc.title, title))
	for i, item := range p.Legend {
		labels[i] = fmt.Sprintf("%c %s - %d stitches", item.Glyph, item.Entry, item.Count)
		widths[i] = legendTextInset + textWidth(fc.label, labels[i]) + legendItemPad
		content = max(content, widths[i])
	}

	canvasW := content + 2*margin
	legendTop := margin + gridH + legendGap
	slots, rows := flowLayout(widths, margin, canvasW-margin, legendTop, legendRowHeight)
	canvasH := legendTop + rows*legendRowHeight + margin/2

	img := image.NewRGBA(image.Rect(0, 0, canvasW, canvasH))
	fillRect(img, img.Bounds(), color.White)

	drawText(img, fc.title, (canvasW-textWidth(fc.title, title))/2, titleTop, title, color.Black)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			glyph, entry := grid.At(x, y)
			r := image.Rect(margin+x*cell, margin+y*cell, margin+(x+1)*cell, margin+(y+1)*cell)
			fillRect(img, r, entry.Color.RGBA())
			drawCentred(img, fc.glyph, r, string(glyph), colour.TextColourFor(entry.Color).RGBA())
		}
	}

	drawGrid(img, fc.label, grid.Width, grid.Height, cell)

	for i, item := range p.Legend {
		at := slots[i]
		fillRect(img, image.Rect(at.X, at.Y, at.X+legendSwatch, at.Y+legendSwatch), item.Entry.Color.RGBA())
		drawText(img, fc.label, at.X+legendTextInset, at.Y, labels[i], color.Black)
	}

	return img, nil
}

// drawGrid draws the counting lines over the cells: thin light grey lines
// between stitches and thicker grey ones every ten, numbered along the top
// and left edges.
func drawGrid(img *image.RGBA, face font.Face, w, h, cell int) {
	right, bottom := margin+w*cell, margin+h*cell

	for y := 0; y <= h; y++ {
		pos := margin + y*cell
		if y%rulerEvery == 0 {
			fillRect(img, image.Rect(margin, pos-1, right+1, pos+1), grey)
			if y > 0 {
				n := strconv.Itoa(y)
				drawText(img, face, margin-8-textWidth(face, n), pos-textHeight(face)/2, n, color.Black)
			}
			continue
		}
		fillRect(img, image.Rect(margin, pos, right, pos+1), lightGrey)
	}

	for x := 0; x <= w; x++ {
		pos := margin + x*cell
		if x%rulerEvery == 0 {
			fillRect(img, image.Rect(pos-1, margin, pos+1, bottom+1), grey)
			if x > 0 {
				n := strconv.Itoa(x)
				drawText(img, face, pos-textWidth(face, n)/2, margin-8-textHeight(face), n, color.Black)
			}
			continue
		}
		fillRect(img, image.Rect(pos, margin, pos+1, bottom), lightGrey)
	}
}

// flowLayout places items of the given widths left to right between left
// and right, starting a new row when the next item would cross right. An
// item wider than the row gets a row of its own. It returns the top-left
// corner of each item and the number of rows used.
func flowLayout(widths []int, left, right, top, rowHeight int) ([]image.Point, int) {
	if len(widths) == 0 {
		return nil, 0
	}
	out := make([]image.Point, len(widths))
	x, y, rows := left, top, 1
	for i, w := range widths {
		if x > left && x+w > right {
			x = left
			y += rowHeight
			rows++
		}
		out[i] = image.Pt(x, y)
		x += w
	}
	return out, rows
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

func textHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// drawText draws s with its top-left corner at (x, y).
func drawText(img draw.Image, face font.Face, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

// drawCentred draws s centred in r.
func drawCentred(img draw.Image, face font.Face, r image.Rectangle, s string, c color.Color) {
	x := r.Min.X + (r.Dx()-textWidth(face, s))/2
	y := r.Min.Y + (r.Dy()-textHeight(face))/2
	drawText(img, face, x, y, s, c)
}

// BitmapFilename returns the default chart name, e.g.
// "scheme_40x30_12colors.png".
func BitmapFilename(width, height, colours int) string {
	return fmt.Sprintf("scheme_%dx%d_%dcolors.png", width, height, colours)
}

// SavePNG encodes img as PNG at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path) // #nosec G304 - User-specified output path
	if err != nil {
		return errors.Wrap(err, "failed to create image file")
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to encode PNG")
	}
	return f.Close()
}
