package pattern

import (
	"context"
	"image"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
	imageio "github.com/jmylchreest/xstitch/internal/image"
	"github.com/jmylchreest/xstitch/internal/logging"
	"github.com/jmylchreest/xstitch/internal/palette"
)

// Default option values.
const (
	DefaultStitches = 100
	DefaultColours  = 12
)

// Options configures a pipeline run.
type Options struct {
	// Stitches is the length of the longer side of the grid.
	Stitches int
	// Colours is the maximum number of clusters (or, in direct mode, of
	// distinct threads).
	Colours int
	// Algorithm selects the quantizer.
	Algorithm colour.Algorithm
	// Seed drives randomised quantizer initialisation.
	Seed int64
	// Alphabet is the ordered glyph list. Nil means DefaultAlphabet.
	Alphabet []rune
	// Direct snaps every pixel to the palette instead of clustering first.
	Direct bool
	// Resample is the kernel used to scale the image onto the grid.
	// AutoInterpolation picks NearestNeighbor in direct mode, where blended
	// edge colours would take thread slots, and CatmullRom otherwise.
	Resample imageio.Interpolation
}

// Interpolation resolves Resample.
func (o Options) Interpolation() imageio.Interpolation {
	switch {
	case o.Resample != imageio.AutoInterpolation:
		return o.Resample
	case o.Direct:
		return imageio.NearestNeighbor
	default:
		return imageio.CatmullRom
	}
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Stitches:  DefaultStitches,
		Colours:   DefaultColours,
		Algorithm: colour.AlgorithmKMeans,
	}
}

// Pattern is a finished cross-stitch pattern.
type Pattern struct {
	Grid      *Grid
	Legend    []LegendItem
	Source    string
	Algorithm colour.Algorithm
	Seed      int64
	Direct    bool
	RunID     string
}

// Width returns the grid width in stitches.
func (p *Pattern) Width() int { return p.Grid.Width }

// Height returns the grid height in stitches.
func (p *Pattern) Height() int { return p.Grid.Height }

// Colours returns the number of threads used.
func (p *Pattern) Colours() int { return len(p.Legend) }

// Stitches returns the total stitch count.
func (p *Pattern) Stitches() int {
	n := 0
	for _, item := range p.Legend {
		n += item.Count
	}
	return n
}

// Run holds the state of one pipeline execution. Each stage reads the
// previous stage's fields and fills in its own; nothing is shared between
// runs apart from the read-only palette index.
type Run struct {
	ID      string
	Options Options
	Index   palette.Index
	Logger  hclog.Logger

	Width  int
	Height int
	Pixels []colour.RGB

	Quantization   *colour.Quantization
	ClusterEntries []palette.Entry
	Symbols        *SymbolMap
}

type stage struct {
	name string
	fn   func() error
}

// NewRun creates a run over idx. A nil logger discards output.
func NewRun(idx palette.Index, opts Options, logger hclog.Logger) *Run {
	id := uuid.NewString()
	return &Run{
		ID:      id,
		Options: opts,
		Index:   idx,
		Logger:  logging.OrNull(logger).With("run", id),
	}
}

// Generate loads the image at source, resizes it to the stitch grid and
// runs the full pipeline.
func Generate(ctx context.Context, source string, idx palette.Index, opts Options, logger hclog.Logger) (*Pattern, error) {
	r := NewRun(idx, opts, logger)

	interp := opts.Interpolation()
	img, err := imageio.LoadResized(source, opts.Stitches, interp)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("image loaded", "stage", "load", "source", source, "resample", interp,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	p, err := r.FromImage(ctx, img)
	if err != nil {
		return nil, err
	}
	p.Source = source
	return p, nil
}

// FromImage runs the pipeline over an image that is already at grid size:
// one pixel per stitch.
func (r *Run) FromImage(ctx context.Context, img image.Image) (*Pattern, error) {
	b := img.Bounds()
	return r.FromPixels(ctx, b.Dx(), b.Dy(), imageio.Pixels(img))
}

// FromPixels runs the pipeline over row-major pixels of a width×height
// grid. The context is checked between stages.
func (r *Run) FromPixels(ctx context.Context, width, height int, pixels []colour.RGB) (*Pattern, error) {
	if r.Index == nil {
		return nil, errors.Classify(errors.New("no reference palette"), errors.ErrEmptyPalette)
	}
	if len(pixels) != width*height {
		return nil, errors.Classify(
			errors.Newf("got %d pixels for a %dx%d grid", len(pixels), width, height),
			errors.ErrInvalidAssignment,
		)
	}
	r.Width, r.Height, r.Pixels = width, height, pixels

	stages := []stage{
		{"quantize", r.quantize},
		{"snap", r.snap},
		{"symbols", r.allocate},
	}
	if r.Options.Direct {
		stages = []stage{
			{"direct", r.direct},
			{"symbols", r.allocate},
		}
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.fn(); err != nil {
			return nil, errors.Wrapf(err, "%s stage", s.name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid, legend, err := Assemble(width, height, r.Quantization.Assignment, r.ClusterEntries, r.Symbols)
	if err != nil {
		return nil, errors.Wrap(err, "assemble stage")
	}
	r.Logger.Debug("stage complete", "stage", "assemble", "threads", len(legend))

	return &Pattern{
		Grid:      grid,
		Legend:    legend,
		Algorithm: r.Options.Algorithm,
		Seed:      r.Options.Seed,
		Direct:    r.Options.Direct,
		RunID:     r.ID,
	}, nil
}

func (r *Run) quantize() error {
	q, err := colour.NewQuantizer(r.Options.Algorithm, r.Options.Seed)
	if err != nil {
		return err
	}
	result, err := q.Quantize(r.Pixels, r.Options.Colours)
	if err != nil {
		return errors.WithDetailf(err, "colours: %d", r.Options.Colours)
	}
	r.Quantization = result
	r.Logger.Debug("stage complete", "stage", "quantize",
		"algorithm", r.Options.Algorithm, "requested", r.Options.Colours, "clusters", result.Len())
	return nil
}

func (r *Run) snap() error {
	r.ClusterEntries = Snap(r.Quantization.Centers, r.Index)
	if r.Logger.IsDebug() {
		for i, c := range r.Quantization.Centers {
			r.Logger.Debug("cluster snapped", "stage", "snap", "cluster", i,
				"centre", c.Hex(), "thread", r.ClusterEntries[i].ID, "pixels", r.Quantization.Sizes[i])
		}
	}
	return nil
}

// allocate assigns glyphs in the order threads first appear in the grid, so
// the top-left thread always gets the first glyph.
func (r *Run) allocate() error {
	alphabet := r.Options.Alphabet
	if alphabet == nil {
		alphabet = DefaultAlphabet()
	}

	ordered := make([]palette.Entry, 0, len(r.ClusterEntries))
	seen := make(map[int]bool, len(r.ClusterEntries))
	for _, c := range r.Quantization.Assignment {
		if !seen[c] {
			seen[c] = true
			ordered = append(ordered, r.ClusterEntries[c])
		}
	}

	symbols, err := AllocateSymbols(ordered, alphabet)
	if err != nil {
		return err
	}
	r.Symbols = symbols

	for _, c := range symbols.Collisions() {
		r.Logger.Warn("glyph shared by several threads; alphabet exhausted",
			"glyph", string(c.Glyph), "threads", c.IDs, "alphabet", len(alphabet))
	}
	r.Logger.Debug("stage complete", "stage", "symbols", "threads", symbols.Len())
	return nil
}

// direct snaps each pixel to the palette and keeps the first Colours
// distinct threads in scan order. Pixels whose thread is not kept move to
// the nearest kept thread.
func (r *Run) direct() error {
	if r.Options.Colours < 1 {
		return errors.Classify(
			errors.Newf("colour count must be at least 1, got %d", r.Options.Colours),
			errors.ErrInvalidClusterCount,
		)
	}

	snapped := SnapPixels(r.Pixels, r.Index)

	var kept []palette.Entry
	position := make(map[string]int)
	for _, e := range snapped {
		if len(kept) == r.Options.Colours {
			break
		}
		if _, ok := position[e.ID]; !ok {
			position[e.ID] = len(kept)
			kept = append(kept, e)
		}
	}

	assignment := make([]int, len(snapped))
	sizes := make([]int, len(kept))
	var fallback palette.Index
	moved := 0
	for i, e := range snapped {
		p, ok := position[e.ID]
		if !ok {
			if fallback == nil {
				idx, err := palette.NewIndex(kept)
				if err != nil {
					return err
				}
				fallback = idx
			}
			p = position[fallback.Nearest(r.Pixels[i]).ID]
			moved++
		}
		assignment[i] = p
		sizes[p]++
	}

	centers := make([]colour.RGB, len(kept))
	for i, e := range kept {
		centers[i] = e.Color
	}
	r.Quantization = &colour.Quantization{Centers: centers, Assignment: assignment, Sizes: sizes}
	r.ClusterEntries = kept
	r.Logger.Debug("stage complete", "stage", "direct", "threads", len(kept), "remapped", moved)
	return nil
}
