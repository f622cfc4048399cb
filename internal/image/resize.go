package image

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
)

// Interpolation selects the resampling kernel used by Resize.
type Interpolation int

const (
	// AutoInterpolation leaves the choice to the caller's context; Resize
	// treats it as CatmullRom.
	AutoInterpolation Interpolation = iota
	// CatmullRom is a high quality cubic kernel, close to Lanczos. It
	// blends colours across hard edges.
	CatmullRom
	// BiLinear is faster and softer.
	BiLinear
	// NearestNeighbor keeps hard pixel edges and never invents colours,
	// which suits pixel art.
	NearestNeighbor
)

var interpolationNames = map[Interpolation]string{
	AutoInterpolation: "auto",
	CatmullRom:        "catmullrom",
	BiLinear:          "bilinear",
	NearestNeighbor:   "nearest",
}

// InterpolationNames returns the names accepted by ParseInterpolation.
func InterpolationNames() []string {
	return []string{"auto", "catmullrom", "bilinear", "nearest"}
}

// ParseInterpolation returns the kernel with the given name. The empty
// string means AutoInterpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return AutoInterpolation, nil
	}
	for interp, n := range interpolationNames {
		if n == name {
			return interp, nil
		}
	}
	return AutoInterpolation, errors.WithHintf(
		errors.Newf("unknown resampling kernel %q", name),
		"valid kernels: %s", strings.Join(InterpolationNames(), ", "),
	)
}

func (i Interpolation) String() string {
	if n, ok := interpolationNames[i]; ok {
		return n
	}
	return fmt.Sprintf("Interpolation(%d)", int(i))
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case BiLinear:
		return draw.BiLinear
	case NearestNeighbor:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// TargetSize returns the stitch grid dimensions for an image of w×h.
// The longer side becomes maxStitches; the shorter side is scaled by the
// same factor, truncated, and never below 1.
func TargetSize(w, h, maxStitches int) (int, int) {
	if w <= 0 || h <= 0 || maxStitches <= 0 {
		return 0, 0
	}
	if w >= h {
		return maxStitches, max(1, h*maxStitches/w)
	}
	return max(1, w*maxStitches/h), maxStitches
}

// Resize scales img to width×height. The result is always opaque; any
// transparency is composited over white.
func Resize(img image.Image, width, height int, interp Interpolation) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	interp.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// LoadResized decodes the image at path and resizes it with interp so that
// its longer side is maxStitches.
func LoadResized(path string, maxStitches int, interp Interpolation) (*image.RGBA, error) {
	if maxStitches < 1 {
		return nil, errors.Newf("max stitches must be at least 1, got %d", maxStitches)
	}

	img, err := NewFileLoader().Load(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := TargetSize(b.Dx(), b.Dy(), maxStitches)
	if w == 0 || h == 0 {
		return nil, errors.WithDetailf(
			errors.Classify(errors.Newf("image has no pixels (%dx%d)", b.Dx(), b.Dy()), errors.ErrImageDecode),
			"image: %s", path,
		)
	}
	return Resize(img, w, h, interp), nil
}

// Pixels flattens img into row-major order: pixel (x, y) is at index
// y*width + x relative to the image bounds.
func Pixels(img image.Image) []colour.RGB {
	b := img.Bounds()
	out := make([]colour.RGB, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, colour.ToRGB(img.At(x, y)))
		}
	}
	return out
}
