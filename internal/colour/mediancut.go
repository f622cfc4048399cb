package colour

import (
	"image"

	"github.com/soniakeys/quant/median"
)

// MedianCutQuantizer implements colour quantization by repeatedly splitting
// the most populated colour box at the median of its widest channel. It is
// deterministic and needs no seed.
type MedianCutQuantizer struct{}

// NewMedianCutQuantizer creates a new MedianCutQuantizer.
func NewMedianCutQuantizer() *MedianCutQuantizer {
	return &MedianCutQuantizer{}
}

// Quantize clusters pixels into at most k colours. k is clamped to
// MaxClusters, as median.Quantizer.Paletted does, because the paletted
// result indexes colours with a byte. k == 1 is computed here: Paletted
// does no clustering below two colours.
func (q *MedianCutQuantizer) Quantize(pixels []RGB, k int) (*Quantization, error) {
	if err := checkClusterCount(k); err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return &Quantization{}, nil
	}
	k = min(k, MaxClusters)

	if k == 1 {
		return meanQuantization(pixels), nil
	}

	// Lay the pixels out as a single row; the quantizer only looks at colours.
	img := image.NewRGBA(image.Rect(0, 0, len(pixels), 1))
	for i, p := range pixels {
		img.SetRGBA(i, 0, p.RGBA())
	}

	paletted := median.Quantizer(k).Paletted(img)

	centers := make([]RGB, len(paletted.Palette))
	for i, c := range paletted.Palette {
		centers[i] = ToRGB(c)
	}
	assignment := make([]int, len(pixels))
	for i := range pixels {
		assignment[i] = int(paletted.ColorIndexAt(i, 0))
	}
	return compact(centers, assignment), nil
}

// meanQuantization collapses every pixel into one cluster at the mean colour.
func meanQuantization(pixels []RGB) *Quantization {
	var sum point3D
	for _, p := range pixels {
		sum.R += float64(p.R)
		sum.G += float64(p.G)
		sum.B += float64(p.B)
	}
	n := float64(len(pixels))
	mean := point3D{R: sum.R / n, G: sum.G / n, B: sum.B / n}

	return &Quantization{
		Centers:    []RGB{mean.rounded()},
		Assignment: make([]int, len(pixels)),
		Sizes:      []int{len(pixels)},
	}
}
