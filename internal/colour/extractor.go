package colour

import (

	"github.com/jmylchreest/xstitch/internal/errors"
)

// Quantizer reduces a set of pixel colours to at most k representative
// colours.
type Quantizer interface {
	// Quantize clusters pixels into at most k groups. The returned
	// Assignment is parallel to pixels.
	Quantize(pixels []RGB, k int) (*Quantization, error)
}

// Quantization is the result of a Quantizer run.
type Quantization struct {
	// Centers holds one integer colour per non-empty cluster.
	Centers []RGB
	// Assignment maps each input pixel to an index into Centers.
	Assignment []int
	// Sizes holds the member count of each cluster.
	Sizes []int
}

// Len returns the number of clusters.
func (q *Quantization) Len() int {
	return len(q.Centers)
}

// Algorithm represents the quantization algorithm type.
type Algorithm string

const (
	// AlgorithmKMeans uses seeded k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmMedianCut uses median cut splitting.
	AlgorithmMedianCut Algorithm = "mediancut"
)

// MaxClusters is the largest cluster count a paletted image can index.
// MedianCutQuantizer clamps k to it; KMeansQuantizer has no upper bound.
const MaxClusters = 256

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmMedianCut,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// NewQuantizer creates a Quantizer for the given algorithm. The seed only
// affects algorithms with randomised initialisation.
func NewQuantizer(alg Algorithm, seed int64) (Quantizer, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeansQuantizer(seed), nil
	case AlgorithmMedianCut:
		return NewMedianCutQuantizer(), nil
	default:
		return nil, errors.WithHintf(errors.Newf("unknown algorithm %q", alg),
			"valid algorithms: %v", ValidAlgorithms())
	}
}

// checkClusterCount validates k.
func checkClusterCount(k int) error {
	if k < 1 {
		return errors.Classify(
			errors.Newf("cluster count must be at least 1, got %d", k),
			errors.ErrInvalidClusterCount,
		)
	}
	return nil
}

// compact drops clusters with no members and renumbers the remaining ones
// contiguously, keeping their relative order.
func compact(centers []RGB, assignment []int) *Quantization {
	sizes := make([]int, len(centers))
	for _, a := range assignment {
		sizes[a]++
	}

	remap := make([]int, len(centers))
	out := &Quantization{
		Centers:    make([]RGB, 0, len(centers)),
		Assignment: make([]int, len(assignment)),
		Sizes:      make([]int, 0, len(centers)),
	}
	for i, c := range centers {
		if sizes[i] == 0 {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.Centers)
		out.Centers = append(out.Centers, c)
		out.Sizes = append(out.Sizes, sizes[i])
	}
	for i, a := range assignment {
		out.Assignment[i] = remap[a]
	}
	return out
}
