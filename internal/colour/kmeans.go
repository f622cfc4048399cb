package colour

import (
	"math"
	"math/rand"
)

// KMeansQuantizer implements colour quantization using k-means clustering
// with k-means++ seeding. The random source is seeded from Seed, so equal
// inputs always produce equal outputs.
type KMeansQuantizer struct {
	MaxIterations int
	Seed          int64
}

// NewKMeansQuantizer creates a new KMeansQuantizer with default settings.
func NewKMeansQuantizer(seed int64) *KMeansQuantizer {
	return &KMeansQuantizer{
		MaxIterations: 50,
		Seed:          seed,
	}
}

// point3D represents a point in 3D RGB color space.
type point3D struct {
	R, G, B float64
}

// distanceSq calculates the squared Euclidean distance between two points.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

// rounded converts a centroid to the nearest integer colour.
func (p point3D) rounded() RGB {
	return RGB{
		R: uint8(math.Round(p.R)),
		G: uint8(math.Round(p.G)),
		B: uint8(math.Round(p.B)),
	}
}

// weightedPoint is one distinct input colour and how many pixels carry it.
type weightedPoint struct {
	point3D
	weight float64
}

// Quantize clusters pixels into at most k colours.
//
// Clustering runs over the histogram of distinct colours, which gives the
// same partition as clustering every pixel. When k exceeds the number of
// distinct colours it is reduced to that number, so no cluster starts empty.
func (q *KMeansQuantizer) Quantize(pixels []RGB, k int) (*Quantization, error) {
	if err := checkClusterCount(k); err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return &Quantization{}, nil
	}

	// Histogram in first-seen order.
	index := make(map[RGB]int)
	var points []weightedPoint
	for _, p := range pixels {
		i, ok := index[p]
		if !ok {
			i = len(points)
			index[p] = i
			points = append(points, weightedPoint{
				point3D: point3D{R: float64(p.R), G: float64(p.G), B: float64(p.B)},
			})
		}
		points[i].weight++
	}
	k = min(k, len(points))

	rng := rand.New(rand.NewSource(q.Seed)) // #nosec G404 - reproducible clustering, not security
	centroids := q.initializeCentroidsKMeansPlusPlus(points, k, rng)

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	maxIter := q.MaxIterations
	if maxIter < 1 {
		maxIter = 1
	}
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, point := range points {
			nearest := findNearestCentroid(point.point3D, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed = true
			}
		}
		if !changed {
			break
		}
		centroids = recalculateCentroids(points, assignments, centroids)
	}

	centers := make([]RGB, len(centroids))
	for i, c := range centroids {
		centers[i] = c.rounded()
	}
	perPixel := make([]int, len(pixels))
	for i, p := range pixels {
		perPixel[i] = assignments[index[p]]
	}
	return compact(centers, perPixel), nil
}

// initializeCentroidsKMeansPlusPlus picks k starting centroids among the
// distinct colours, each with probability proportional to its pixel count
// times its squared distance to the nearest centroid already chosen.
// Because k never exceeds the number of distinct colours, a colour with a
// non-zero distance always remains until k centroids are chosen.
func (q *KMeansQuantizer) initializeCentroidsKMeansPlusPlus(points []weightedPoint, k int, rng *rand.Rand) []point3D {
	centroids := make([]point3D, 0, k)
	weights := make([]float64, len(points))

	total := 0.0
	for i, p := range points {
		weights[i] = p.weight
		total += p.weight
	}
	centroids = append(centroids, points[pick(weights, total, rng)].point3D)

	minDist := make([]float64, len(points))
	for i := range minDist {
		minDist[i] = math.MaxFloat64
	}

	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		totalDistance := 0.0
		for i, p := range points {
			if d := p.distanceSq(last); d < minDist[i] {
				minDist[i] = d
			}
			weights[i] = minDist[i] * p.weight
			totalDistance += weights[i]
		}
		centroids = append(centroids, points[pick(weights, totalDistance, rng)].point3D)
	}

	return centroids
}

// pick draws an index with probability proportional to weights[i].
// Zero weights are never drawn.
func pick(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		cumulative += w
		if cumulative > target {
			return i
		}
	}
	// Only reachable through float rounding at the top of the range.
	return last
}

// findNearestCentroid finds the index of the nearest centroid to a point.
// Equidistant centroids resolve to the lowest index.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		dist := point.distanceSq(centroid)
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids moves each centroid to the weighted mean of its
// members. A centroid with no members keeps its position.
func recalculateCentroids(points []weightedPoint, assignments []int, previous []point3D) []point3D {
	sums := make([]point3D, len(previous))
	counts := make([]float64, len(previous))

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R * point.weight
		sums[cluster].G += point.G * point.weight
		sums[cluster].B += point.B * point.weight
		counts[cluster] += point.weight
	}

	centroids := make([]point3D, len(previous))
	for i := range previous {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / counts[i],
				G: sums[i].G / counts[i],
				B: sums[i].B / counts[i],
			}
		} else {
			centroids[i] = previous[i]
		}
	}

	return centroids
}
