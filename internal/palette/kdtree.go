package palette

import (
	"math"
	"sort"

	"github.com/jmylchreest/xstitch/internal/colour"
)

// kdNode is a node in a k-d tree over palette colours. pos is the entry's
// position in the original palette and drives tie-breaking.
type kdNode struct {
	color       colour.RGB
	pos         int
	axis        int
	left, right *kdNode
}

// KDTreeIndex finds the nearest entry with a k-d tree over RGB space.
type KDTreeIndex struct {
	entries []Entry
	root    *kdNode
}

// NewKDTreeIndex builds a KDTreeIndex over entries.
func NewKDTreeIndex(entries []Entry) (*KDTreeIndex, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	return newKDTreeIndex(entries), nil
}

func newKDTreeIndex(entries []Entry) *KDTreeIndex {
	owned := cloneEntries(entries)
	nodes := make([]kdNode, len(owned))
	for i, e := range owned {
		nodes[i] = kdNode{color: e.Color, pos: i}
	}
	return &KDTreeIndex{
		entries: owned,
		root:    buildKDTree(nodes),
	}
}

// buildKDTree splits on the axis with the largest variance at each level and
// places the median node at the root of the subtree.
func buildKDTree(nodes []kdNode) *kdNode {
	if len(nodes) == 0 {
		return nil
	}

	axis := chooseSplitAxis(nodes)
	sort.Slice(nodes, func(i, j int) bool {
		ci := component(nodes[i].color, axis)
		cj := component(nodes[j].color, axis)
		if ci != cj {
			return ci < cj
		}
		return nodes[i].pos < nodes[j].pos
	})

	median := len(nodes) / 2
	root := nodes[median]
	root.axis = axis
	root.left = buildKDTree(nodes[:median])
	root.right = buildKDTree(nodes[median+1:])
	return &root
}

// chooseSplitAxis returns the RGB axis (0, 1, 2) with the largest variance.
func chooseSplitAxis(nodes []kdNode) int {
	var mean [3]float64
	for _, n := range nodes {
		for axis := 0; axis < 3; axis++ {
			mean[axis] += float64(component(n.color, axis))
		}
	}
	for axis := range mean {
		mean[axis] /= float64(len(nodes))
	}

	var variance [3]float64
	for _, n := range nodes {
		for axis := 0; axis < 3; axis++ {
			d := float64(component(n.color, axis)) - mean[axis]
			variance[axis] += d * d
		}
	}

	best := 0
	for axis := 1; axis < 3; axis++ {
		if variance[axis] > variance[best] {
			best = axis
		}
	}
	return best
}

// component returns the colour channel for an axis.
func component(c colour.RGB, axis int) uint8 {
	switch axis {
	case 0:
		return c.R
	case 1:
		return c.G
	default:
		return c.B
	}
}

// Nearest returns the closest entry. Among equidistant entries the one with
// the lowest original position wins, matching LinearIndex.
func (k *KDTreeIndex) Nearest(c colour.RGB) Entry {
	bestPos, bestDist := -1, math.MaxInt
	k.root.search(c, &bestPos, &bestDist)
	return k.entries[bestPos]
}

func (n *kdNode) search(target colour.RGB, bestPos, bestDist *int) {
	if n == nil {
		return
	}

	d := target.DistanceSq(n.color)
	if d < *bestDist || (d == *bestDist && n.pos < *bestPos) {
		*bestPos, *bestDist = n.pos, d
	}

	diff := int(component(target, n.axis)) - int(component(n.color, n.axis))
	near, far := n.left, n.right
	if diff >= 0 {
		near, far = n.right, n.left
	}

	near.search(target, bestPos, bestDist)
	// Visit the far side on equality too: an equidistant entry there may
	// have an earlier position.
	if diff*diff <= *bestDist {
		far.search(target, bestPos, bestDist)
	}
}

// Len returns the number of entries.
func (k *KDTreeIndex) Len() int {
	return len(k.entries)
}

// Entries returns a copy of the entries.
func (k *KDTreeIndex) Entries() []Entry {
	return cloneEntries(k.entries)
}

// Depth returns the height of the tree.
func (k *KDTreeIndex) Depth() int {
	var depth func(*kdNode) int
	depth = func(n *kdNode) int {
		if n == nil {
			return 0
		}
		return 1 + max(depth(n.left), depth(n.right))
	}
	return depth(k.root)
}
