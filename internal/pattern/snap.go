// Package pattern turns quantized pixels into a cross-stitch pattern: it
// snaps cluster colours to reference threads, allocates glyphs and
// assembles the stitch grid and legend.
package pattern

import (
	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/palette"
)

// Snap maps each cluster centre to its nearest palette entry. The result is
// parallel to centers. Several centres may map to the same entry.
func Snap(centers []colour.RGB, idx palette.Index) []palette.Entry {
	out := make([]palette.Entry, len(centers))
	for i, c := range centers {
		out[i] = idx.Nearest(c)
	}
	return out
}

// SnapPixels maps every pixel to its nearest palette entry without any
// clustering.
func SnapPixels(pixels []colour.RGB, idx palette.Index) []palette.Entry {
	// Images repeat colours heavily; query each distinct colour once.
	cache := make(map[colour.RGB]palette.Entry)
	out := make([]palette.Entry, len(pixels))
	for i, p := range pixels {
		e, ok := cache[p]
		if !ok {
			e = idx.Nearest(p)
			cache[p] = e
		}
		out[i] = e
	}
	return out
}
