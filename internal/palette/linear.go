package palette

import (
	"github.com/jmylchreest/xstitch/internal/colour"
)

// LinearIndex finds the nearest entry by scanning every entry.
type LinearIndex struct {
	entries []Entry
}

// NewLinearIndex builds a LinearIndex over entries.
func NewLinearIndex(entries []Entry) (*LinearIndex, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	return newLinearIndex(entries), nil
}

func newLinearIndex(entries []Entry) *LinearIndex {
	return &LinearIndex{entries: cloneEntries(entries)}
}

// Nearest returns the closest entry; the strict comparison keeps the
// earliest entry on ties.
func (l *LinearIndex) Nearest(c colour.RGB) Entry {
	best := 0
	bestDist := c.DistanceSq(l.entries[0].Color)
	for i := 1; i < len(l.entries); i++ {
		if d := c.DistanceSq(l.entries[i].Color); d < bestDist {
			best, bestDist = i, d
		}
	}
	return l.entries[best]
}

// Len returns the number of entries.
func (l *LinearIndex) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries.
func (l *LinearIndex) Entries() []Entry {
	return cloneEntries(l.entries)
}
