package palette

import (
	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/errors"
)

// KDTreeThreshold is the palette size from which NewIndex builds a k-d tree
// instead of scanning linearly.
const KDTreeThreshold = 32

// Index answers nearest-colour queries over a fixed set of entries.
//
// Distance is squared Euclidean distance in RGB space. When several entries
// are equally close, the one that came first in the original entry order is
// returned. Implementations are read-only after construction and safe for
// concurrent use.
type Index interface {
	// Nearest returns the entry closest to c.
	Nearest(c colour.RGB) Entry
	// Len returns the number of entries.
	Len() int
	// Entries returns a copy of the entries in their original order.
	Entries() []Entry
}

// NewIndex builds an Index over entries, choosing a linear scan for small
// palettes and a k-d tree for larger ones.
func NewIndex(entries []Entry) (Index, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	if len(entries) < KDTreeThreshold {
		return newLinearIndex(entries), nil
	}
	return newKDTreeIndex(entries), nil
}

// validateEntries rejects empty palettes and duplicate identifiers.
func validateEntries(entries []Entry) error {
	if len(entries) == 0 {
		return errors.WithHint(
			errors.Classify(errors.New("cannot build an index over zero entries"), errors.ErrEmptyPalette),
			"check that the palette file exists and contains at least one colour",
		)
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if first, ok := seen[e.ID]; ok {
			return errors.Classify(
				errors.Newf("entry %d reuses identifier %q from entry %d", i, e.ID, first),
				errors.ErrDuplicateEntry,
			)
		}
		seen[e.ID] = i
	}
	return nil
}

// cloneEntries copies entries so the index owns its data.
func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
