package pattern

import (
	"testing"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/palette"
)

var (
	red   = colour.RGB{R: 255}
	green = colour.RGB{G: 255}
	blue  = colour.RGB{B: 255}

	redEntry   = palette.Entry{ID: "RED", Name: "Red", Color: red}
	greenEntry = palette.Entry{ID: "GREEN", Name: "Green", Color: green}
	blueEntry  = palette.Entry{ID: "BLUE", Name: "Blue", Color: blue}
)

func mustIndex(t *testing.T, entries ...palette.Entry) palette.Index {
	t.Helper()
	idx, err := palette.NewIndex(entries)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return idx
}

func TestSnap(t *testing.T) {
	idx := mustIndex(t, redEntry, blueEntry)
	centers := []colour.RGB{
		{R: 240, G: 10, B: 10},
		{R: 10, G: 10, B: 200},
		{R: 200, G: 0, B: 30},
	}

	got := Snap(centers, idx)
	want := []string{"RED", "BLUE", "RED"}
	if len(got) != len(want) {
		t.Fatalf("Snap() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("Snap()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestSnapEmpty(t *testing.T) {
	if got := Snap(nil, mustIndex(t, redEntry)); len(got) != 0 {
		t.Errorf("Snap(nil) len = %d, want 0", len(got))
	}
}

// countingIndex records how often Nearest is called.
type countingIndex struct {
	palette.Index
	calls int
}

func (c *countingIndex) Nearest(rgb colour.RGB) palette.Entry {
	c.calls++
	return c.Index.Nearest(rgb)
}

func TestSnapOncePerCentre(t *testing.T) {
	idx := &countingIndex{Index: mustIndex(t, redEntry, blueEntry)}
	Snap([]colour.RGB{red, blue, red}, idx)
	if idx.calls != 3 {
		t.Errorf("Nearest calls = %d, want 3", idx.calls)
	}
}

func TestSnapPixels(t *testing.T) {
	idx := &countingIndex{Index: mustIndex(t, redEntry, greenEntry, blueEntry)}
	pixels := []colour.RGB{red, {R: 250, G: 5}, red, blue, {G: 200}}

	got := SnapPixels(pixels, idx)
	want := []string{"RED", "RED", "RED", "BLUE", "GREEN"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("SnapPixels()[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
	if idx.calls != 4 {
		t.Errorf("Nearest calls = %d, want 4 (one per distinct colour)", idx.calls)
	}
}
