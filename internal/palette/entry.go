// Package palette holds the reference thread palette and the
// nearest-colour index used to snap arbitrary colours onto it.
package palette

import (
	"fmt"

	"github.com/jmylchreest/xstitch/internal/colour"
)

// Entry is one reference thread colour.
type Entry struct {
	// ID is the thread identifier, e.g. "DMC 310". Unique within a palette.
	ID string
	// Name is the human readable colour name.
	Name string
	// Color is the thread colour.
	Color colour.RGB
}

// String returns "ID (Name)".
func (e Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.ID, e.Name)
}
