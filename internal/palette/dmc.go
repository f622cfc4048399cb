package palette

import (
	_ "embed"
	"fmt"
)

//go:embed colordata/dmc.json
var dmcJSON []byte

// DefaultName is the name used for the embedded palette in logs and output.
const DefaultName = "dmc (embedded)"

// Default returns the embedded DMC thread palette.
func Default() []Entry {
	entries, err := Parse("dmc.json", dmcJSON)
	if err != nil {
		// The embedded file is fixed at build time and covered by tests.
		panic(fmt.Sprintf("embedded DMC palette is invalid: %v", err))
	}
	return entries
}

// Load returns the palette at path, or the embedded DMC palette when path
// is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}
