package palette

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/xstitch/internal/colour"
	"github.com/jmylchreest/xstitch/internal/compression"
	"github.com/jmylchreest/xstitch/internal/errors"
)

// record is the on-disk form of an entry. The colour is given either as
// "rgb": [r, g, b] or as "hex": "#rrggbb".
type record struct {
	Code string `json:"code" yaml:"code" toml:"code"`
	Name string `json:"name" yaml:"name" toml:"name"`
	RGB  []int  `json:"rgb" yaml:"rgb" toml:"rgb"`
	Hex  string `json:"hex,omitempty" yaml:"hex,omitempty" toml:"hex,omitempty"`
}

// document is the wrapped form: {"colors": [...]}. TOML files must use it
// ([[colors]] tables) since TOML has no top-level arrays.
type document struct {
	Colors []record `json:"colors" yaml:"colors" toml:"colors"`
}

// SupportedExtensions lists the palette file extensions LoadFile accepts,
// before any compression suffix.
func SupportedExtensions() []string {
	return []string{".json", ".yaml", ".yml", ".toml"}
}

// LoadFile reads a palette file. JSON, YAML and TOML are recognised by
// extension, optionally compressed (.gz, .xz, .bz2, .zst).
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) // #nosec G304 - User-specified palette path, intended to be read
	if err != nil {
		return nil, loadError(path, errors.Wrap(err, "failed to read palette file"))
	}

	entries, err := Parse(filepath.Base(path), data)
	if err != nil {
		return nil, loadError(path, err)
	}
	return entries, nil
}

// Parse decodes palette data. name is used only to pick the decoder.
func Parse(name string, data []byte) ([]Entry, error) {
	plain, inner, err := compression.Decompress(name, data)
	if err != nil {
		return nil, errors.Classify(err, errors.ErrPaletteLoad)
	}

	var records []record
	switch ext := strings.ToLower(filepath.Ext(inner)); ext {
	case ".json":
		records, err = decodeJSON(plain)
	case ".yaml", ".yml":
		records, err = decodeYAML(plain)
	case ".toml":
		records, err = decodeTOML(plain)
	default:
		err = errors.WithHintf(errors.Newf("unsupported palette format %q", ext),
			"supported formats: %s", strings.Join(SupportedExtensions(), ", "))
	}
	if err != nil {
		return nil, errors.Classify(err, errors.ErrPaletteLoad)
	}

	return toEntries(records)
}

func decodeJSON(data []byte) ([]record, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var records []record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON palette")
		}
		return records, nil
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse JSON palette")
	}
	return doc.Colors, nil
}

func decodeYAML(data []byte) ([]record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML palette")
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var records []record
		if err := root.Decode(&records); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML palette")
		}
		return records, nil
	}
	var doc document
	if err := root.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse YAML palette")
	}
	return doc.Colors, nil
}

func decodeTOML(data []byte) ([]record, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse TOML palette")
	}
	return doc.Colors, nil
}

// toEntries validates records and converts them to entries in file order.
func toEntries(records []record) ([]Entry, error) {
	entries := make([]Entry, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, r := range records {
		code := strings.TrimSpace(r.Code)
		if code == "" {
			return nil, errors.Classify(errors.Newf("entry %d: missing code", i), errors.ErrPaletteLoad)
		}
		if first, ok := seen[code]; ok {
			return nil, errors.Classify(
				errors.Newf("entry %d: duplicate code %q (first used by entry %d)", i, code, first),
				errors.ErrPaletteLoad,
			)
		}
		seen[code] = i

		c, err := r.colour()
		if err != nil {
			return nil, errors.Classify(errors.Wrapf(err, "entry %d (%s)", i, code), errors.ErrPaletteLoad)
		}

		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = code
		}
		entries = append(entries, Entry{ID: code, Name: name, Color: c})
	}
	return entries, nil
}

func (r record) colour() (colour.RGB, error) {
	switch {
	case len(r.RGB) == 3:
		return colour.FromInts(r.RGB[0], r.RGB[1], r.RGB[2])
	case len(r.RGB) != 0:
		return colour.RGB{}, errors.Newf("rgb must have 3 components, got %d", len(r.RGB))
	case r.Hex != "":
		return colour.ParseHex(r.Hex)
	default:
		return colour.RGB{}, errors.WithHint(errors.New("missing colour"), "set rgb or hex")
	}
}

// loadError marks err as a palette load failure and records the path.
func loadError(path string, err error) error {
	return errors.WithDetailf(errors.Classify(err, errors.ErrPaletteLoad), "palette: %s", path)
}
