package pattern

import (
	"github.com/jmylchreest/xstitch/internal/errors"
	"github.com/jmylchreest/xstitch/internal/palette"
)

// defaultAlphabet lists shapes first, then punctuation and letters. '|',
// '-' and '+' are left out: the text grid draws its rulers with them.
const defaultAlphabet = "■□●○▲△▼▽◆◇★☆♠♣♥♦◈◉◎✦✶✷✸✹✺✻✼✽✾❀✢✣" +
	"✤✥✚✗✘✙∓⊕⊗⊙⊚⊛⊜⊝⊞⊟⊠⊡!\"#$%&'()*,./0" +
	"123456789:;<=>?@ABCDEFGHIJKLMNOP" +
	"QRSTUVWXYZ[\\]^_`abcdefghijklmnop" +
	"qrstuvwxyz{}~¡¢£¤¥¦§¨©ª«¬®¯°±²³´" +
	"µ¶·¸¹º»¼½¾¿ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔ" +
	"ÕÖ×ØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóô" +
	"õö÷øùúûüýþÿАБВГДЕЖЗИЙКЛМНОПРСТУФ" +
	"ХЦЧШЩЪЫЬЭЮЯабвгдежзийклмнопрстуф" +
	"хцчшщъыьэюя№ёЁ≈≠≡≤≥∫∑∏√∝∞∇∂αβγδε" +
	"ζηθικλμνξοπρστυφχψωΩΔΦΠΨΣΞΛΓΘ"

// DefaultAlphabet returns the glyphs used when none are configured, in
// allocation order.
func DefaultAlphabet() []rune {
	return []rune(defaultAlphabet)
}

// SymbolMap assigns one glyph to each distinct palette entry.
//
// When there are more entries than glyphs the alphabet wraps: the entry at
// position i gets alphabet[i % len(alphabet)], so two different threads
// can share a glyph. Collisions reports where that happened.
type SymbolMap struct {
	glyphs map[string]rune
	order  []string
}

// Collision is a glyph shared by more than one entry.
type Collision struct {
	Glyph rune
	IDs   []string
}

// AllocateSymbols assigns glyphs to the distinct entries in the order they
// first appear in entries. Repeated entries keep the glyph of their first
// occurrence.
func AllocateSymbols(entries []palette.Entry, alphabet []rune) (*SymbolMap, error) {
	m := &SymbolMap{glyphs: make(map[string]rune)}
	for _, e := range entries {
		if _, ok := m.glyphs[e.ID]; ok {
			continue
		}
		if len(alphabet) == 0 {
			return nil, errors.WithHint(
				errors.Classify(errors.Newf("no glyph available for %s", e), errors.ErrEmptyAlphabet),
				"pass at least one character with --alphabet",
			)
		}
		m.glyphs[e.ID] = alphabet[len(m.order)%len(alphabet)]
		m.order = append(m.order, e.ID)
	}
	return m, nil
}

// Glyph returns the glyph for an entry ID.
func (m *SymbolMap) Glyph(id string) (rune, bool) {
	if m == nil {
		return 0, false
	}
	g, ok := m.glyphs[id]
	return g, ok
}

// Len returns the number of entries with a glyph.
func (m *SymbolMap) Len() int {
	return len(m.order)
}

// IDs returns entry IDs in allocation order.
func (m *SymbolMap) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Collisions returns every glyph assigned to more than one entry, ordered
// by the glyph's first allocation.
func (m *SymbolMap) Collisions() []Collision {
	byGlyph := make(map[rune][]string)
	var glyphs []rune
	for _, id := range m.order {
		g := m.glyphs[id]
		if _, ok := byGlyph[g]; !ok {
			glyphs = append(glyphs, g)
		}
		byGlyph[g] = append(byGlyph[g], id)
	}

	var out []Collision
	for _, g := range glyphs {
		if ids := byGlyph[g]; len(ids) > 1 {
			out = append(out, Collision{Glyph: g, IDs: ids})
		}
	}
	return out
}
