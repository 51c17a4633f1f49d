/*
Package glyphs stores sequences of positioned glyphs, resulting from shaping
a string of text.

A Store holds the glyphs for exactly one text. Glyphs are attached to the
character where their cluster starts; characters consumed by a preceding
cluster (ligatures, combining marks) carry no glyphs. Stores are filled by a
shaper and then frozen. A frozen store is immutable and may be shared between
goroutines without further synchronization.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphs

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
)

// tracer traces with key 'typecase.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.glyphs")
}

// GlyphID is the index of a glyph within a font.
type GlyphID uint32

// Glyph is a shaped glyph, positioned relative to the pen.
type Glyph struct {
	ID      GlyphID
	Advance dimen.Dimen // horizontal advance, may be negative
	Offset  dimen.Point // offset of the glyph's origin from the pen position
}

func (g Glyph) String() string {
	return fmt.Sprintf("(GID=%d, advance=%.2fpx)", g.ID, g.Advance.Px())
}

// Store is a sequence of glyphs for a text of a fixed number of characters.
type Store struct {
	entries      [][]Glyph
	isWhitespace bool
	frozen       bool
	glyphCount   int
}

// NewStore creates an empty store for a text of charCount characters.
func NewStore(charCount int, isWhitespace bool) *Store {
	if charCount < 0 {
		charCount = 0
	}
	return &Store{
		entries:      make([][]Glyph, charCount),
		isWhitespace: isWhitespace,
	}
}

// CharCount returns the number of characters the store was created for.
func (s *Store) CharCount() int {
	return len(s.entries)
}

// GlyphCount returns the total number of glyphs.
func (s *Store) GlyphCount() int {
	return s.glyphCount
}

// IsWhitespace returns true if the store was shaped from whitespace.
func (s *Store) IsWhitespace() bool {
	return s.isWhitespace
}

// Frozen returns true if the store does not accept any more glyphs.
func (s *Store) Frozen() bool {
	return s.frozen
}

// Freeze makes the store immutable.
func (s *Store) Freeze() {
	if !s.frozen {
		tracer().Debugf("glyph store frozen: %d glyphs for %d chars", s.glyphCount, len(s.entries))
	}
	s.frozen = true
}

// AddGlyphsForChar appends glyphs to the cluster starting at character i.
// Adding to a frozen store or outside the store's characters is a
// programming error and panics.
func (s *Store) AddGlyphsForChar(i CharIndex, gs ...Glyph) {
	core.Precondition(!s.frozen, "cannot add glyphs to a frozen glyph store")
	core.Precondition(int(i) >= 0 && int(i) < len(s.entries),
		"character index %d outside of glyph store [0..%d)", i, len(s.entries))
	s.entries[i] = append(s.entries[i], gs...)
	s.glyphCount += len(gs)
}

// GlyphsForChar returns the glyphs attached to character i.
// Clients must not modify the returned slice.
func (s *Store) GlyphsForChar(i CharIndex) []Glyph {
	if int(i) < 0 || int(i) >= len(s.entries) {
		return nil
	}
	return s.entries[i]
}

// ForEach calls fn for every glyph attached to a character in r, in text order.
// Iteration stops when fn returns false. r must lie within the store.
func (s *Store) ForEach(r Range, fn func(CharIndex, Glyph) bool) {
	r.Check(len(s.entries))
	for i := r.Begin; i < r.End(); i++ {
		for _, g := range s.entries[i] {
			if !fn(i, g) {
				return
			}
		}
	}
}

// Glyphs returns the glyphs for characters in r as a flat slice.
func (s *Store) Glyphs(r Range) []Glyph {
	gs := make([]Glyph, 0, r.Length)
	s.ForEach(r, func(_ CharIndex, g Glyph) bool {
		gs = append(gs, g)
		return true
	})
	return gs
}

// AdvanceForRange sums the advances of all glyphs for characters in r.
func (s *Store) AdvanceForRange(r Range) dimen.Dimen {
	var adv dimen.Dimen
	s.ForEach(r, func(_ CharIndex, g Glyph) bool {
		adv += g.Advance
		return true
	})
	return adv
}

// Equal compares two stores structurally.
func (s *Store) Equal(other *Store) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if s.isWhitespace != other.isWhitespace || len(s.entries) != len(other.entries) ||
		s.glyphCount != other.glyphCount {
		return false
	}
	for i, gs := range s.entries {
		if len(gs) != len(other.entries[i]) {
			return false
		}
		for j, g := range gs {
			if g != other.entries[i][j] {
				return false
			}
		}
	}
	return true
}

func (s *Store) String() string {
	var b strings.Builder
	b.WriteString("glyphs{")
	for i, gs := range s.entries {
		for _, g := range gs {
			fmt.Fprintf(&b, " %d:%s", i, g)
		}
	}
	b.WriteString(" }")
	return b.String()
}
