package glyphs

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/stretchr/testify/assert"
)

func sampleStore() *Store {
	s := NewStore(4, false)
	s.AddGlyphsForChar(0, Glyph{ID: 10, Advance: 5 * dimen.PX})
	s.AddGlyphsForChar(1, Glyph{ID: 11, Advance: -1 * dimen.PX})
	// char 2 is covered by the ligature at 1
	s.AddGlyphsForChar(3, Glyph{ID: 12, Advance: 6 * dimen.PX, Offset: dimen.Point{Y: dimen.PX}})
	s.Freeze()
	return s
}

func TestStoreAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	s := sampleStore()
	assert.Equal(t, 4, s.CharCount())
	assert.Equal(t, 3, s.GlyphCount())
	assert.Equal(t, 10*dimen.PX, s.AdvanceForRange(NewRange(0, 4)))
	assert.Equal(t, 4*dimen.PX, s.AdvanceForRange(NewRange(0, 2)))
	assert.Equal(t, 6*dimen.PX, s.AdvanceForRange(RangeTo(2, 4)))
	assert.Equal(t, dimen.Zero, s.AdvanceForRange(NewRange(2, 0)))
	assert.Nil(t, s.GlyphsForChar(2))
	assert.Len(t, s.Glyphs(NewRange(1, 3)), 2)
}

func TestStoreAdditivity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	s := sampleStore()
	total := s.AdvanceForRange(NewRange(0, s.CharCount()))
	for cut := 0; cut <= s.CharCount(); cut++ {
		left := s.AdvanceForRange(NewRange(0, cut))
		right := s.AdvanceForRange(RangeTo(CharIndex(cut), CharIndex(s.CharCount())))
		assert.Equal(t, total, left+right, "partition at %d", cut)
	}
}

func TestStoreFrozen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	s := sampleStore()
	assert.True(t, s.Frozen())
	assert.Panics(t, func() { s.AddGlyphsForChar(2, Glyph{ID: 1}) })
	u := NewStore(1, true)
	assert.True(t, u.IsWhitespace())
	assert.Panics(t, func() { u.AddGlyphsForChar(1, Glyph{ID: 1}) })
}

func TestStoreInvalidRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	s := sampleStore()
	assert.Panics(t, func() { s.AdvanceForRange(NewRange(2, 3)) })
	assert.Panics(t, func() { s.AdvanceForRange(NewRange(-1, 1)) })
	assert.Panics(t, func() { s.AdvanceForRange(NewRange(0, -1)) })
}

func TestStoreEqual(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	a, b := sampleStore(), sampleStore()
	assert.True(t, a.Equal(b))
	c := NewStore(4, true)
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	assert.Equal(t, CharIndex(7), r.End())
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(7))
	assert.Equal(t, NewRange(4, 3), r.Intersect(NewRange(4, 10)))
	assert.True(t, r.Intersect(NewRange(9, 2)).IsEmpty())
	assert.Equal(t, NewRange(0, 5), r.Shift(-2))
	assert.True(t, r.Valid(7))
	assert.False(t, r.Valid(6))
	assert.Equal(t, "[2..7)", r.String())
}
