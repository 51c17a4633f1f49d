package glyphing

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fonttest"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/stretchr/testify/assert"
)

func TestFillAttachesToClusters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	store := glyphs.NewStore(4, false)
	Fill(store, []ShapedGlyph{
		{ClusterID: 0, GID: 1, XAdvance: 5},
		{ClusterID: 1, GID: 2, XAdvance: 7}, // ligature of characters 1 and 2
		{ClusterID: 3, GID: 3, XAdvance: 4},
		{ClusterID: 3, GID: 4, XAdvance: 0, YOffset: -2}, // combining mark
		{ClusterID: 9, GID: 5, XAdvance: 1},
	})
	assert.Equal(t, 5, store.GlyphCount())
	assert.Len(t, store.GlyphsForChar(1), 1)
	assert.Len(t, store.GlyphsForChar(2), 0)
	assert.Len(t, store.GlyphsForChar(3), 3, "cluster beyond text is clamped to last character")
	assert.Equal(t, -2.0, store.GlyphsForChar(3)[1].Offset.Y.Px())
	assert.Equal(t, 17.0, store.AdvanceForRange(glyphs.NewRange(0, 4)).Px())
}

func TestFillEmptyStore(t *testing.T) {
	store := glyphs.NewStore(0, false)
	Fill(store, []ShapedGlyph{{ClusterID: 0, GID: 1}})
	assert.Equal(t, 0, store.GlyphCount())
}

func TestFeatureValue(t *testing.T) {
	assert.Equal(t, uint32(0), FeatureRange{On: false, Arg: 3}.Value())
	assert.Equal(t, uint32(1), FeatureRange{On: true}.Value())
	assert.Equal(t, uint32(3), FeatureRange{On: true, Arg: 3}.Value())
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	assert.False(t, p.HasScript())
	assert.False(t, p.HasLanguage())
	assert.Equal(t, "LeftToRight", p.Direction.String())
}

func TestCheckStore(t *testing.T) {
	assert.NoError(t, CheckStore("äöü", glyphs.NewStore(3, false)))
	assert.Error(t, CheckStore("äöü", glyphs.NewStore(6, false)))
}

func TestFontData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	h := fonttest.NewHandle("test:x", "x", 5)
	f := font.NewFromHandle(font.DefaultConfig(), h, font.Style{PtSize: 10})
	_, err := FontData(f)
	assert.True(t, errors.Is(err, ErrNoFontData))
}
