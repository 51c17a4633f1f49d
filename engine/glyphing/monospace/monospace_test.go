package monospace

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fonttest"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monoFont(cell float64) *font.Font {
	h := fonttest.NewHandle("test:mono", "Helo")
	conf := font.DefaultConfig()
	conf.Shaper = Factory(cell)
	return font.NewFromHandle(conf, h, font.Style{PtSize: 10})
}

func TestMonospaceCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	store := monoFont(0).ShapeText("Hello", false)
	require.Equal(t, 5, store.GlyphCount())
	assert.InDelta(t, 30.0, store.AdvanceForRange(glyphs.NewRange(0, 5)).Px(), 0.001)
	assert.Equal(t, font.GlyphID(1), store.GlyphsForChar(0)[0].ID)
	assert.Equal(t, font.GlyphID(3), store.GlyphsForChar(3)[0].ID)
}

func TestMonospaceExplicitCell(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	store := monoFont(8).ShapeText("xyz", false)
	assert.InDelta(t, 24.0, store.AdvanceForRange(glyphs.NewRange(0, 3)).Px(), 0.001)
	assert.Equal(t, font.GlyphID(0), store.GlyphsForChar(0)[0].ID, "unmapped characters get glyph 0")
}

func TestMonospaceGraphemes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	store := monoFont(8).ShapeText("éH", false)
	require.Equal(t, 3, store.CharCount())
	assert.Equal(t, 2, store.GlyphCount())
	assert.Len(t, store.GlyphsForChar(1), 0, "combining mark belongs to the cluster of its base")
	assert.Len(t, store.GlyphsForChar(2), 1)
}

func TestMonospaceWideCharacters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	store := monoFont(8).ShapeText("日本", false)
	assert.InDelta(t, 32.0, store.AdvanceForRange(glyphs.NewRange(0, 2)).Px(), 0.001)
}

func TestMonospaceMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	sh, err := Factory(8)(monoFont(8))
	require.NoError(t, err)
	assert.Error(t, sh.Shape("abc", glyphs.NewStore(2, false)))
	assert.NoError(t, sh.Shape("", glyphs.NewStore(0, false)))
}
