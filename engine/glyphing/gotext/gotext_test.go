package gotext_test

import (
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	gthandle "github.com/npillmayer/typecase/core/font/platform/gotext"
	"github.com/npillmayer/typecase/core/font/platform/ximage"
	"github.com/npillmayer/typecase/engine/glyphing"
	"github.com/npillmayer/typecase/engine/glyphing/gotext"
	"github.com/npillmayer/typecase/engine/glyphing/harfbuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func loadFont(t *testing.T, platform font.HandleFactory, shaper font.ShaperFactory) *font.Font {
	t.Helper()
	style := font.Style{PtSize: 12}
	h, err := platform(goregular.TTF, "packaged:goregular", style)
	require.NoError(t, err)
	conf := font.DefaultConfig()
	conf.Shaper = shaper
	return font.NewFromHandle(conf, h, style)
}

func TestShapeWithGoTextHandle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	f := loadFont(t, gthandle.New, gotext.Factory(glyphing.DefaultParams()))
	store := f.ShapeText("Hello", false)
	require.Equal(t, 5, store.CharCount())
	assert.Equal(t, 5, store.GlyphCount())
	gid, _ := f.GlyphIndex('H')
	assert.Equal(t, gid, store.GlyphsForChar(0)[0].ID)
	assert.Greater(t, store.AdvanceForRange(glyphs.NewRange(0, 5)).Px(), 0.0)
}

func TestAgreesWithHarfBuzz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	text := "Typecase"
	gt := loadFont(t, ximage.New, gotext.Factory(glyphing.DefaultParams())).ShapeText(text, false)
	hb := loadFont(t, ximage.New, harfbuzz.Factory(glyphing.DefaultParams())).ShapeText(text, false)
	require.Equal(t, hb.GlyphCount(), gt.GlyphCount())
	for i := 0; i < gt.CharCount(); i++ {
		a := gt.GlyphsForChar(glyphs.CharIndex(i))
		b := hb.GlyphsForChar(glyphs.CharIndex(i))
		require.Equal(t, len(b), len(a))
		for j := range a {
			assert.Equal(t, b[j].ID, a[j].ID)
		}
	}
	all := glyphs.NewRange(0, gt.CharCount())
	assert.InDelta(t, hb.AdvanceForRange(all).Px(), gt.AdvanceForRange(all).Px(), 0.5)
}

func TestConcurrentShaping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	f := loadFont(t, gthandle.New, gotext.Factory(glyphing.DefaultParams()))
	sh, err := gotext.Factory(glyphing.DefaultParams())(f)
	require.NoError(t, err)
	texts := []string{"alpha", "beta", "gamma", "delta"}
	var wg sync.WaitGroup
	errs := make([]error, len(texts))
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			errs[i] = sh.Shape(text, glyphs.NewStore(len(text), false))
		}(i, text)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestRegister(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.glyphs")
	defer teardown()
	//
	require.NoError(t, gotext.Register())
	require.NoError(t, gotext.Register())
	_, err := font.ShaperNamed(gotext.Name)
	assert.NoError(t, err)
}
