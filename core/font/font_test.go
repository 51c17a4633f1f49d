package font_test

import (
	"encoding/json"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/backend/gfx/recording"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fonttest"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/colornames"
	xfont "golang.org/x/image/font"
)

// --- Test Suite Preparation ------------------------------------------------

type FontTestEnviron struct {
	suite.Suite
	style font.Style
}

// listen for 'go test' command --> run test methods
func TestFontFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	suite.Run(t, new(FontTestEnviron))
}

// run once, before test suite methods
func (env *FontTestEnviron) SetupSuite() {
	tracing.Select("typecase.fonts").SetTraceLevel(tracing.LevelInfo)
	env.style = font.Style{
		PtSize:   12,
		Weight:   xfont.WeightNormal,
		Slant:    xfont.StyleNormal,
		Families: []string{"Test"},
	}
}

func (env *FontTestEnviron) newFont(h *fonttest.Handle, conf font.Config) *font.Font {
	f, err := font.NewFromBuffer(conf, fonttest.Factory(h), []byte("font"), h.ID, env.style)
	env.Require().NoError(err)
	return f
}

// --- Tests -----------------------------------------------------------------

func (env *FontTestEnviron) TestConstructionFailure() {
	h := fonttest.NewHandle("test:a", "abc", 5, 5, 5)
	_, err := font.NewFromBuffer(font.DefaultConfig(), fonttest.Factory(h), []byte("bad font"), "x", env.style)
	env.Require().Error(err)
	env.Equal(core.EINVALID, core.Code(err))
	_, err = font.NewFromBuffer(font.DefaultConfig(), fonttest.Factory(h), nil, "x", env.style)
	env.Error(err, "empty buffer must not produce a font")
}

func (env *FontTestEnviron) TestShapeCacheIdentity() {
	h := fonttest.NewHandle("test:a", "abc", 5, 6, 7)
	counter := &fonttest.CountingShaper{}
	conf := font.DefaultConfig()
	conf.Shaper = counter.Factory()
	f := env.newFont(h, conf)
	s1 := f.ShapeText("abc", false)
	s2 := f.ShapeText("abc", false)
	env.Same(s1, s2, "second shaping must return the cached glyph store")
	env.True(s1.Equal(s2))
	env.Equal(1, counter.Calls())
	env.True(s1.Frozen())
	env.Equal(3, s1.CharCount())
	other := f.ShapeText("ab", false)
	env.NotSame(s1, other)
	env.Equal(2, counter.Calls())
}

func (env *FontTestEnviron) TestConcurrentShapingShapesOnce() {
	h := fonttest.NewHandle("test:a", "hello", 1, 2, 3, 4, 5)
	counter := &fonttest.CountingShaper{Gate: make(chan struct{})}
	conf := font.DefaultConfig()
	conf.Shaper = counter.Factory()
	f := env.newFont(h, conf)
	const n = 8
	results := make([]*glyphs.Store, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = f.ShapeText("hello", false)
		}(i)
	}
	close(counter.Gate)
	wg.Wait()
	env.Equal(1, counter.Calls(), "text must be shaped exactly once")
	for i := 1; i < n; i++ {
		env.Same(results[0], results[i])
	}
}

func (env *FontTestEnviron) TestShapeCacheKeepsWhitespaceFlag() {
	h := fonttest.NewHandle("test:a", "a ", 1, 2)
	counter := &fonttest.CountingShaper{Gate: make(chan struct{})}
	conf := font.DefaultConfig()
	conf.Shaper = counter.Factory()
	f := env.newFont(h, conf)
	var ws, word *glyphs.Store
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); ws = f.ShapeText(" ", true) }()
	go func() { defer wg.Done(); word = f.ShapeText(" ", false) }()
	close(counter.Gate)
	wg.Wait()
	env.True(ws.IsWhitespace())
	env.False(word.IsWhitespace())
	env.NotSame(ws, word)
	env.Equal(2, counter.Calls(), "each flag is shaped separately")
	env.Same(ws, f.ShapeText(" ", true))
	env.Same(word, f.ShapeText(" ", false))
	env.Equal(2, counter.Calls())
}

func (env *FontTestEnviron) TestAdvanceCache() {
	h := fonttest.NewHandle("test:a", "ab", 5.5)
	f := env.newFont(h, font.DefaultConfig())
	env.Equal(5.5, f.GlyphHAdvance(1))
	env.Equal(5.5, f.GlyphHAdvance(1))
	env.Equal(1, h.AdvanceQueries(), "advance must be cached")
	// glyph 2 has no advance in the handle
	env.Equal(font.DefaultFallbackAdvance, f.GlyphHAdvance(2))
	env.Equal(font.DefaultFallbackAdvance, f.GlyphHAdvance(2))
	env.Equal(2, h.AdvanceQueries())
	conf := font.DefaultConfig()
	conf.FallbackAdvance = 7
	g := env.newFont(fonttest.NewHandle("test:b", "ab"), conf)
	env.Equal(7.0, g.GlyphHAdvance(1))
}

func (env *FontTestEnviron) TestGlyphIndex() {
	h := fonttest.NewHandle("test:a", "ab", 5, 5)
	f := env.newFont(h, font.DefaultConfig())
	gid, ok := f.GlyphIndex('b')
	env.True(ok)
	env.Equal(font.GlyphID(2), gid)
	_, ok = f.GlyphIndex('z')
	env.False(ok, "glyph for 'z' should be missing")
	// simple shaping substitutes .notdef with the fallback advance
	store := f.ShapeText("z", false)
	gs := store.Glyphs(glyphs.NewRange(0, 1))
	env.Require().Len(gs, 1)
	env.Equal(font.GlyphID(0), gs[0].ID)
	env.Equal(dimen.FromPx(font.DefaultFallbackAdvance), gs[0].Advance)
}

func (env *FontTestEnviron) TestRunMetricsScenario() {
	h := fonttest.NewHandle("test:a", "abc")
	conf := font.DefaultConfig()
	conf.Shaper = fonttest.FixedShaper(5, -1, 6)
	f := env.newFont(h, conf)
	run := font.NewTextRun(f, "abc", font.Decoration{})
	m := f.MeasureText(run, run.Range())
	env.Equal(10*dimen.PX, m.Advance)
	env.Equal(11*dimen.PX, m.Ascent)
	env.Equal(3*dimen.PX, m.Descent)
	env.Equal(dimen.Point{X: 0, Y: -11 * dimen.PX}, m.BBox.TopL)
	env.Equal(dimen.Point{X: 10 * dimen.PX, Y: 14 * dimen.PX}, m.BBox.Size())
	ms := f.MeasureTextForSlice(run.Segments()[0].Store, glyphs.NewRange(1, 2))
	env.Equal(5*dimen.PX, ms.Advance)
}

func (env *FontTestEnviron) TestMeasurementAdditivity() {
	h := fonttest.NewHandle("test:a", "ab cd", 5, 6, 2.5, 7, 8)
	f := env.newFont(h, font.DefaultConfig())
	run := font.NewTextRun(f, "ab cd", font.Decoration{})
	env.Equal(5, run.CharCount())
	total := f.MeasureText(run, run.Range()).Advance
	env.Equal(dimen.FromPx(5)+dimen.FromPx(6)+dimen.FromPx(2.5)+dimen.FromPx(7)+dimen.FromPx(8), total)
	for a := 0; a <= 5; a++ {
		for b := a; b <= 5; b++ {
			sum := f.MeasureText(run, glyphs.RangeTo(0, glyphs.CharIndex(a))).Advance +
				f.MeasureText(run, glyphs.RangeTo(glyphs.CharIndex(a), glyphs.CharIndex(b))).Advance +
				f.MeasureText(run, glyphs.RangeTo(glyphs.CharIndex(b), 5)).Advance
			env.Equal(total, sum, "partition %d|%d", a, b)
		}
	}
}

func (env *FontTestEnviron) TestTextRunSegments() {
	h := fonttest.NewHandle("test:a", "ab cd", 1, 1, 1, 1, 1)
	f := env.newFont(h, font.DefaultConfig())
	run := font.NewTextRun(f, "ab  cd", font.Decoration{Underline: true})
	segs := run.Segments()
	env.Require().Len(segs, 3)
	env.False(segs[0].Store.IsWhitespace())
	env.True(segs[1].Store.IsWhitespace())
	env.Equal(2, segs[1].Store.CharCount())
	env.Equal(glyphs.CharIndex(4), segs[2].Offset)
	env.True(run.Decoration.Underline)
	slices := run.Slices(glyphs.NewRange(1, 4))
	env.Require().Len(slices, 3)
	env.Equal(glyphs.NewRange(1, 1), slices[0].Range)
	env.Equal(glyphs.NewRange(0, 1), slices[2].Range)
	env.Equal(glyphs.NewRange(4, 1), slices[2].RunRange())
}

func (env *FontTestEnviron) TestLongWordsAreNotTruncated() {
	h := fonttest.NewHandle("test:a", "a", 1)
	f := env.newFont(h, font.DefaultConfig())
	for _, text := range []string{
		strings.Repeat("a", 5000),
		strings.Repeat("a", 100000),
		"a " + strings.Repeat("a", 9000) + " a",
	} {
		run := font.NewTextRun(f, text, font.Decoration{})
		env.Equal(len(text), run.CharCount())
		env.Equal(dimen.FromPx(float64(strings.Count(text, "a"))),
			f.MeasureText(run, run.Range()).Advance-whitespaceAdvance(f, run))
	}
	run := font.NewTextRun(f, strings.Repeat("a", 5000), font.Decoration{})
	env.Len(run.Segments(), 1)
}

func (env *FontTestEnviron) TestInvalidRangePanics() {
	h := fonttest.NewHandle("test:a", "abc", 1, 1, 1)
	f := env.newFont(h, font.DefaultConfig())
	run := font.NewTextRun(f, "abc", font.Decoration{})
	env.Panics(func() { f.MeasureText(run, glyphs.NewRange(2, 2)) })
	env.Panics(func() { f.MeasureText(run, glyphs.NewRange(-1, 1)) })
}

func (env *FontTestEnviron) TestGroupShapesWithFirstFont() {
	ca, cb := &fonttest.CountingShaper{}, &fonttest.CountingShaper{}
	confA, confB := font.DefaultConfig(), font.DefaultConfig()
	confA.Shaper, confB.Shaper = ca.Factory(), cb.Factory()
	a := env.newFont(fonttest.NewHandle("test:a", "x", 4), confA)
	// B covers 'y', A does not
	b := env.newFont(fonttest.NewHandle("test:b", "y", 9), confB)
	group := font.NewGroup([]string{"A", "B"}, env.style, []*font.Font{a, b})
	run := group.CreateTextRun("y", font.Decoration{})
	env.Same(a, run.Font)
	env.Equal(1, ca.Calls())
	env.Equal(0, cb.Calls(), "second font of group must not be used for shaping")
	gs := run.Segments()[0].Store.Glyphs(glyphs.NewRange(0, 1))
	env.Equal(font.GlyphID(0), gs[0].ID, "missing glyph is not substituted from fallback font")
	env.Same(a, group.Primary())
}

func (env *FontTestEnviron) TestEmptyGroupPanics() {
	env.Panics(func() { font.NewGroup([]string{"A"}, env.style, nil) })
}

func (env *FontTestEnviron) TestDrawText() {
	backend := recording.New()
	conf := font.DefaultConfig()
	conf.Backend = backend
	h := fonttest.NewHandle("test:a", "ab", 5.4, 6)
	f := env.newFont(h, conf)
	run := font.NewTextRun(f, "ab", font.Decoration{})
	target := image.NewRGBA(image.Rect(0, 0, 40, 40))
	baseline := dimen.Point{X: dimen.FromPx(10.3), Y: 20 * dimen.PX}
	//
	err := f.DrawText(target, run, glyphs.NewRange(1, 0), baseline, colornames.Black)
	env.NoError(err)
	env.Equal(0, backend.CallCount(), "empty range must not call the backend")
	//
	env.Require().NoError(f.DrawText(target, run, run.Range(), baseline, colornames.Black))
	env.Require().NoError(f.DrawText(target, run, run.Range(), baseline, colornames.Red))
	env.Equal(1, backend.ScaledFontCount(), "scaled font must be created once")
	fills := backend.Fills()
	env.Require().Len(fills, 2)
	env.Equal([]gfx.Glyph{{ID: 1, X: 10, Y: 20}, {ID: 2, X: 16, Y: 20}}, fills[0].Glyphs)
	env.Equal(gfx.DrawOptions{Alpha: 1, Operator: gfx.OpOver}, fills[0].Options)
	env.Equal(colornames.Red, fills[1].Color)
	env.Equal(12.0, fills[0].Font.Size())
}

func (env *FontTestEnviron) TestDrawWithoutBackend() {
	f := env.newFont(fonttest.NewHandle("test:a", "a", 5), font.DefaultConfig())
	run := font.NewTextRun(f, "a", font.Decoration{})
	err := f.DrawText(image.NewRGBA(image.Rect(0, 0, 4, 4)), run, run.Range(), dimen.Origin, colornames.Black)
	env.Error(err)
	env.Equal(core.EMISSING, core.Code(err))
}

func (env *FontTestEnviron) TestDescriptorWireFormat() {
	f := env.newFont(fonttest.NewHandle("packaged:goregular", "a", 5), font.DefaultConfig())
	desc := f.Descriptor()
	env.Equal(font.PlatformSelector("packaged:goregular"), desc.Selector)
	b, err := json.Marshal(desc)
	env.Require().NoError(err)
	env.JSONEq(`{"used_style":{"pt_size":12,"weight":400,"style":"normal","families":["Test"]},
		"selector":{"platform_identifier":"packaged:goregular"}}`, string(b))
	var back font.Descriptor
	env.Require().NoError(json.Unmarshal(b, &back))
	env.True(desc.Equal(back))
	env.Equal(desc.Key(), back.Key())
	//
	bold := desc
	bold.Style.Weight = xfont.WeightBold
	env.False(desc.Equal(bold))
	env.NotEqual(desc.Key(), bold.Key())
	//
	env.Error(json.Unmarshal([]byte(`{"used_style":{"pt_size":12,"weight":450},"selector":{"platform_identifier":"x"}}`), &back))
	env.Error(json.Unmarshal([]byte(`{"used_style":{"pt_size":12,"weight":400}}`), &back))
}

func (env *FontTestEnviron) TestTableForTag() {
	h := fonttest.NewHandle("test:a", "a", 5)
	h.Tables[font.TagHead] = make([]byte, 54)
	f := env.newFont(h, font.DefaultConfig())
	t, ok := f.TableForTag(font.MakeTag("head"))
	env.True(ok)
	env.Len(t, 54)
	_, ok = f.TableForTag(font.TagGSUB)
	env.False(ok, "absent table is not an error")
	env.Equal("OS/2", font.TagOS2.String())
	env.Equal("cvt ", font.MakeTag("cvt").String())
}

func whitespaceAdvance(f *font.Font, run *font.TextRun) dimen.Dimen {
	var adv dimen.Dimen
	for _, sl := range run.Segments() {
		if sl.Store.IsWhitespace() {
			adv += sl.Store.AdvanceForRange(sl.Range)
		}
	}
	return adv
}
