/*
Package fonttest provides scriptable font handles and shapers for tests.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fonttest

import (
	"sync"
	"sync/atomic"

	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	xfont "golang.org/x/image/font"
)

// Handle is a font handle answering from maps. Glyphs missing from
// Advances report no advance.
type Handle struct {
	ID          string
	Family      string
	Face        string
	Italic      bool
	Weight      xfont.Weight
	Glyphs      map[rune]font.GlyphID
	Advances    map[font.GlyphID]float64
	FontMetrics font.Metrics
	Tables      map[font.TableTag][]byte

	mu             sync.Mutex
	advanceQueries int
}

var _ font.Handle = &Handle{}
var _ gfx.Outliner = &Handle{}

// NewHandle creates a handle with an identifier, mapping the characters of
// chars to glyphs 1, 2, … with the given advances in pixels.
func NewHandle(id string, chars string, advances ...float64) *Handle {
	h := &Handle{
		ID:       id,
		Family:   "Test",
		Face:     "Regular",
		Weight:   xfont.WeightNormal,
		Glyphs:   make(map[rune]font.GlyphID),
		Advances: make(map[font.GlyphID]float64),
		Tables:   make(map[font.TableTag][]byte),
		FontMetrics: font.Metrics{
			EmSize:     12 * dimen.PX,
			Ascent:     11 * dimen.PX,
			Descent:    3 * dimen.PX,
			MaxAdvance: 12 * dimen.PX,
		},
	}
	i := 0
	for _, r := range chars {
		gid := font.GlyphID(i + 1)
		h.Glyphs[r] = gid
		if i < len(advances) {
			h.Advances[gid] = advances[i]
		}
		i++
	}
	return h
}

// Factory returns a handle factory which ignores the buffer and returns h.
// A buffer starting with "bad" fails, to simulate unusable font binaries.
func Factory(h *Handle) font.HandleFactory {
	return func(buf []byte, faceID string, style font.Style) (font.Handle, error) {
		if len(buf) >= 3 && string(buf[:3]) == "bad" {
			return nil, core.Error(core.EINVALID, "not a font")
		}
		return h, nil
	}
}

func (h *Handle) FaceIdentifier() string { return h.ID }
func (h *Handle) FamilyName() string     { return h.Family }
func (h *Handle) FaceName() string       { return h.Face }
func (h *Handle) IsItalic() bool         { return h.Italic }
func (h *Handle) Boldness() xfont.Weight { return h.Weight }
func (h *Handle) Metrics() font.Metrics  { return h.FontMetrics }

// GlyphIndex is part of interface font.Handle.
func (h *Handle) GlyphIndex(r rune) (font.GlyphID, bool) {
	gid, ok := h.Glyphs[r]
	return gid, ok
}

// GlyphHAdvance is part of interface font.Handle. Every call is counted.
func (h *Handle) GlyphHAdvance(g font.GlyphID) (float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.advanceQueries++
	adv, ok := h.Advances[g]
	return adv, ok
}

// AdvanceQueries returns how often GlyphHAdvance has been called.
func (h *Handle) AdvanceQueries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.advanceQueries
}

// TableForTag is part of interface font.Handle.
func (h *Handle) TableForTag(tag font.TableTag) ([]byte, bool) {
	t, ok := h.Tables[tag]
	return t, ok
}

// GlyphOutline draws every glyph as a box of half an em.
func (h *Handle) GlyphOutline(g glyphs.GlyphID, emPx float64, sink gfx.PathSink) error {
	w := emPx / 2
	sink.MoveTo(0, 0)
	sink.LineTo(w, 0)
	sink.LineTo(w, -w)
	sink.LineTo(0, -w)
	sink.Close()
	return nil
}

// --- Shapers ---------------------------------------------------------------

// CountingShaper wraps the simple shaper and counts calls to Shape.
// If Gate is not nil, each call to Shape blocks until Gate is closed.
type CountingShaper struct {
	calls int64
	Gate  chan struct{}
}

// Factory returns a shaper factory producing shapers which count into cs.
func (cs *CountingShaper) Factory() font.ShaperFactory {
	return func(f *font.Font) (font.Shaper, error) {
		simple, err := font.SimpleShaper(f)
		if err != nil {
			return nil, err
		}
		return countingShaper{counter: cs, inner: simple}, nil
	}
}

// Calls returns the number of texts shaped.
func (cs *CountingShaper) Calls() int {
	return int(atomic.LoadInt64(&cs.calls))
}

type countingShaper struct {
	counter *CountingShaper
	inner   font.Shaper
}

func (sh countingShaper) Shape(text string, store *glyphs.Store) error {
	atomic.AddInt64(&sh.counter.calls, 1)
	if sh.counter.Gate != nil {
		<-sh.counter.Gate
	}
	return sh.inner.Shape(text, store)
}

// FixedShaper places the glyphs given per character, ignoring the font.
// It lets tests produce runs with exact advances, including negative ones.
func FixedShaper(advances ...float64) font.ShaperFactory {
	return func(f *font.Font) (font.Shaper, error) {
		return fixedShaper(advances), nil
	}
}

type fixedShaper []float64

func (sh fixedShaper) Shape(text string, store *glyphs.Store) error {
	i := 0
	for range text {
		adv := 0.0
		if i < len(sh) {
			adv = sh[i]
		}
		store.AddGlyphsForChar(glyphs.CharIndex(i), glyphs.Glyph{
			ID:      glyphs.GlyphID(i + 1),
			Advance: dimen.FromPx(adv),
		})
		i++
	}
	return nil
}

// --- Outlines --------------------------------------------------------------

// PathCounter is a gfx.PathSink counting path operations.
type PathCounter struct {
	Moves, Lines, Quads, Cubes, Closes int
	MinY, MaxY                         float64
}

var _ gfx.PathSink = &PathCounter{}

func (pc *PathCounter) track(y float64) {
	if y < pc.MinY {
		pc.MinY = y
	}
	if y > pc.MaxY {
		pc.MaxY = y
	}
}

func (pc *PathCounter) MoveTo(x, y float64) { pc.Moves++; pc.track(y) }
func (pc *PathCounter) LineTo(x, y float64) { pc.Lines++; pc.track(y) }
func (pc *PathCounter) Close()              { pc.Closes++ }

func (pc *PathCounter) QuadTo(cx, cy, x, y float64) {
	pc.Quads++
	pc.track(y)
}

func (pc *PathCounter) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	pc.Cubes++
	pc.track(y)
}

// Segments returns the number of drawing operations.
func (pc *PathCounter) Segments() int {
	return pc.Lines + pc.Quads + pc.Cubes
}
