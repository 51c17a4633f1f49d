/*
Package ximage implements font handles on top of golang.org/x/image/font/sfnt.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ximage

import (
	"bytes"
	"errors"
	"math"
	"sync"

	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/typecase/core/font/platform"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer writes to trace with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}

// Name is the name this platform is registered with.
const Name = "ximage"

// Register makes this platform available as font.Platform(Name).
func Register() error {
	err := font.RegisterPlatform(Name, New)
	if errors.Is(err, font.ErrAlreadyRegistered) {
		return nil
	}
	return err
}

// Handle is a face of an SFNT font binary, parsed by x/image.
type Handle struct {
	id        string
	data      []byte
	family    string
	subfamily string
	italic    bool
	weight    xfont.Weight
	emPx      float64
	ppem      fixed.Int26_6
	metrics   font.Metrics

	mu     sync.Mutex // guards the fields below; sfnt buffers are not thread-safe
	sfont  *sfnt.Font
	buffer sfnt.Buffer
	loader *ot.Loader
}

var _ font.Handle = &Handle{}
var _ font.FontDataProvider = &Handle{}
var _ gfx.Outliner = &Handle{}

// New parses a font binary and creates a handle for it, set at the size of
// style. New is a font.HandleFactory.
func New(buf []byte, faceID string, style font.Style) (font.Handle, error) {
	emPx, err := platform.EmSize(style)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Parse(buf)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "x/image cannot parse font")
	}
	ld, err := ot.NewLoader(bytes.NewReader(buf))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read font tables")
	}
	h := &Handle{
		id:     platform.FaceIdentifier(buf, faceID),
		data:   buf,
		emPx:   emPx,
		ppem:   fixed.Int26_6(math.Round(emPx * 64)),
		sfont:  f,
		loader: ld,
	}
	if h.family, err = f.Name(&h.buffer, sfnt.NameIDFamily); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "font has no family name")
	}
	h.subfamily, _ = f.Name(&h.buffer, sfnt.NameIDSubfamily)
	if err = h.setupMetrics(); err != nil {
		return nil, err
	}
	tracer().Infof("x/image font handle %s for %s %s at %.2fpx", h.id, h.family, h.subfamily, emPx)
	return h, nil
}

func (h *Handle) setupMetrics() error {
	m, err := h.sfont.Metrics(&h.buffer, h.ppem, xfont.HintingNone)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot read font metrics")
	}
	upem := uint16(h.sfont.UnitsPerEm())
	h.metrics = font.Metrics{
		EmSize:  dimen.FromPx(h.emPx),
		Ascent:  dimen.FromFixed(m.Ascent),
		Descent: dimen.FromFixed(m.Descent),
		XHeight: dimen.FromFixed(m.XHeight),
		Leading: dimen.FromFixed(m.Height - m.Ascent - m.Descent),
	}
	h.italic = platform.IsItalicName(h.subfamily)
	h.weight = platform.WeightFromName(h.subfamily)
	if post := h.sfont.PostTable(); post != nil {
		h.metrics.UnderlineOffset = dimen.FromFontUnits(int32(post.UnderlinePosition), upem, h.emPx)
		h.metrics.UnderlineSize = dimen.FromFontUnits(int32(post.UnderlineThickness), upem, h.emPx)
		h.italic = h.italic || post.ItalicAngle != 0
	}
	if raw, err := h.loader.RawTable(ot.MustNewTag("OS/2")); err == nil {
		if os2, _, err := tables.ParseOs2(raw); err == nil {
			h.metrics.StrikeoutSize = dimen.FromFontUnits(int32(os2.YStrikeoutSize), upem, h.emPx)
			h.metrics.StrikeoutOffset = dimen.FromFontUnits(int32(os2.YStrikeoutPosition), upem, h.emPx)
			h.weight = platform.WeightFromClass(int(os2.USWeightClass))
			h.italic = h.italic || os2.FsSelection&1 != 0
		}
	}
	if h.metrics.XHeight == 0 { // old OS/2 tables have no x-height
		if x, err := h.sfont.GlyphIndex(&h.buffer, 'x'); err == nil && x != 0 {
			if bounds, _, err := h.sfont.GlyphBounds(&h.buffer, x, h.ppem, xfont.HintingNone); err == nil {
				h.metrics.XHeight = dimen.FromFixed(-bounds.Min.Y)
			}
		}
	}
	if raw, err := h.loader.RawTable(ot.MustNewTag("hhea")); err == nil {
		if maxadv, ok := platform.HheaMaxAdvance(raw); ok {
			h.metrics.MaxAdvance = dimen.FromFontUnits(int32(maxadv), upem, h.emPx)
		}
	}
	return nil
}

func (h *Handle) FaceIdentifier() string { return h.id }
func (h *Handle) FamilyName() string     { return h.family }
func (h *Handle) FaceName() string       { return h.subfamily }
func (h *Handle) IsItalic() bool         { return h.italic }
func (h *Handle) Boldness() xfont.Weight { return h.weight }
func (h *Handle) Metrics() font.Metrics  { return h.metrics }
func (h *Handle) FontData() []byte       { return h.data }

// GlyphIndex is part of interface font.Handle.
func (h *Handle) GlyphIndex(r rune) (font.GlyphID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gid, err := h.sfont.GlyphIndex(&h.buffer, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return font.GlyphID(gid), true
}

// GlyphHAdvance is part of interface font.Handle.
func (h *Handle) GlyphHAdvance(g font.GlyphID) (float64, bool) {
	if int(g) >= h.sfont.NumGlyphs() {
		return 0, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	adv, err := h.sfont.GlyphAdvance(&h.buffer, sfnt.GlyphIndex(g), h.ppem, xfont.HintingNone)
	if err != nil {
		tracer().Debugf("x/image cannot measure glyph %d: %v", g, err)
		return 0, false
	}
	return float64(adv) / 64, true
}

// TableForTag is part of interface font.Handle.
func (h *Handle) TableForTag(tag font.TableTag) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	raw, err := h.loader.RawTable(ot.Tag(tag))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// GlyphOutline is part of interface gfx.Outliner.
func (h *Handle) GlyphOutline(g glyphs.GlyphID, emPx float64, sink gfx.PathSink) error {
	if int(g) >= h.sfont.NumGlyphs() {
		return core.Error(core.EINVALID, "no glyph %d in font %s", g, h.id)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	segs, err := h.sfont.LoadGlyph(&h.buffer, sfnt.GlyphIndex(g), fixed.Int26_6(math.Round(emPx*64)), nil)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot load outline of glyph %d", g)
	}
	open := false
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				sink.Close()
			}
			sink.MoveTo(px(a[0].X), px(a[0].Y))
			open = true
		case sfnt.SegmentOpLineTo:
			sink.LineTo(px(a[0].X), px(a[0].Y))
		case sfnt.SegmentOpQuadTo:
			sink.QuadTo(px(a[0].X), px(a[0].Y), px(a[1].X), px(a[1].Y))
		case sfnt.SegmentOpCubeTo:
			sink.CubeTo(px(a[0].X), px(a[0].Y), px(a[1].X), px(a[1].Y), px(a[2].X), px(a[2].Y))
		}
	}
	if open {
		sink.Close()
	}
	return nil
}

func px(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
