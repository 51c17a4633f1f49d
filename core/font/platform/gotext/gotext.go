/*
Package gotext implements font handles on top of go-text/typesetting.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gotext

import (
	"bytes"
	"errors"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
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
)

// tracer writes to trace with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}

// Name is the name this platform is registered with.
const Name = "gotext"

// Register makes this platform available as font.Platform(Name).
func Register() error {
	err := font.RegisterPlatform(Name, New)
	if errors.Is(err, font.ErrAlreadyRegistered) {
		return nil
	}
	return err
}

// Handle is a face of an OpenType font, loaded by go-text.
//
// The go-text font is read-only and may be shared, but its faces cache
// glyph data and are not safe for concurrent use.
type Handle struct {
	id      string
	data    []byte
	family  string
	italic  bool
	weight  xfont.Weight
	emPx    float64
	upem    uint16
	nglyphs int
	metrics font.Metrics

	font *gtfont.Font

	mu     sync.Mutex // guards the fields below
	face   *gtfont.Face
	loader *ot.Loader
}

var _ font.Handle = &Handle{}
var _ font.FontDataProvider = &Handle{}
var _ gfx.Outliner = &Handle{}

// New loads a font binary and creates a handle for it, set at the size of
// style. New is a font.HandleFactory.
func New(buf []byte, faceID string, style font.Style) (font.Handle, error) {
	emPx, err := platform.EmSize(style)
	if err != nil {
		return nil, err
	}
	ld, err := ot.NewLoader(bytes.NewReader(buf))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "go-text cannot load font")
	}
	ft, err := gtfont.NewFont(ld)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "go-text cannot parse font")
	}
	desc, _ := gtfont.Describe(ld, nil)
	h := &Handle{
		id:     platform.FaceIdentifier(buf, faceID),
		data:   buf,
		family: desc.Family,
		italic: desc.Aspect.Style == gtfont.StyleItalic,
		weight: platform.WeightFromClass(int(desc.Aspect.Weight)),
		emPx:   emPx,
		upem:   ft.Upem(),
		font:   ft,
		face:   gtfont.NewFace(ft),
		loader: ld,
	}
	if h.family == "" {
		return nil, core.Error(core.EINVALID, "font has no family name")
	}
	h.setupMetrics()
	tracer().Infof("go-text font handle %s for %s at %.2fpx", h.id, h.family, emPx)
	return h, nil
}

func (h *Handle) scale(units float32) dimen.Dimen {
	return dimen.FromPx(float64(units) * h.emPx / float64(h.upem))
}

func (h *Handle) setupMetrics() {
	h.metrics = font.Metrics{
		EmSize:          dimen.FromPx(h.emPx),
		UnderlineOffset: h.scale(h.face.LineMetric(gtfont.UnderlinePosition)),
		UnderlineSize:   h.scale(h.face.LineMetric(gtfont.UnderlineThickness)),
		XHeight:         h.scale(h.face.LineMetric(gtfont.XHeight)),
	}
	if ext, ok := h.face.FontHExtents(); ok {
		h.metrics.Ascent = h.scale(ext.Ascender)
		h.metrics.Descent = h.scale(-ext.Descender)
		h.metrics.Leading = h.scale(ext.LineGap)
	}
	if raw, err := h.loader.RawTable(ot.MustNewTag("OS/2")); err == nil {
		if os2, _, err := tables.ParseOs2(raw); err == nil {
			h.metrics.StrikeoutSize = h.scale(float32(os2.YStrikeoutSize))
			h.metrics.StrikeoutOffset = h.scale(float32(os2.YStrikeoutPosition))
		}
	}
	if raw, err := h.loader.RawTable(ot.MustNewTag("maxp")); err == nil {
		h.nglyphs, _ = platform.MaxpNumGlyphs(raw)
	}
	if h.metrics.XHeight == 0 { // old OS/2 tables have no x-height
		if x, ok := h.face.NominalGlyph('x'); ok {
			if ext, ok := h.face.GlyphExtents(x); ok {
				h.metrics.XHeight = h.scale(ext.YBearing)
			}
		}
	}
	if raw, err := h.loader.RawTable(ot.MustNewTag("hhea")); err == nil {
		if maxadv, ok := platform.HheaMaxAdvance(raw); ok {
			h.metrics.MaxAdvance = h.scale(float32(maxadv))
		}
	}
}

func (h *Handle) FaceIdentifier() string { return h.id }
func (h *Handle) FamilyName() string     { return h.family }
func (h *Handle) FaceName() string       { return platform.FaceName(h.weight, h.italic) }
func (h *Handle) IsItalic() bool         { return h.italic }
func (h *Handle) Boldness() xfont.Weight { return h.weight }
func (h *Handle) Metrics() font.Metrics  { return h.metrics }
func (h *Handle) FontData() []byte       { return h.data }

// Font hands out the go-text font of h, for shapers working on go-text
// fonts. The font is read-only and safe for concurrent use; faces created
// from it are not.
func (h *Handle) Font() *gtfont.Font {
	return h.font
}

// GlyphIndex is part of interface font.Handle.
func (h *Handle) GlyphIndex(r rune) (font.GlyphID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	gid, ok := h.face.NominalGlyph(r)
	if !ok || gid == 0 {
		return 0, false
	}
	return font.GlyphID(gid), true
}

// GlyphHAdvance is part of interface font.Handle.
func (h *Handle) GlyphHAdvance(g font.GlyphID) (float64, bool) {
	if int(g) >= h.nglyphs {
		return 0, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	adv := h.face.HorizontalAdvance(gtfont.GID(g))
	return float64(adv) * h.emPx / float64(h.upem), true
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
	h.mu.Lock()
	data := h.face.GlyphData(gtfont.GID(g))
	h.mu.Unlock()
	outline, ok := data.(gtfont.GlyphOutline)
	if !ok {
		return core.Error(core.EINVALID, "glyph %d of font %s has no outline", g, h.id)
	}
	s := emPx / float64(h.upem)
	x := func(p ot.SegmentPoint) float64 { return float64(p.X) * s }
	y := func(p ot.SegmentPoint) float64 { return -float64(p.Y) * s } // go-text y grows upwards
	open := false
	for _, seg := range outline.Segments {
		a := seg.Args
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				sink.Close()
			}
			sink.MoveTo(x(a[0]), y(a[0]))
			open = true
		case ot.SegmentOpLineTo:
			sink.LineTo(x(a[0]), y(a[0]))
		case ot.SegmentOpQuadTo:
			sink.QuadTo(x(a[0]), y(a[0]), x(a[1]), y(a[1]))
		case ot.SegmentOpCubeTo:
			sink.CubeTo(x(a[0]), y(a[0]), x(a[1]), y(a[1]), x(a[2]), y(a[2]))
		}
	}
	if open {
		sink.Close()
	}
	return nil
}
