/*
Package tdewolff implements font handles on top of github.com/tdewolff/font.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tdewolff

import (
	"errors"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/typecase/core/font/platform"
	tdfont "github.com/tdewolff/font"
	xfont "golang.org/x/image/font"
)

// tracer writes to trace with key 'typecase.fonts'
func tracer() tracing.Trace {
	return tracing.Select("typecase.fonts")
}

// Name is the name this platform is registered with.
const Name = "tdewolff"

// Register makes this platform available as font.Platform(Name).
func Register() error {
	err := font.RegisterPlatform(Name, New)
	if errors.Is(err, font.ErrAlreadyRegistered) {
		return nil
	}
	return err
}

// Handle is a face of an SFNT font binary, parsed by tdewolff/font.
// The parsed font is not modified after construction, therefore Handle
// needs no locking.
type Handle struct {
	id        string
	data      []byte
	family    string
	subfamily string
	italic    bool
	weight    xfont.Weight
	emPx      float64
	metrics   font.Metrics
	sfnt      *tdfont.SFNT
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
	sf, err := tdfont.ParseSFNT(buf, 0)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "tdewolff cannot parse font")
	}
	if sf.Head == nil || sf.Head.UnitsPerEm == 0 || sf.Hhea == nil {
		return nil, core.Error(core.EINVALID, "font lacks required tables")
	}
	h := &Handle{
		id:        platform.FaceIdentifier(buf, faceID),
		data:      buf,
		emPx:      emPx,
		sfnt:      sf,
		family:    nameOf(sf, tdfont.NameFontFamily),
		subfamily: nameOf(sf, tdfont.NameFontSubfamily),
	}
	if h.family == "" {
		return nil, core.Error(core.EINVALID, "font has no family name")
	}
	h.setupMetrics()
	tracer().Infof("tdewolff font handle %s for %s %s at %.2fpx", h.id, h.family, h.subfamily, emPx)
	return h, nil
}

func nameOf(sf *tdfont.SFNT, id tdfont.NameID) string {
	if sf.Name == nil {
		return ""
	}
	for _, rec := range sf.Name.Get(id) {
		if s := strings.TrimSpace(rec.String()); s != "" {
			return s
		}
	}
	return ""
}

func (h *Handle) scale(units int32) dimen.Dimen {
	return dimen.FromFontUnits(units, h.sfnt.Head.UnitsPerEm, h.emPx)
}

func (h *Handle) setupMetrics() {
	sf := h.sfnt
	h.metrics = font.Metrics{
		EmSize:     dimen.FromPx(h.emPx),
		Ascent:     h.scale(int32(sf.Hhea.Ascender)),
		Descent:    h.scale(-int32(sf.Hhea.Descender)),
		Leading:    h.scale(int32(sf.Hhea.LineGap)),
		MaxAdvance: h.scale(int32(sf.Hhea.AdvanceWidthMax)),
	}
	h.italic = sf.Head.MacStyle[1] || platform.IsItalicName(h.subfamily)
	h.weight = platform.WeightFromName(h.subfamily)
	if sf.Post != nil {
		h.metrics.UnderlineOffset = h.scale(int32(sf.Post.UnderlinePosition))
		h.metrics.UnderlineSize = h.scale(int32(sf.Post.UnderlineThickness))
		h.italic = h.italic || sf.Post.ItalicAngle != 0
	}
	if sf.OS2 != nil {
		h.metrics.StrikeoutSize = h.scale(int32(sf.OS2.YStrikeoutSize))
		h.metrics.StrikeoutOffset = h.scale(int32(sf.OS2.YStrikeoutPosition))
		h.metrics.XHeight = h.scale(int32(sf.OS2.SxHeight))
		h.weight = platform.WeightFromClass(int(sf.OS2.UsWeightClass))
		h.italic = h.italic || sf.OS2.FsSelection&1 != 0
	}
	if h.metrics.XHeight == 0 { // old OS/2 tables have no x-height
		if x := sf.GlyphIndex('x'); x != 0 {
			_, _, _, ymax := sf.GlyphBounds(x)
			h.metrics.XHeight = h.scale(int32(ymax))
		}
	}
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
	gid := h.sfnt.GlyphIndex(r)
	if gid == 0 {
		return 0, false
	}
	return font.GlyphID(gid), true
}

// GlyphHAdvance is part of interface font.Handle.
func (h *Handle) GlyphHAdvance(g font.GlyphID) (float64, bool) {
	if g >= font.GlyphID(h.sfnt.NumGlyphs()) {
		return 0, false
	}
	adv := h.sfnt.GlyphAdvance(uint16(g))
	return float64(adv) * h.emPx / float64(h.sfnt.Head.UnitsPerEm), true
}

// TableForTag is part of interface font.Handle.
func (h *Handle) TableForTag(tag font.TableTag) ([]byte, bool) {
	t, ok := h.sfnt.Tables[tag.String()]
	return t, ok
}

// GlyphOutline is part of interface gfx.Outliner.
func (h *Handle) GlyphOutline(g glyphs.GlyphID, emPx float64, sink gfx.PathSink) error {
	if g >= glyphs.GlyphID(h.sfnt.NumGlyphs()) {
		return core.Error(core.EINVALID, "no glyph %d in font %s", g, h.id)
	}
	scale := emPx / float64(h.sfnt.Head.UnitsPerEm)
	p := &pather{sink: sink}
	if err := h.sfnt.GlyphPath(p, uint16(g), 0, 0, 0, scale, tdfont.NoHinting); err != nil {
		return core.WrapError(err, core.EINVALID, "cannot load outline of glyph %d", g)
	}
	p.finish()
	return nil
}

// pather adapts a gfx.PathSink to tdewolff's Pather, flipping the y axis.
// Contours left open by the font are closed.
type pather struct {
	sink gfx.PathSink
	open bool
}

func (p *pather) MoveTo(x, y float64) {
	p.finish()
	p.sink.MoveTo(x, -y)
	p.open = true
}

func (p *pather) LineTo(x, y float64) {
	p.sink.LineTo(x, -y)
}

func (p *pather) QuadTo(cx, cy, x, y float64) {
	p.sink.QuadTo(cx, -cy, x, -y)
}

func (p *pather) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.sink.CubeTo(c1x, -c1y, c2x, -c2y, x, -y)
}

func (p *pather) Close() {
	p.finish()
}

func (p *pather) finish() {
	if p.open {
		p.sink.Close()
		p.open = false
	}
}
