package font

import (
	"image/color"

	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font/glyphs"
)

// DrawText draws the characters r of a text run onto target, starting at
// a baseline origin.
//
// Glyph positions are the running pen position plus the glyph's offset,
// rounded to device pixels. All glyphs are submitted to the backend in a
// single batch. If r contains no glyphs, the backend is not called at all.
func (f *Font) DrawText(target gfx.Target, run *TextRun, r glyphs.Range, baseline dimen.Point,
	c color.Color) error {
	//
	buf := make([]gfx.Glyph, 0, r.Length)
	origin := baseline
	for _, sl := range run.Slices(r) {
		sl.Store.ForEach(sl.Range, func(_ glyphs.CharIndex, g glyphs.Glyph) bool {
			pen := origin.Add(g.Offset)
			buf = append(buf, gfx.Glyph{ID: g.ID, X: pen.X.RoundPx(), Y: pen.Y.RoundPx()})
			origin.X += g.Advance
			return true
		})
	}
	if len(buf) == 0 {
		return nil // some backends fault on empty glyph batches
	}
	sf, err := f.scaledFont()
	if err != nil {
		return err
	}
	backend := f.config.Backend
	pattern := backend.NewColorPattern(c)
	tracer().Debugf("font %s: drawing %d glyphs at %v", f.handle.FaceIdentifier(), len(buf), baseline)
	return backend.FillGlyphs(target, sf, buf, pattern, gfx.DefaultDrawOptions)
}
