package font

import (
	"fmt"

	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font/glyphs"
)

// RunMetrics is the measured geometry of a span of shaped text.
//
// The bounding box is the loose box of the span: its height is ascent plus
// descent of the font and its width is the advance. It is not the ink box of
// the glyphs. The box's origin is at (0, −ascent), relative to the
// baseline.
type RunMetrics struct {
	Advance dimen.Dimen // may be negative
	Ascent  dimen.Dimen
	Descent dimen.Dimen
	BBox    dimen.Rect
}

// NewRunMetrics creates run metrics with a loose bounding box.
func NewRunMetrics(advance, ascent, descent dimen.Dimen) RunMetrics {
	return RunMetrics{
		Advance: advance,
		Ascent:  ascent,
		Descent: descent,
		BBox: dimen.RectFromOriginSize(
			dimen.Point{X: 0, Y: -ascent},
			dimen.Point{X: advance, Y: ascent + descent},
		),
	}
}

func (m RunMetrics) String() string {
	return fmt.Sprintf("run{adv=%.2f, asc=%.2f, desc=%.2f, bbox=%v+%v}", m.Advance.Px(),
		m.Ascent.Px(), m.Descent.Px(), m.BBox.TopL, m.BBox.Size())
}

// MeasureText measures the characters r of a text run.
func (f *Font) MeasureText(run *TextRun, r glyphs.Range) RunMetrics {
	var advance dimen.Dimen
	for _, sl := range run.Slices(r) {
		advance += sl.Store.AdvanceForRange(sl.Range)
	}
	return NewRunMetrics(advance, f.metrics.Ascent, f.metrics.Descent)
}

// MeasureTextForSlice measures the characters r of a glyph store.
func (f *Font) MeasureTextForSlice(store *glyphs.Store, r glyphs.Range) RunMetrics {
	advance := store.AdvanceForRange(r)
	return NewRunMetrics(advance, f.metrics.Ascent, f.metrics.Descent)
}
