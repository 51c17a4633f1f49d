package font

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/uax/segment"
)

// Decoration is the CSS text decoration of a run.
type Decoration struct {
	Underline   bool
	Overline    bool
	LineThrough bool
}

// TextRun is a text shaped with a single font. The text is broken into
// alternating spans of whitespace and non-whitespace, each shaped into a
// glyph store of its own.
type TextRun struct {
	Text       string
	Font       *Font
	Decoration Decoration
	segments   []Slice
	charCount  int
}

// Slice is a part of a shaped text run: a glyph store together with the
// position of its first character within the run and a range of the store's
// characters.
type Slice struct {
	Store  *glyphs.Store
	Offset glyphs.CharIndex // run position of the store's first character
	Range  glyphs.Range     // characters of Store covered by this slice
}

// RunRange returns the slice's characters in run positions.
func (sl Slice) RunRange() glyphs.Range {
	return sl.Range.Shift(int(sl.Offset))
}

// NewTextRun shapes text with font f.
func NewTextRun(f *Font, text string, deco Decoration) *TextRun {
	run := &TextRun{Text: text, Font: f, Decoration: deco}
	pos := glyphs.CharIndex(0)
	for _, span := range splitSpans(text) {
		ws := isWhitespace(span)
		store := f.ShapeText(span, ws)
		run.segments = append(run.segments, Slice{
			Store:  store,
			Offset: pos,
			Range:  glyphs.NewRange(0, store.CharCount()),
		})
		pos += glyphs.CharIndex(store.CharCount())
	}
	run.charCount = int(pos)
	tracer().Debugf("text run %q shaped in %d segments", text, len(run.segments))
	return run
}

// CharCount returns the number of characters of the run.
func (run *TextRun) CharCount() int {
	return run.charCount
}

// Range returns the range of all characters of the run.
func (run *TextRun) Range() glyphs.Range {
	return glyphs.NewRange(0, run.charCount)
}

// Segments returns the glyph stores of the run, in text order.
func (run *TextRun) Segments() []Slice {
	return run.segments
}

// Slices returns the parts of the run covering the characters of r, in text
// order. r must be a valid range for the run.
func (run *TextRun) Slices(r glyphs.Range) []Slice {
	r.Check(run.charCount)
	var slices []Slice
	for _, seg := range run.segments {
		overlap := seg.RunRange().Intersect(r)
		if overlap.IsEmpty() {
			continue
		}
		slices = append(slices, Slice{
			Store:  seg.Store,
			Offset: seg.Offset,
			Range:  overlap.Shift(-int(seg.Offset)),
		})
	}
	return slices
}

// splitSpans breaks a text into alternating spans of whitespace and
// non-whitespace. Segments are found by the simple word breaker of uax.
// The segmenter gives up on fragments exceeding its buffer; text it did not
// deliver is split directly.
func splitSpans(text string) []string {
	var spans []string
	seg := segment.NewSegmenter() // simple word breaker, breaking at whitespace
	seg.Init(strings.NewReader(text))
	pos := 0
	for seg.Next() {
		frag := seg.Text()
		if len(frag) == 0 {
			continue
		}
		if !strings.HasPrefix(text[pos:], frag) {
			tracer().Errorf("segmenter lost sync at byte %d, splitting text directly", pos)
			return appendSpans(nil, text)
		}
		spans = appendSpans(spans, frag)
		pos += len(frag)
	}
	if err := seg.Err(); err != nil {
		tracer().Debugf("segmenter stopped at byte %d of %d: %v", pos, len(text), err)
	}
	if pos < len(text) {
		spans = appendSpans(spans, text[pos:])
	}
	return spans
}

// appendSpans appends maximal runs of equal whitespace-ness of frag. A run
// continuing the last span is merged into it.
func appendSpans(spans []string, frag string) []string {
	start := 0
	ws := false
	for i, r := range frag {
		rws := unicode.IsSpace(r)
		if i > 0 && rws != ws {
			spans = appendSpan(spans, frag[start:i])
			start = i
		}
		ws = rws
	}
	return appendSpan(spans, frag[start:])
}

func appendSpan(spans []string, span string) []string {
	if n := len(spans); n > 0 && isWhitespace(spans[n-1]) == isWhitespace(span) {
		spans[n-1] += span
		return spans
	}
	return append(spans, span)
}

func isWhitespace(text string) bool {
	r, width := utf8.DecodeRuneInString(text)
	if width == 0 || r == utf8.RuneError {
		return false
	}
	return unicode.IsSpace(r)
}
