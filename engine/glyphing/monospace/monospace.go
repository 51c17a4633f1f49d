package monospace

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/typecase/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
)

// Name is the name this shaper is registered with.
const Name = "monospace"

// CellRatio is the default width of a cell, relative to the em size.
const CellRatio = 0.6

// Register makes this shaper available as font.ShaperNamed(Name), with
// cells of default width.
func Register() error {
	return glyphing.Register(Name, Factory(0))
}

var setupClasses sync.Once

type msshape struct {
	cell    float64 // cell width in px
	handle  font.Handle
	context *uax11.Context
}

// Factory returns a factory for monospace shapers.
// A cell width in pixels may be given which will then be used for shaping text.
// If is is zero, it will be set to CellRatio times the em size of the font.
func Factory(cell float64) font.ShaperFactory {
	return func(f *font.Font) (font.Shaper, error) {
		setupClasses.Do(grapheme.SetupGraphemeClasses)
		sh := &msshape{
			cell:    cell,
			handle:  f.Handle(),
			context: uax11.LatinContext,
		}
		if sh.cell <= 0 {
			sh.cell = CellRatio * f.Style().PtSize
		}
		return sh, nil
	}
}

// Shape creates a glyph sequence from a text. Every grapheme is mapped to
// the glyph of its first code-point, which is attached to the grapheme's
// first character.
func (ms *msshape) Shape(text string, store *glyphs.Store) error {
	if err := glyphing.CheckStore(text, store); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	// segmenters carry state, Shape may be called concurrently
	splitter := segment.NewSegmenter(grapheme.NewBreaker(1))
	splitter.Init(strings.NewReader(text))
	seq := make([]glyphing.ShapedGlyph, 0, store.CharCount())
	i := 0
	for splitter.Next() {
		grphm := splitter.Bytes()
		w := uax11.Width(grphm, ms.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		gid, _ := ms.handle.GlyphIndex(codepoint)
		seq = append(seq, glyphing.ShapedGlyph{
			ClusterID: i,
			GID:       gid,
			XAdvance:  float64(w) * ms.cell,
		})
		i += utf8.RuneCount(grphm)
	}
	tracer().Debugf("monospace shaped %q into %d cells", text, len(seq))
	glyphing.Fill(store, seq)
	return nil
}
