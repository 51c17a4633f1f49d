/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

The HarfBuzz port of textlayout works on the font binary, which it parses
once per face. Fonts therefore have to be created from platform handles
providing their font data.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/npillmayer/typecase/engine/glyphing"
	"golang.org/x/text/language"
)

// tracer traces with key 'typecase.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.glyphs")
}

// Name is the name this shaper is registered with.
const Name = "harfbuzz"

// Register makes this shaper available as font.ShaperNamed(Name), with
// default parameters.
func Register() error {
	return glyphing.Register(Name, Factory(glyphing.DefaultParams()))
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB makes a typecast from an OpenType feature tag to a HarfBuzz truetype tag.
func Feature4HB(t font.TableTag) hbtt.Tag {
	return hbtt.Tag(t)
}

// FeatureRange4HB converts a feature range struct to a HarfBuzz Feature switch.
func FeatureRange4HB(frng glyphing.FeatureRange) hb.Feature {
	return hb.Feature{
		Tag:   Feature4HB(frng.Feature),
		Value: frng.Value(),
		Start: frng.Start,
		End:   frng.End,
	}
}

// --- Faces -----------------------------------------------------------------

// faces caches parsed faces per face identifier. Fonts of the same face at
// different sizes share the parsed face.
var faces = struct {
	sync.Mutex
	parsed map[string]*hbtt.Font
}{parsed: make(map[string]*hbtt.Font)}

func faceFor(f *font.Font) (*hbtt.Font, error) {
	id := f.Handle().FaceIdentifier()
	faces.Lock()
	defer faces.Unlock()
	if face, ok := faces.parsed[id]; ok {
		return face, nil
	}
	data, err := glyphing.FontData(f)
	if err != nil {
		return nil, err
	}
	face, err := hbtt.Parse(bytes.NewReader(data), true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot parse font %s", id)
	}
	tracer().Debugf("HarfBuzz parsed face %s", id)
	faces.parsed[id] = face
	return face, nil
}

// --- Shape -----------------------------------------------------------------

// Factory returns a shaper factory for HarfBuzz shapers with params.
//
// If params.Features is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
func Factory(params glyphing.Params) font.ShaperFactory {
	return func(f *font.Font) (font.Shaper, error) {
		face, err := faceFor(f)
		if err != nil {
			return nil, err
		}
		hbFont := hb.NewFont(face)
		hbFont.Ptem = float32(f.Style().PtSize)
		sh := &shaper{
			hbFont: hbFont,
			emPx:   f.Style().PtSize,
			params: params,
		}
		for _, feat := range params.Features {
			sh.features = append(sh.features, FeatureRange4HB(feat))
		}
		return sh, nil
	}
}

type shaper struct {
	mu       sync.Mutex // HarfBuzz fonts cache shaping plans
	hbFont   *hb.Font
	emPx     float64
	params   glyphing.Params
	features []hb.Feature
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a text, turning its Unicode characters into positioned
// glyphs. It will select a shape plan based on the shaper's parameters and
// the properties of the input text.
func (sh *shaper) Shape(text string, store *glyphs.Store) error {
	if err := glyphing.CheckStore(text, store); err != nil {
		return err
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	hbBuf := hb.NewBuffer()
	convertParams(&hbBuf.Props, sh.params)
	hbBuf.AddRunes(runes, 0, len(runes))
	guessSegmentProperties(&hbBuf.Props, runes)
	sh.mu.Lock()
	hbBuf.Shape(sh.hbFont, sh.features)
	sh.mu.Unlock()
	// HarfBuzz positions are in font units scaled to an em of XScale
	xscale := float64(sh.hbFont.XScale)
	yscale := float64(sh.hbFont.YScale)
	if xscale == 0 || yscale == 0 {
		return core.Error(core.EINTERNAL, "HarfBuzz font has no scale")
	}
	seq := make([]glyphing.ShapedGlyph, len(hbBuf.Info))
	for i, ginfo := range hbBuf.Info {
		gpos := hbBuf.Pos[i]
		seq[i] = glyphing.ShapedGlyph{
			ClusterID: ginfo.Cluster,
			GID:       font.GlyphID(ginfo.Glyph),
			XAdvance:  float64(gpos.XAdvance) * sh.emPx / xscale,
			YAdvance:  -float64(gpos.YAdvance) * sh.emPx / yscale,
			XOffset:   float64(gpos.XOffset) * sh.emPx / xscale,
			YOffset:   -float64(gpos.YOffset) * sh.emPx / yscale,
		}
	}
	tracer().Debugf("HarfBuzz shaped %q into %d glyphs", text, len(seq))
	glyphing.Fill(store, seq)
	return nil
}

// convertParams is a helper function to convert glyphing parameters to
// HarfBuzz's format.
func convertParams(hbSeqProps *hb.SegmentProperties, params glyphing.Params) {
	if params.HasLanguage() {
		hbSeqProps.Language = Lang4HB(params.Language)
	}
	if params.HasScript() {
		hbSeqProps.Script = Script4HB(params.Script)
	}
	hbSeqProps.Direction = Direction4HB(params.Direction)
}

// guessSegmentProperties fills in script and language not set by the shaping
// parameters. The script is taken from the first character of a real
// script, the language from the process's locale.
func guessSegmentProperties(props *hb.SegmentProperties, runes []rune) {
	if props.Script == 0 {
		props.Script = GuessScript(runes)
	}
	if props.Language == "" {
		props.Language = hblang.DefaultLanguage()
	}
}

// GuessScript returns the script of the first character of runes which
// belongs to a real script, i.e. neither Common nor Inherited. If there is
// no such character, 0 is returned and HarfBuzz falls back to its default
// shaper.
func GuessScript(runes []rune) hblang.Script {
	for _, r := range runes {
		if script := hblang.LookupScript(r); script.IsRealScript() {
			return script
		}
	}
	return 0
}
