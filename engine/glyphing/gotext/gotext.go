/*
Package gotext shapes text with the HarfBuzz port of go-text/typesetting.

Fonts created from a go-text platform handle share the handle's parsed
font. For other handles the font binary is parsed once per face.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gotext

import (
	"bytes"
	"sync"

	gtfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/di"
	gtlang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	gthandle "github.com/npillmayer/typecase/core/font/platform/gotext"
	"github.com/npillmayer/typecase/engine/glyphing"
	"golang.org/x/image/math/fixed"
)

// tracer traces with key 'typecase.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.glyphs")
}

// Name is the name this shaper is registered with.
const Name = "gotext"

// Register makes this shaper available as font.ShaperNamed(Name), with
// default parameters.
func Register() error {
	return glyphing.Register(Name, Factory(glyphing.DefaultParams()))
}

// parsed caches go-text fonts per face identifier. go-text fonts are
// read-only and safe for concurrent use.
var parsed = struct {
	sync.Mutex
	fonts map[string]*gtfont.Font
}{fonts: make(map[string]*gtfont.Font)}

func fontFor(f *font.Font) (*gtfont.Font, error) {
	if h, ok := f.Handle().(*gthandle.Handle); ok {
		return h.Font(), nil
	}
	id := f.Handle().FaceIdentifier()
	parsed.Lock()
	defer parsed.Unlock()
	if ft, ok := parsed.fonts[id]; ok {
		return ft, nil
	}
	data, err := glyphing.FontData(f)
	if err != nil {
		return nil, err
	}
	face, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "go-text cannot parse font %s", id)
	}
	tracer().Debugf("go-text parsed face %s", id)
	parsed.fonts[id] = face.Font
	return face.Font, nil
}

// Factory returns a shaper factory for go-text shapers with params.
// Feature ranges of params are applied to the whole text.
func Factory(params glyphing.Params) font.ShaperFactory {
	return func(f *font.Font) (font.Shaper, error) {
		ft, err := fontFor(f)
		if err != nil {
			return nil, err
		}
		sh := &shaper{
			font:   ft,
			size:   fixed.Int26_6(f.Style().PtSize * 64),
			params: params,
			pool: sync.Pool{
				New: func() any { return &shaping.HarfbuzzShaper{} },
			},
		}
		if params.HasScript() {
			if scr, err := gtlang.ParseScript(params.Script.String()); err == nil {
				sh.script = scr
			}
		}
		sh.lang = gtlang.NewLanguage("en")
		if params.HasLanguage() {
			sh.lang = gtlang.NewLanguage(params.Language.String())
		}
		for _, feat := range params.Features {
			sh.features = append(sh.features, shaping.FontFeature{
				Tag:   ot.Tag(feat.Feature),
				Value: feat.Value(),
			})
		}
		return sh, nil
	}
}

type shaper struct {
	font     *gtfont.Font
	size     fixed.Int26_6
	params   glyphing.Params
	script   gtlang.Script
	lang     gtlang.Language
	features []shaping.FontFeature
	pool     sync.Pool // HarfbuzzShaper is not safe for concurrent use
}

// Shape is part of interface font.Shaper.
func (sh *shaper) Shape(text string, store *glyphs.Store) error {
	if err := glyphing.CheckStore(text, store); err != nil {
		return err
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	script := sh.script
	if script == 0 {
		script = detectScript(runes)
	}
	input := shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    direction(sh.params.Direction),
		Face:         gtfont.NewFace(sh.font), // faces are not safe for concurrent use
		Size:         sh.size,
		Script:       script,
		Language:     sh.lang,
		FontFeatures: sh.features,
	}
	hbShaper := sh.pool.Get().(*shaping.HarfbuzzShaper)
	output := hbShaper.Shape(input)
	sh.pool.Put(hbShaper)
	vertical := input.Direction.IsVertical()
	seq := make([]glyphing.ShapedGlyph, len(output.Glyphs))
	for i, g := range output.Glyphs {
		seq[i] = glyphing.ShapedGlyph{
			ClusterID: g.TextIndex(),
			GID:       font.GlyphID(g.GlyphID),
			XOffset:   px(g.XOffset),
			YOffset:   -px(g.YOffset), // go-text y grows upwards
		}
		if vertical {
			seq[i].YAdvance = -px(g.Advance)
		} else {
			seq[i].XAdvance = px(g.Advance)
		}
	}
	tracer().Debugf("go-text shaped %q into %d glyphs", text, len(seq))
	glyphing.Fill(store, seq)
	return nil
}

// direction converts a glyphing direction to go-text's di.Direction.
func direction(d glyphing.Direction) di.Direction {
	switch d {
	case glyphing.RightToLeft:
		return di.DirectionRTL
	case glyphing.TopToBottom:
		return di.DirectionTTB
	case glyphing.BottomToTop:
		return di.DirectionBTT
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first character which is not a
// space.
func detectScript(runes []rune) gtlang.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return gtlang.LookupScript(r)
	}
	return gtlang.Latin
}

func px(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
