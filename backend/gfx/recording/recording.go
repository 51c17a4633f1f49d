/*
Package recording implements a drawing backend which does not draw, but
records every call it receives. It is used for testing and for dumping
glyph runs.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package recording

import (
	"errors"
	"image/color"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/backend/gfx"
)

// tracer traces with key 'typecase.render'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.render")
}

// Name is the name the backend registers itself with.
const Name = "recording"

// FillCall is a recorded call to FillGlyphs.
type FillCall struct {
	Font    gfx.ScaledFont
	Glyphs  []gfx.Glyph
	Color   color.Color
	Options gfx.DrawOptions
}

// Backend records calls. It is safe for concurrent use.
type Backend struct {
	mu          sync.Mutex
	scaledFonts int
	patterns    int
	fills       []FillCall
}

var _ gfx.Backend = &Backend{}

// New creates a recording backend.
func New() *Backend {
	return &Backend{}
}

// Register registers the recording backend with package gfx.
func Register() error {
	err := gfx.RegisterBackend(Name, func() gfx.Backend { return New() })
	if errors.Is(err, gfx.ErrBackendAlreadyRegistered) {
		return nil
	}
	return err
}

type scaledFont struct {
	src  gfx.FontSource
	size float64
}

func (sf scaledFont) Source() gfx.FontSource { return sf.src }
func (sf scaledFont) Size() float64          { return sf.size }

// Name is part of interface gfx.Backend.
func (b *Backend) Name() string {
	return Name
}

// NewScaledFont is part of interface gfx.Backend.
func (b *Backend) NewScaledFont(src gfx.FontSource, ptSize float64) (gfx.ScaledFont, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scaledFonts++
	tracer().Debugf("recording: scaled font %s at %.2f", src.FaceIdentifier(), ptSize)
	return scaledFont{src: src, size: ptSize}, nil
}

// NewColorPattern is part of interface gfx.Backend.
func (b *Backend) NewColorPattern(c color.Color) gfx.Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.patterns++
	return gfx.SolidPattern{C: c}
}

// FillGlyphs is part of interface gfx.Backend.
func (b *Backend) FillGlyphs(target gfx.Target, sf gfx.ScaledFont, gs []gfx.Glyph,
	p gfx.Pattern, opts gfx.DrawOptions) error {
	//
	b.mu.Lock()
	defer b.mu.Unlock()
	call := FillCall{
		Font:    sf,
		Glyphs:  append([]gfx.Glyph(nil), gs...),
		Color:   p.Color(),
		Options: opts,
	}
	b.fills = append(b.fills, call)
	tracer().Debugf("recording: fill %d glyphs", len(gs))
	return nil
}

// Fills returns all recorded calls to FillGlyphs.
func (b *Backend) Fills() []FillCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]FillCall(nil), b.fills...)
}

// ScaledFontCount returns the number of scaled fonts created.
func (b *Backend) ScaledFontCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scaledFonts
}

// CallCount returns the number of calls of any kind.
func (b *Backend) CallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scaledFonts + b.patterns + len(b.fills)
}

// Reset forgets all recorded calls.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scaledFonts, b.patterns, b.fills = 0, 0, nil
}
