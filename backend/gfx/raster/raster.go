/*
Package raster implements a drawing backend rendering glyph outlines onto
images, using the anti-aliasing rasterizer of golang.org/x/image/vector.

Font handles must implement gfx.Outliner to be usable with this backend.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package raster

import (
	"errors"
	"image"
	"image/color"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// tracer traces with key 'typecase.render'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.render")
}

// Name is the name the backend registers itself with.
const Name = "raster"

// Backend rasterizes glyphs. It carries no state and is safe for concurrent use.
type Backend struct{}

var _ gfx.Backend = Backend{}

// New creates a raster backend.
func New() Backend {
	return Backend{}
}

// Register registers the raster backend with package gfx.
func Register() error {
	err := gfx.RegisterBackend(Name, func() gfx.Backend { return New() })
	if errors.Is(err, gfx.ErrBackendAlreadyRegistered) {
		return nil
	}
	return err
}

type scaledFont struct {
	src      gfx.FontSource
	outliner gfx.Outliner
	size     float64
}

func (sf *scaledFont) Source() gfx.FontSource { return sf.src }
func (sf *scaledFont) Size() float64          { return sf.size }

// Name is part of interface gfx.Backend.
func (Backend) Name() string {
	return Name
}

// NewScaledFont is part of interface gfx.Backend.
func (Backend) NewScaledFont(src gfx.FontSource, ptSize float64) (gfx.ScaledFont, error) {
	outliner, ok := src.(gfx.Outliner)
	if !ok {
		return nil, core.Error(core.EINVALID, "font %s cannot produce glyph outlines", src.FaceIdentifier())
	}
	if ptSize <= 0 {
		return nil, core.Error(core.EINVALID, "cannot scale font %s to size %g", src.FaceIdentifier(), ptSize)
	}
	tracer().Debugf("raster: scaled font %s at %.2f", src.FaceIdentifier(), ptSize)
	return &scaledFont{src: src, outliner: outliner, size: ptSize}, nil
}

// NewColorPattern is part of interface gfx.Backend.
func (Backend) NewColorPattern(c color.Color) gfx.Pattern {
	return gfx.SolidPattern{C: c}
}

// FillGlyphs is part of interface gfx.Backend.
func (Backend) FillGlyphs(target gfx.Target, sf gfx.ScaledFont, gs []gfx.Glyph,
	p gfx.Pattern, opts gfx.DrawOptions) error {
	//
	rsf, ok := sf.(*scaledFont)
	if !ok {
		return core.Error(core.EINVALID, "scaled font has not been created by raster backend")
	}
	b := target.Bounds()
	if b.Empty() || len(gs) == 0 {
		return nil
	}
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, g := range gs {
		sink := &rasterSink{z: z, dx: g.X - float64(b.Min.X), dy: g.Y - float64(b.Min.Y)}
		if err := rsf.outliner.GlyphOutline(g.ID, rsf.size, sink); err != nil {
			tracer().Errorf("raster: no outline for glyph %d: %v", g.ID, err)
			continue
		}
		sink.Close()
	}
	switch opts.Operator {
	case gfx.OpSource:
		z.DrawOp = draw.Src
	default:
		z.DrawOp = draw.Over
	}
	src := image.NewUniform(withAlpha(p.Color(), opts.Alpha))
	z.Draw(target, b, src, image.Point{})
	return nil
}

// withAlpha scales a color's (premultiplied) components by alpha.
func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha >= 1 {
		return c
	}
	if alpha < 0 {
		alpha = 0
	}
	r, g, b, a := c.RGBA()
	scale := func(v uint32) uint16 { return uint16(float64(v) * alpha) }
	return color.RGBA64{R: scale(r), G: scale(g), B: scale(b), A: scale(a)}
}

// rasterSink translates glyph outlines to the rasterizer's coordinates.
type rasterSink struct {
	z      *vector.Rasterizer
	dx, dy float64
	open   bool
}

func (s *rasterSink) pt(x, y float64) (float32, float32) {
	return float32(x + s.dx), float32(y + s.dy)
}

func (s *rasterSink) MoveTo(x, y float64) {
	s.Close()
	s.z.MoveTo(s.pt(x, y))
	s.open = true
}

func (s *rasterSink) LineTo(x, y float64) {
	s.z.LineTo(s.pt(x, y))
}

func (s *rasterSink) QuadTo(cx, cy, x, y float64) {
	bx, by := s.pt(cx, cy)
	ex, ey := s.pt(x, y)
	s.z.QuadTo(bx, by, ex, ey)
}

func (s *rasterSink) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	bx, by := s.pt(c1x, c1y)
	cx, cy := s.pt(c2x, c2y)
	ex, ey := s.pt(x, y)
	s.z.CubeTo(bx, by, cx, cy, ex, ey)
}

func (s *rasterSink) Close() {
	if s.open {
		s.z.ClosePath()
		s.open = false
	}
}
