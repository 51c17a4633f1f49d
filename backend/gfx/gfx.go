/*
Package gfx defines the interface between text drawing and the low-level
glyph rasterization and compositing backends.

A backend creates scaled fonts from font handles, creates paint patterns
and fills batches of positioned glyphs onto a drawing target. Backends are
registered by name and selected once, at start-up.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gfx

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"golang.org/x/image/draw"
)

// tracer traces with key 'typecase.render'.
func tracer() tracing.Trace {
	return tracing.Select("typecase.render")
}

// Target is a drawing target.
type Target = draw.Image

// FontSource is what backends need to know of a font handle. Backends may
// check for further capabilities, e.g. Outliner.
type FontSource interface {
	FaceIdentifier() string
}

// PathSink receives glyph outlines. Coordinates are in pixels, relative to
// the glyph origin on the baseline, with y growing downwards.
type PathSink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	CubeTo(c1x, c1y, c2x, c2y, x, y float64)
	Close()
}

// Outliner is implemented by font handles able to produce glyph outlines
// for a given em-size in pixels.
type Outliner interface {
	GlyphOutline(g glyphs.GlyphID, emPx float64, sink PathSink) error
}

// ScaledFont is a backend resource for a font at a given size.
type ScaledFont interface {
	Source() FontSource
	Size() float64
}

// Pattern is a paint to fill glyphs with.
type Pattern interface {
	Color() color.Color
}

// SolidPattern is a single color paint.
type SolidPattern struct {
	C color.Color
}

// Color is part of interface Pattern.
func (p SolidPattern) Color() color.Color {
	return p.C
}

// Operator selects the composition of source and destination.
type Operator int

// Composition operators
const (
	OpOver Operator = iota // default composition
	OpSource
)

// DrawOptions control the composition of glyphs.
type DrawOptions struct {
	Alpha    float64
	Operator Operator
}

// DefaultDrawOptions are full opacity and default composition.
var DefaultDrawOptions = DrawOptions{Alpha: 1, Operator: OpOver}

// Glyph is a glyph positioned in device pixels.
type Glyph struct {
	ID   glyphs.GlyphID
	X, Y float64
}

// Backend is a glyph rasterization and compositing backend.
type Backend interface {
	Name() string
	NewScaledFont(src FontSource, ptSize float64) (ScaledFont, error)
	NewColorPattern(c color.Color) Pattern
	FillGlyphs(target Target, sf ScaledFont, gs []Glyph, p Pattern, opts DrawOptions) error
}

// --- Registry --------------------------------------------------------------

// ErrBackendAlreadyRegistered is returned for duplicate backend names.
var ErrBackendAlreadyRegistered = errors.New("drawing backend already registered")

// BackendFactory creates a backend instance.
type BackendFactory func() Backend

type backendRegistry struct {
	mu      sync.RWMutex
	entries map[string]BackendFactory
}

var backends = &backendRegistry{entries: make(map[string]BackendFactory)}

// RegisterBackend makes a backend available under a name.
func RegisterBackend(name string, factory BackendFactory) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || factory == nil {
		return fmt.Errorf("cannot register drawing backend with empty name or factory")
	}
	backends.mu.Lock()
	defer backends.mu.Unlock()
	if _, ok := backends.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrBackendAlreadyRegistered, name)
	}
	backends.entries[name] = factory
	tracer().Debugf("registered drawing backend %q", name)
	return nil
}

// NewBackend creates a backend registered under name.
func NewBackend(name string) (Backend, error) {
	backends.mu.RLock()
	factory, ok := backends.entries[strings.ToLower(name)]
	backends.mu.RUnlock()
	if !ok {
		return nil, core.Error(core.EMISSING, "no drawing backend %q registered", name)
	}
	return factory(), nil
}

// Backends lists the names of registered backends.
func Backends() []string {
	backends.mu.RLock()
	defer backends.mu.RUnlock()
	names := make([]string, 0, len(backends.entries))
	for n := range backends.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
