package font

import (
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"golang.org/x/sync/singleflight"
)

// DefaultFallbackAdvance is the advance in pixels substituted for glyphs the
// platform cannot measure.
const DefaultFallbackAdvance = 10.0

// Config holds the capabilities a font is created with. Tasks usually
// share a single config between all their fonts.
type Config struct {
	Backend         gfx.Backend   // drawing backend; may be nil for fonts which are never drawn
	Shaper          ShaperFactory // nil selects SimpleShaper
	FallbackAdvance float64       // advance for glyphs without platform metrics
}

// DefaultConfig returns a config without a drawing backend, using the
// simple shaper.
func DefaultConfig() Config {
	return Config{FallbackAdvance: DefaultFallbackAdvance}
}

// Font is a font handle at a used style, together with caches for shaped
// text and glyph advances. Fonts are safe for concurrent use by the
// goroutines of one task.
//
// The shaper and the backend's scaled font are created on first use. Cached
// results are never evicted: style and handle are immutable, so every cached
// entry stays valid for the lifetime of the font.
type Font struct {
	handle  Handle
	style   Style
	metrics Metrics
	config  Config

	mu           sync.Mutex // guards the fields below
	shaper       Shaper
	scaled       gfx.ScaledFont
	shapeCache   map[string]*glyphs.Store
	advanceCache map[GlyphID]float64

	inflight singleflight.Group // de-duplicates concurrent shaping of the same text
}

// NewFromBuffer creates a font from a font binary, using a platform handle
// factory. Construction failures are returned as errors, never as a
// partially usable font.
func NewFromBuffer(conf Config, platform HandleFactory, buf []byte, faceID string, style Style) (*Font, error) {
	if platform == nil {
		return nil, core.Error(core.EINVALID, "no font platform to create font %q from", faceID)
	}
	if len(buf) == 0 {
		return nil, core.Error(core.EINVALID, "cannot create font %q from empty buffer", faceID)
	}
	h, err := platform(buf, faceID, style)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create font %q", faceID)
	}
	return NewFromHandle(conf, h, style), nil
}

// NewFromHandle creates a font by adopting an existing platform handle.
// The font takes ownership of h.
func NewFromHandle(conf Config, h Handle, style Style) *Font {
	core.Precondition(h != nil, "cannot create font from nil handle")
	f := &Font{
		handle:       h,
		style:        style,
		metrics:      h.Metrics(),
		config:       conf,
		shapeCache:   make(map[string]*glyphs.Store),
		advanceCache: make(map[GlyphID]float64),
	}
	tracer().Infof("font %s created at %gpt, %s", h.FaceIdentifier(), style.PtSize, f.metrics)
	return f
}

// Handle returns the platform handle of f.
func (f *Font) Handle() Handle {
	return f.handle
}

// Style returns the used style of f.
func (f *Font) Style() Style {
	return f.style
}

// Metrics returns the font metrics, computed when the handle was created.
func (f *Font) Metrics() Metrics {
	return f.metrics
}

func (f *Font) String() string {
	return "font{" + f.handle.FaceIdentifier() + " " + f.style.String() + "}"
}

// Descriptor returns a descriptor identifying f, consisting of the used style
// and the face identifier of the handle.
func (f *Font) Descriptor() Descriptor {
	return NewDescriptor(f.style, PlatformSelector(f.handle.FaceIdentifier()))
}

// TableForTag returns a raw font table of the font binary.
func (f *Font) TableForTag(tag TableTag) ([]byte, bool) {
	table, ok := f.handle.TableForTag(tag)
	if ok {
		tracer().Debugf("font %s: found table '%s' (%d bytes)", f.handle.FaceIdentifier(), tag, len(table))
	} else {
		tracer().Debugf("font %s: no table '%s'", f.handle.FaceIdentifier(), tag)
	}
	return table, ok
}

// GlyphIndex returns the glyph for a character, or false if the font has none.
func (f *Font) GlyphIndex(r rune) (GlyphID, bool) {
	return f.handle.GlyphIndex(r)
}

// GlyphHAdvance returns the horizontal advance of a glyph in pixels.
// If the platform cannot tell, the configured fallback advance is returned.
// Results are cached for the lifetime of the font.
func (f *Font) GlyphHAdvance(g GlyphID) float64 {
	f.mu.Lock()
	adv, ok := f.advanceCache[g]
	f.mu.Unlock()
	if ok {
		return adv
	}
	if adv, ok = f.handle.GlyphHAdvance(g); !ok {
		tracer().Debugf("font %s: no advance for glyph %d, using %g", f.handle.FaceIdentifier(),
			g, f.config.FallbackAdvance)
		adv = f.config.FallbackAdvance
	}
	f.mu.Lock()
	if cached, found := f.advanceCache[g]; found {
		adv = cached
	} else {
		f.advanceCache[g] = adv
	}
	f.mu.Unlock()
	return adv
}

// makeShaper returns the shaper of f, creating it on first call.
func (f *Font) makeShaper() Shaper {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shaper != nil {
		return f.shaper
	}
	factory := f.config.Shaper
	if factory == nil {
		factory = SimpleShaper
	}
	sh, err := factory(f)
	if err != nil || sh == nil {
		tracer().Errorf("font %s: cannot create shaper, using simple shaper: %v", f.handle.FaceIdentifier(), err)
		sh, _ = SimpleShaper(f)
	}
	f.shaper = sh
	return sh
}

// scaledFont returns the drawing backend's resource for f, creating it on
// first call. Failed creation is not cached.
func (f *Font) scaledFont() (gfx.ScaledFont, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scaled != nil {
		return f.scaled, nil
	}
	if f.config.Backend == nil {
		return nil, core.Error(core.EMISSING, "no drawing backend configured for font %s",
			f.handle.FaceIdentifier())
	}
	sf, err := f.config.Backend.NewScaledFont(f.handle, f.style.PtSize)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("font %s: created scaled font with backend %s", f.handle.FaceIdentifier(),
		f.config.Backend.Name())
	f.scaled = sf
	return sf, nil
}

// ShapeText shapes a text into a glyph store. Results are cached per text
// and whitespace flag: shaping the same text again returns the very same
// store. isWhitespace tags a new store as shaped from whitespace.
//
// Concurrent calls for the same text and flag shape it once.
func (f *Font) ShapeText(text string, isWhitespace bool) *glyphs.Store {
	shaper := f.makeShaper()
	key := shapeKey(text, isWhitespace)
	if store, ok := f.cachedShape(key); ok {
		return store
	}
	v, _, _ := f.inflight.Do(key, func() (interface{}, error) {
		if store, ok := f.cachedShape(key); ok {
			return store, nil
		}
		store := f.shape(shaper, text, isWhitespace)
		f.mu.Lock()
		f.shapeCache[key] = store
		f.mu.Unlock()
		return store, nil
	})
	return v.(*glyphs.Store)
}

// shapeKey prefixes text with its whitespace flag.
func shapeKey(text string, isWhitespace bool) string {
	if isWhitespace {
		return "w" + text
	}
	return "t" + text
}

func (f *Font) cachedShape(key string) (*glyphs.Store, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	store, ok := f.shapeCache[key]
	if ok {
		tracer().Debugf("font %s: shape cache hit for %q", f.handle.FaceIdentifier(), key[1:])
	}
	return store, ok
}

func (f *Font) shape(shaper Shaper, text string, isWhitespace bool) *glyphs.Store {
	n := utf8.RuneCountInString(text)
	store := glyphs.NewStore(n, isWhitespace)
	if err := shaper.Shape(text, store); err != nil {
		tracer().Errorf("font %s: shaping %q failed, falling back to simple shaping: %v",
			f.handle.FaceIdentifier(), text, err)
		store = glyphs.NewStore(n, isWhitespace)
		simple, _ := SimpleShaper(f)
		_ = simple.Shape(text, store)
	}
	store.Freeze()
	tracer().Debugf("font %s: shaped %q into %d glyphs", f.handle.FaceIdentifier(), text, store.GlyphCount())
	return store
}
