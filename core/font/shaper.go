package font

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font/glyphs"
)

// A Shaper creates a sequence of glyphs from a text. A shaper is bound to
// one font and fills glyph stores sized to the text's number of
// characters. Shapers are called concurrently for different texts.
type Shaper interface {
	Shape(text string, store *glyphs.Store) error
}

// ShaperFactory creates a shaper bound to a font.
type ShaperFactory func(f *Font) (Shaper, error)

// SimpleShaper maps every character to its nominal glyph, advancing by the
// glyph's horizontal advance. It is used if no other shaper is configured,
// and if a configured shaper fails.
func SimpleShaper(f *Font) (Shaper, error) {
	return simpleShaper{font: f}, nil
}

type simpleShaper struct {
	font *Font
}

func (sh simpleShaper) Shape(text string, store *glyphs.Store) error {
	i := glyphs.CharIndex(0)
	for _, r := range text {
		gid, ok := sh.font.GlyphIndex(r)
		if !ok {
			gid = 0 // .notdef
		}
		adv := sh.font.GlyphHAdvance(gid)
		store.AddGlyphsForChar(i, glyphs.Glyph{ID: gid, Advance: dimen.FromPx(adv)})
		i++
	}
	return nil
}

// --- Plug-in registries ----------------------------------------------------

// ErrAlreadyRegistered is returned for duplicate names of platforms or shapers.
var ErrAlreadyRegistered = errors.New("already registered")

type registry[T any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]T
}

func newRegistry[T any](kind string) *registry[T] {
	return &registry[T]{kind: kind, entries: make(map[string]T)}
}

func (r *registry[T]) register(name string, entry T) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("cannot register %s with empty name", r.kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%s %q %w", r.kind, name, ErrAlreadyRegistered)
	}
	r.entries[name] = entry
	tracer().Debugf("registered %s %q", r.kind, name)
	return nil
}

func (r *registry[T]) lookup(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[strings.ToLower(name)]
	if !ok {
		return entry, core.Error(core.EMISSING, "no %s %q registered", r.kind, name)
	}
	return entry, nil
}

func (r *registry[T]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var (
	platforms = newRegistry[HandleFactory]("font platform")
	shapers   = newRegistry[ShaperFactory]("shaper")
)

func init() {
	if err := shapers.register("simple", SimpleShaper); err != nil {
		panic(err)
	}
}

// RegisterPlatform makes a handle factory available under a name.
func RegisterPlatform(name string, factory HandleFactory) error {
	return platforms.register(name, factory)
}

// Platform returns the handle factory registered under name.
func Platform(name string) (HandleFactory, error) {
	return platforms.lookup(name)
}

// Platforms lists the names of registered platforms.
func Platforms() []string {
	return platforms.names()
}

// RegisterShaper makes a shaper factory available under a name.
func RegisterShaper(name string, factory ShaperFactory) error {
	return shapers.register(name, factory)
}

// ShaperNamed returns the shaper factory registered under name.
func ShaperNamed(name string) (ShaperFactory, error) {
	return shapers.lookup(name)
}

// Shapers lists the names of registered shapers.
func Shapers() []string {
	return shapers.names()
}
