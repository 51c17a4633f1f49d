package fontregistry

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/locate/resources"
	xfont "golang.org/x/image/font"
)

// Context is a type for holding information about loaded fonts for a
// task.
type Context struct {
	sync.Mutex
	conf          font.Config
	platform      font.HandleFactory
	locator       resources.Locator
	defaultFamily string
	fonts         map[string]*font.Font  // by descriptor key
	groups        map[string]*font.Group // by style key
}

// NewContext creates a font context. Fonts are created with conf, using
// handles from platform, and are searched with locators in order. Packaged
// fonts are always searched last.
func NewContext(conf font.Config, platform font.HandleFactory, locators ...resources.Locator) *Context {
	chain := append(resources.Chain{}, locators...)
	chain = append(chain, resources.Packaged{})
	return &Context{
		conf:          conf,
		platform:      platform,
		locator:       chain,
		defaultFamily: resources.FallbackFamily,
		fonts:         make(map[string]*font.Font),
		groups:        make(map[string]*font.Group),
	}
}

// SetDefaultFamily sets the family used for styles whose families cannot
// be found.
func (fc *Context) SetDefaultFamily(family string) {
	fc.Lock()
	defer fc.Unlock()
	fc.defaultFamily = family
}

// Config returns the font configuration of the context.
func (fc *Context) Config() font.Config {
	return fc.conf
}

// GroupForStyle returns a font group for a style. Every family of the style
// found by a locator contributes a font to the group, in the order of the
// style's family list. If no family can be found, the group consists of the
// default family or, as a last resort, the packaged fallback face. Groups
// are therefore never empty.
//
// Groups are cached per style: equal styles receive the identical group.
func (fc *Context) GroupForStyle(style font.Style) *font.Group {
	key := style.Key()
	fc.Lock()
	if g, ok := fc.groups[key]; ok {
		fc.Unlock()
		tracer().Debugf("font context has group for %s", style)
		return g
	}
	defaultFamily := fc.defaultFamily
	fc.Unlock()
	//
	ctx := context.Background()
	promises := make([]resources.FacePromise, len(style.Families))
	for i, family := range style.Families {
		promises[i] = resources.ResolveFace(ctx, fc.locator, family, style.Slant, style.Weight)
	}
	var fonts []*font.Font
	for i, p := range promises {
		face, err := p.Await(ctx)
		if err != nil {
			tracer().Infof("font context cannot find family %s: %v", style.Families[i], err)
			continue
		}
		if f, err := fc.fontForFace(face, style); err == nil && !contains(fonts, f) {
			fonts = append(fonts, f)
		}
	}
	if len(fonts) == 0 {
		tracer().Infof("no font for %s, using %s", style, defaultFamily)
		if face, err := fc.locator.Locate(ctx, defaultFamily, style.Slant, style.Weight); err == nil {
			if f, err := fc.fontForFace(face, style); err == nil {
				fonts = append(fonts, f)
			}
		}
	}
	if len(fonts) == 0 {
		f, err := fc.fontForFace(resources.Fallback(), style)
		if err != nil {
			core.Precondition(false, "packaged fallback font cannot be used: %v", err)
		}
		fonts = append(fonts, f)
	}
	g := font.NewGroup(style.Families, style, fonts)
	fc.Lock()
	defer fc.Unlock()
	if cached, ok := fc.groups[key]; ok { // lost a race
		return cached
	}
	fc.groups[key] = g
	return g
}

func contains(fonts []*font.Font, f *font.Font) bool {
	for _, g := range fonts {
		if g == f {
			return true
		}
	}
	return false
}

// fontForFace creates a font for a located face at a requested style. The
// used style of the font reflects the face found.
func (fc *Context) fontForFace(face resources.Face, style font.Style) (*font.Font, error) {
	h, err := fc.platform(face.Data, face.ID, style)
	if err != nil {
		tracer().Errorf("font context cannot create handle for %s: %v", face, err)
		return nil, err
	}
	used := font.Style{
		PtSize:   style.PtSize,
		Weight:   h.Boldness(),
		Slant:    xfont.StyleNormal,
		Families: []string{h.FamilyName()},
	}
	if h.IsItalic() {
		used.Slant = xfont.StyleItalic
	}
	desc := font.NewDescriptor(used, font.PlatformSelector(h.FaceIdentifier()))
	fc.Lock()
	defer fc.Unlock()
	if f, ok := fc.fonts[desc.Key()]; ok {
		return f, nil
	}
	f := font.NewFromHandle(fc.conf, h, used)
	fc.fonts[desc.Key()] = f
	tracer().Infof("font context stores font %s", desc)
	return f, nil
}

// Resolve returns the font for a descriptor. If the font is not yet known
// in the context, it is re-created from the face identified by the
// descriptor's selector. Equal descriptors resolve to the identical font.
func (fc *Context) Resolve(desc font.Descriptor) (*font.Font, error) {
	key := desc.Key()
	fc.Lock()
	if f, ok := fc.fonts[key]; ok {
		fc.Unlock()
		tracer().Debugf("font context found font %s", key)
		return f, nil
	}
	fc.Unlock()
	ctx := context.Background()
	face, err := resources.ResolveFaceID(ctx, fc.locator, desc.Selector.Identifier).Await(ctx)
	if err != nil {
		return nil, err
	}
	f, err := font.NewFromBuffer(fc.conf, fc.platform, face.Data, face.ID, desc.Style)
	if err != nil {
		return nil, err
	}
	fc.Lock()
	defer fc.Unlock()
	if cached, ok := fc.fonts[key]; ok {
		return cached, nil
	}
	fc.fonts[key] = f
	tracer().Infof("font context resolved font %s", desc)
	return f, nil
}

// ResolveJSON is like Resolve, for a descriptor in JSON format.
func (fc *Context) ResolveJSON(b []byte) (*font.Font, error) {
	var desc font.Descriptor
	if err := json.Unmarshal(b, &desc); err != nil {
		var appErr core.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, core.WrapError(err, core.EINVALID, "malformed font descriptor")
	}
	return fc.Resolve(desc)
}

// FontFromBuffer creates a font from a font binary and stores it in the
// context. If a font for the same face and style already exists, that font
// is returned.
func (fc *Context) FontFromBuffer(buf []byte, faceID string, style font.Style) (*font.Font, error) {
	f, err := font.NewFromBuffer(fc.conf, fc.platform, buf, faceID, style)
	if err != nil {
		return nil, err
	}
	key := f.Descriptor().Key()
	fc.Lock()
	defer fc.Unlock()
	if cached, ok := fc.fonts[key]; ok {
		return cached, nil
	}
	fc.fonts[key] = f
	return f, nil
}

// Fonts returns the descriptors of all fonts in the context, sorted by key.
func (fc *Context) Fonts() []font.Descriptor {
	fc.Lock()
	defer fc.Unlock()
	descs := make([]font.Descriptor, 0, len(fc.fonts))
	for _, f := range fc.fonts {
		descs = append(descs, f.Descriptor())
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].Key() < descs[j].Key() })
	return descs
}

// LogFontList is a helper function to dump the list of known fonts and groups
// in a context to the trace-file (log-level Info).
func (fc *Context) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	fc.Lock()
	defer fc.Unlock()
	tracer().Infof("--- registered fonts ---")
	for k, f := range fc.fonts {
		tracer().Infof("font [%s] = %v", k, f)
	}
	for k, g := range fc.groups {
		tracer().Infof("group [%s] = %d fonts, primary %v", k, len(g.Fonts), g.Primary())
	}
	tracer().Infof("------------------------")
}
