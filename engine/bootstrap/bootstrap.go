package bootstrap

import (
	"os"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/backend/gfx/raster"
	"github.com/npillmayer/typecase/backend/gfx/recording"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fontregistry"
	"github.com/npillmayer/typecase/core/font/platform/gotext"
	"github.com/npillmayer/typecase/core/font/platform/tdewolff"
	"github.com/npillmayer/typecase/core/font/platform/ximage"
	"github.com/npillmayer/typecase/core/locate/resources"
	"github.com/npillmayer/typecase/core/parameters"
	"github.com/npillmayer/typecase/engine/glyphing"
	gtshaper "github.com/npillmayer/typecase/engine/glyphing/gotext"
	"github.com/npillmayer/typecase/engine/glyphing/harfbuzz"
	"github.com/npillmayer/typecase/engine/glyphing/monospace"
)

// RegisterAll registers all platforms, shapers and drawing backends of
// this module. It may be called more than once.
func RegisterAll() error {
	for _, register := range []func() error{
		ximage.Register,
		gotext.Register,
		tdewolff.Register,
		harfbuzz.Register,
		gtshaper.Register,
		monospace.Register,
		raster.Register,
		recording.Register,
	} {
		if err := register(); err != nil {
			return core.WrapError(err, core.EINTERNAL, "cannot register engine components")
		}
	}
	return nil
}

// Engine holds everything needed to create font contexts. It is read-only
// after Setup and may be shared between tasks.
type Engine struct {
	Params   parameters.Params
	Config   font.Config         // shared by the fonts of all contexts
	Platform font.HandleFactory  // creates font handles from font binaries
	Memory   *resources.Memory   // fonts added by the application; searched first
	Locators []resources.Locator // searched in order, before the packaged fonts
}

// Setup reads the engine parameters from conf and creates an engine. conf
// may be nil, selecting defaults throughout. Platforms, shapers and backends
// have to be registered beforehand, usually by RegisterAll.
func Setup(conf schuko.Configuration) (*Engine, error) {
	params, err := parameters.FromConfig(conf)
	if err != nil {
		return nil, err
	}
	eng := &Engine{Params: params, Memory: resources.NewMemory()}
	if eng.Platform, err = font.Platform(params.Platform); err != nil {
		return nil, err
	}
	backend, err := gfx.NewBackend(params.Backend)
	if err != nil {
		return nil, err
	}
	shaper, err := shaperFor(params)
	if err != nil {
		return nil, err
	}
	eng.Config = font.Config{
		Backend:         backend,
		Shaper:          shaper,
		FallbackAdvance: params.FallbackAdvance,
	}
	eng.Locators = locatorsFor(conf, params)
	locators := make([]resources.Locator, 0, len(eng.Locators)+1)
	locators = append(locators, eng.Memory)
	eng.Locators = append(locators, eng.Locators...)
	tracer().Infof("engine set up with platform %s, shaper %s, backend %s and %d locators",
		params.Platform, params.Shaper, params.Backend, len(eng.Locators))
	return eng, nil
}

// shaperFor selects the shaper factory. Shapers with default parameters are
// taken from the registry; an explicit script or language creates a new
// factory for shapers which support them.
func shaperFor(params parameters.Params) (font.ShaperFactory, error) {
	gp := glyphing.DefaultParams()
	gp.Language = params.Language
	gp.Script = params.Script
	if gp.HasScript() || gp.HasLanguage() {
		switch params.Shaper {
		case harfbuzz.Name:
			return harfbuzz.Factory(gp), nil
		case gtshaper.Name:
			return gtshaper.Factory(gp), nil
		}
		tracer().Infof("shaper %s ignores script and language", params.Shaper)
	}
	return font.ShaperNamed(params.Shaper)
}

func locatorsFor(conf schuko.Configuration, params parameters.Params) []resources.Locator {
	locators := []resources.Locator{resources.NewSystem(params.FontDirs...)}
	if conf == nil {
		return locators
	}
	if strings.TrimSpace(conf.GetString("fontconfig")) != "" {
		locators = append(locators, resources.NewFontConfig(conf))
	}
	if conf.GetString("google-api-key") != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		locators = append(locators, resources.NewGoogleFonts(conf, "", nil))
	}
	return locators
}

// NewContext creates a font context for a task, with the engine's default
// family.
func (eng *Engine) NewContext() *fontregistry.Context {
	fc := fontregistry.NewContext(eng.Config, eng.Platform, eng.Locators...)
	fc.SetDefaultFamily(eng.Params.DefaultFamily)
	return fc
}
