package bootstrap

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/glyphs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestRegisterAll(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, RegisterAll())
	require.NoError(t, RegisterAll(), "registering twice is harmless")
	assert.Subset(t, font.Platforms(), []string{"ximage", "gotext", "tdewolff"})
	assert.Subset(t, font.Shapers(), []string{"harfbuzz", "gotext", "monospace", "simple"})
	assert.Subset(t, gfx.Backends(), []string{"raster", "recording"})
}

func TestSetupDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, RegisterAll())
	eng, err := Setup(nil)
	require.NoError(t, err)
	assert.Equal(t, "ximage", eng.Params.Platform)
	require.NotNil(t, eng.Config.Backend)
	assert.Equal(t, "raster", eng.Config.Backend.Name())
	assert.NotNil(t, eng.Config.Shaper)
	assert.NotNil(t, eng.Platform)
	require.Len(t, eng.Locators, 2, "memory and system fonts")
	assert.Same(t, eng.Memory, eng.Locators[0])
}

func TestSetupInvalid(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, RegisterAll())
	_, err := Setup(testconfig.Conf{"font.platform": "cairo"})
	require.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestScriptSelectsShaper(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, RegisterAll())
	for _, shaper := range []string{"harfbuzz", "gotext", "monospace"} {
		eng, err := Setup(testconfig.Conf{
			"font.shaper":      shaper,
			"shaping.script":   "Latn",
			"shaping.language": "en",
		})
		require.NoError(t, err, shaper)
		assert.NotNil(t, eng.Config.Shaper, shaper)
		assert.Equal(t, "en", eng.Params.Language.String())
	}
}

func TestContextWithMemoryFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, RegisterAll())
	eng, err := Setup(testconfig.Conf{
		"render.backend": "recording",
		"font.shaper":    "monospace",
	})
	require.NoError(t, err)
	_, err = eng.Memory.Add("mem:gomono", gomono.TTF)
	require.NoError(t, err)
	fc := eng.NewContext()
	group := fc.GroupForStyle(font.Style{PtSize: 10, Families: []string{"Go Mono"}})
	primary := group.Primary()
	assert.Equal(t, "mem:gomono", primary.Handle().FaceIdentifier())
	store := primary.ShapeText("abc", false)
	assert.Equal(t, dimen.FromPx(18), store.AdvanceForRange(glyphs.NewRange(0, 3)))
	assert.NotSame(t, fc, eng.NewContext(), "contexts belong to tasks")
}
