package parameters

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	p, err := FromConfig(testconfig.Conf{})
	require.NoError(t, err)
	assert.Equal(t, Defaults(), p)
	assert.Equal(t, 10.0, p.FallbackAdvance)
	assert.Equal(t, "harfbuzz", p.Shaper)
	p, err = FromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "ximage", p.Platform)
}

func TestFromConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	p, err := FromConfig(testconfig.Conf{
		"font.platform":         "GoText",
		"font.shaper":           "monospace",
		"font.fallback-advance": "7.5",
		"font.default-family":   "Go Mono",
		"font.dirs":             "/opt/fonts: /usr/local/fonts",
		"shaping.language":      "de-CH",
		"shaping.script":        "Latn",
		"render.backend":        "recording",
		"app-key":               "typecase-test",
	})
	require.NoError(t, err)
	assert.Equal(t, "gotext", p.Platform)
	assert.Equal(t, "monospace", p.Shaper)
	assert.Equal(t, 7.5, p.FallbackAdvance)
	assert.Equal(t, "Go Mono", p.DefaultFamily)
	assert.Equal(t, []string{"/opt/fonts", "/usr/local/fonts"}, p.FontDirs)
	assert.Equal(t, language.MustParse("de-CH"), p.Language)
	assert.Equal(t, language.MustParseScript("Latn"), p.Script)
	assert.Equal(t, "recording", p.Backend)
	assert.Equal(t, "typecase-test", p.AppKey)
}

func TestInvalidValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	for key, value := range map[string]string{
		"font.platform":         "freetype",
		"font.shaper":           "uniscribe",
		"render.backend":        "azure",
		"font.fallback-advance": "wide",
		"shaping.script":        "Latin",
	} {
		_, err := FromConfig(testconfig.Conf{key: value})
		assert.Error(t, err, key)
		assert.Equal(t, core.EINVALID, core.Code(err), key)
	}
}
