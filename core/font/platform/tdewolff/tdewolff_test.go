package tdewolff

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/font"
	"github.com/npillmayer/typecase/core/font/fonttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestHandle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	fonttest.CheckPlatform(t, New)
	fonttest.CheckPlatformStyles(t, New)
	fonttest.CheckPlatformFailures(t, New)
}

func TestOutlineClosesContours(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	h, err := New(goregular.TTF, "packaged:goregular", font.Style{PtSize: 12})
	require.NoError(t, err)
	gid, ok := h.GlyphIndex('B')
	require.True(t, ok)
	pc := &fonttest.PathCounter{}
	require.NoError(t, h.(*Handle).GlyphOutline(gid, 24, pc))
	assert.Equal(t, pc.Moves, pc.Closes)
	assert.Error(t, h.(*Handle).GlyphOutline(60000, 24, pc))
}

func TestRegister(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	require.NoError(t, Register())
	require.NoError(t, Register())
	_, err := font.Platform(Name)
	assert.NoError(t, err)
}
