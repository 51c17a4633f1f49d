package fonttest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/typecase/backend/gfx"
	"github.com/npillmayer/typecase/core/dimen"
	"github.com/npillmayer/typecase/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goregular"
)

// CheckPlatform runs a platform handle factory against the Go fonts and
// checks the behaviour every platform has to show.
func CheckPlatform(t *testing.T, platform font.HandleFactory) {
	t.Helper()
	style := font.Style{PtSize: 12}
	h, err := platform(goregular.TTF, "packaged:goregular", style)
	require.NoError(t, err)
	require.NotNil(t, h)
	//
	assert.Equal(t, "packaged:goregular", h.FaceIdentifier())
	assert.Equal(t, "Go", h.FamilyName())
	assert.Equal(t, "Regular", h.FaceName())
	assert.False(t, h.IsItalic())
	assert.Equal(t, xfont.WeightNormal, h.Boldness())
	//
	gid, ok := h.GlyphIndex('A')
	assert.True(t, ok, "Go font has a glyph for 'A'")
	assert.NotZero(t, gid)
	_, ok = h.GlyphIndex('\U0010FFFD')
	assert.False(t, ok, "Go font has no glyph for private use characters")
	adv, ok := h.GlyphHAdvance(gid)
	assert.True(t, ok)
	assert.Greater(t, adv, 0.0)
	assert.Less(t, adv, 12.0)
	//
	m := h.Metrics()
	assert.Equal(t, 12*dimen.PX, m.EmSize)
	assert.Greater(t, m.Ascent, dimen.Zero)
	assert.Greater(t, m.Descent, dimen.Zero)
	assert.Greater(t, m.Ascent, m.Descent)
	assert.Greater(t, m.MaxAdvance, dimen.Zero)
	assert.Greater(t, m.XHeight, dimen.Zero)
	assert.Less(t, m.XHeight, m.Ascent)
	assert.Greater(t, m.UnderlineSize, dimen.Zero)
	//
	head, ok := h.TableForTag(font.TagHead)
	assert.True(t, ok)
	assert.Len(t, head, 54)
	_, ok = h.TableForTag(font.MakeTag("zzzz"))
	assert.False(t, ok)
	//
	if p, ok := h.(font.FontDataProvider); assert.True(t, ok, "handle provides font data") {
		assert.True(t, bytes.Equal(goregular.TTF, p.FontData()))
	}
	if o, ok := h.(gfx.Outliner); assert.True(t, ok, "handle provides outlines") {
		gid, _ := h.GlyphIndex('O')
		pc := &PathCounter{}
		require.NoError(t, o.GlyphOutline(gid, 12, pc))
		assert.GreaterOrEqual(t, pc.Moves, 2, "'O' has an inner and an outer contour")
		assert.Equal(t, pc.Moves, pc.Closes)
		assert.Greater(t, pc.Segments(), 4)
		assert.Less(t, pc.MinY, 0.0, "y grows downwards from the baseline")
	}
}

// CheckPlatformStyles checks face properties of a bold italic face.
func CheckPlatformStyles(t *testing.T, platform font.HandleFactory) {
	t.Helper()
	h, err := platform(gobolditalic.TTF, "", font.Style{PtSize: 10})
	require.NoError(t, err)
	assert.Equal(t, "Go", h.FamilyName())
	assert.True(t, h.IsItalic())
	assert.Equal(t, xfont.WeightSemiBold, h.Boldness())
	assert.True(t, strings.HasPrefix(h.FaceIdentifier(), "mem:"))
	again, err := platform(gobolditalic.TTF, "", font.Style{PtSize: 12})
	require.NoError(t, err)
	assert.Equal(t, h.FaceIdentifier(), again.FaceIdentifier(), "derived identifiers are stable")
}

// CheckPlatformFailures checks that unusable input is rejected.
func CheckPlatformFailures(t *testing.T, platform font.HandleFactory) {
	t.Helper()
	_, err := platform([]byte("this is not a font binary"), "junk", font.Style{PtSize: 12})
	assert.Error(t, err)
	_, err = platform(goregular.TTF, "packaged:goregular", font.Style{PtSize: 0})
	assert.Error(t, err)
}
