package platform

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/typecase/core/font"
	"github.com/stretchr/testify/assert"
	xfont "golang.org/x/image/font"
)

func TestWeightFromClass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	assert.Equal(t, xfont.WeightNormal, WeightFromClass(400))
	assert.Equal(t, xfont.WeightBold, WeightFromClass(700))
	assert.Equal(t, xfont.WeightMedium, WeightFromClass(480))
	assert.Equal(t, xfont.WeightThin, WeightFromClass(20))
	assert.Equal(t, xfont.WeightBlack, WeightFromClass(1000))
	assert.Equal(t, xfont.WeightNormal, WeightFromClass(0))
}

func TestWeightAndSlantFromName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	assert.Equal(t, xfont.WeightBold, WeightFromName("Bold Italic"))
	assert.Equal(t, xfont.WeightSemiBold, WeightFromName("Semi Bold"))
	assert.Equal(t, xfont.WeightNormal, WeightFromName("Regular"))
	assert.True(t, IsItalicName("Bold Italic"))
	assert.True(t, IsItalicName("Oblique"))
	assert.False(t, IsItalicName("Regular"))
	assert.Equal(t, "Bold Italic", FaceName(xfont.WeightBold, true))
	assert.Equal(t, "Regular", FaceName(xfont.WeightNormal, false))
	assert.Equal(t, "Italic", FaceName(xfont.WeightNormal, true))
}

func TestFaceIdentifier(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typecase.fonts")
	defer teardown()
	//
	assert.Equal(t, "file:/x.ttf", FaceIdentifier([]byte("abc"), "file:/x.ttf"))
	a := FaceIdentifier([]byte("abc"), "")
	assert.Equal(t, a, FaceIdentifier([]byte("abc"), ""))
	assert.NotEqual(t, a, FaceIdentifier([]byte("abd"), ""))
	assert.Len(t, a, len("mem:")+16)
}

func TestEmSize(t *testing.T) {
	em, err := EmSize(font.Style{PtSize: 14})
	assert.NoError(t, err)
	assert.Equal(t, 14.0, em)
	_, err = EmSize(font.Style{PtSize: -1})
	assert.Error(t, err)
}

func TestRawTableFields(t *testing.T) {
	hhea := make([]byte, 36)
	hhea[10], hhea[11] = 0x04, 0xD2
	adv, ok := HheaMaxAdvance(hhea)
	assert.True(t, ok)
	assert.Equal(t, uint16(1234), adv)
	_, ok = HheaMaxAdvance(hhea[:8])
	assert.False(t, ok)
	maxp := []byte{0, 0, 0x50, 0, 0x01, 0x00}
	n, ok := MaxpNumGlyphs(maxp)
	assert.True(t, ok)
	assert.Equal(t, 256, n)
}
